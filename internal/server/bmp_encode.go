package server

import (
	"bmpsteg/api"
	"bmpsteg/internal/logging"
	"bmpsteg/pkg/bitmap"
	"bmpsteg/pkg/config"
	"bmpsteg/pkg/model"
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type bitmapHandlers struct {
	conf config.StegoConfig
}

// EncodeBMPHandler godoc
//
// @Summary Hide a file inside a BMP image
// @Description This endpoint will hide the payload and its extension inside the supplied 24-bit BMP image, and return the stego image. Requests sent as application/octet-stream are read as flatbuffers and answered the same way, all errors are returned as JSON
// @Tags bmp
// @Accept json,octet-stream
// @Produce json,octet-stream
// @Param requestBody body api.EncodeBMPRequest true "Body with the carrier image, the payload to hide and its extension, and optionally the signature to mark the image with"
// @Success 200 {object} api.EncodeBMPResponse
// @Failure 400 {object} api.Error
// @Failure 422 {object} api.Error
// @Failure 500 {object} api.Error
// @Router /encode/bmp [post]
func (h *bitmapHandlers) EncodeBMPHandler(ctx *gin.Context) {
	logger := logging.BuildLoggerFromCtx(ctx)
	logger.Debug("Processing BMP encode request")

	binaryBody := ctx.ContentType() == binaryContentType
	requestBody, err := readEncodeRequest(ctx, binaryBody)
	if err != nil {
		logger.WithError(err).Error("Error decoding request body")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errRequestBodyDecode)
		return
	}

	encoder, err := bitmap.NewEncoder(h.conf.WithSignature(requestBody.Signature))
	if err != nil {
		handleEncodeError(ctx, logger, err)
		return
	}

	stegoImage := bytes.NewBuffer(make([]byte, 0, len(requestBody.Carrier)))
	err = encoder.Encode(ctx.Request.Context(),
		model.Carrier{Content: bytes.NewReader(requestBody.Carrier), Size: int64(len(requestBody.Carrier))},
		model.InputFile{
			Extension: requestBody.Extension,
			Content:   bytes.NewReader(requestBody.Payload),
			Size:      int64(len(requestBody.Payload)),
		}, stegoImage)
	if err != nil {
		handleEncodeError(ctx, logger, err)
		return
	}

	logger.With("stats", toHumanizedEncodeStats(encoder.Stats())).Info("BMP encoding was successful")

	response := api.EncodeBMPResponse{StegoImage: stegoImage.Bytes()}
	if binaryBody {
		ctx.Data(http.StatusOK, binaryContentType, encodeFlatEncodeResponse(response))
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func readEncodeRequest(ctx *gin.Context, binaryBody bool) (api.EncodeBMPRequest, error) {
	if !binaryBody {
		var requestBody api.EncodeBMPRequest
		err := ctx.ShouldBindJSON(&requestBody)
		return requestBody, err
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return api.EncodeBMPRequest{}, err
	}
	return decodeFlatEncodeRequest(body)
}

func handleEncodeError(ctx *gin.Context, logger *logging.Logger, err error) {
	logger.WithError(err).Error("Error encoding data into image")
	ctx.AbortWithStatusJSON(toAPIError(err, errEncode))
}
