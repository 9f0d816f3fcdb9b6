package server

import (
	"bmpsteg/api"
	"bmpsteg/internal/logging"
	"bmpsteg/pkg/bitmap"
	"bmpsteg/pkg/model"
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DecodeBMPHandler godoc
//
// @Summary Recover a file hidden inside a BMP image
// @Description This endpoint will verify the signature of the supplied stego image and return the hidden payload and its extension. Requests sent as application/octet-stream are read as flatbuffers and answered the same way, all errors are returned as JSON
// @Tags bmp
// @Accept json,octet-stream
// @Produce json,octet-stream
// @Param requestBody body api.DecodeBMPRequest true "Body with the stego image to decode and optionally the signature it was marked with"
// @Success 200 {object} api.DecodeBMPResponse
// @Failure 400 {object} api.Error
// @Failure 422 {object} api.Error
// @Failure 500 {object} api.Error
// @Router /decode/bmp [post]
func (h *bitmapHandlers) DecodeBMPHandler(ctx *gin.Context) {
	logger := logging.BuildLoggerFromCtx(ctx)
	logger.Debug("Processing BMP decode request")

	binaryBody := ctx.ContentType() == binaryContentType
	requestBody, err := readDecodeRequest(ctx, binaryBody)
	if err != nil {
		logger.WithError(err).Error("Error decoding request body")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errRequestBodyDecode)
		return
	}

	decoder, err := bitmap.NewDecoder(model.Carrier{
		Content: bytes.NewReader(requestBody.StegoImage),
		Size:    int64(len(requestBody.StegoImage)),
	}, h.conf.WithSignature(requestBody.Signature))
	if err != nil {
		handleDecodeError(ctx, logger, err)
		return
	}

	decodedFile, err := decoder.DecodeFile(ctx.Request.Context())
	if err != nil {
		handleDecodeError(ctx, logger, err)
		return
	}

	logger.With("stats", toHumanizedDecodeStats(decoder.Stats())).Info("BMP decoding was successful")

	response := api.DecodeBMPResponse{Extension: decodedFile.Extension, Payload: decodedFile.Content}
	if binaryBody {
		ctx.Data(http.StatusOK, binaryContentType, encodeFlatDecodeResponse(response))
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func readDecodeRequest(ctx *gin.Context, binaryBody bool) (api.DecodeBMPRequest, error) {
	if !binaryBody {
		var requestBody api.DecodeBMPRequest
		err := ctx.ShouldBindJSON(&requestBody)
		return requestBody, err
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return api.DecodeBMPRequest{}, err
	}
	return decodeFlatDecodeRequest(body)
}

func handleDecodeError(ctx *gin.Context, logger *logging.Logger, err error) {
	logger.WithError(err).Error("Error decoding data from image")
	ctx.AbortWithStatusJSON(toAPIError(err, errDecode))
}
