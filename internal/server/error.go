package server

import (
	"bmpsteg/api"
	"bmpsteg/pkg/bitmap"
	"errors"
	"net/http"
)

var (
	errRequestBodyDecode = api.Error{Code: "invalid_body", Error: "Error reading request body"}
	errEncode            = api.Error{Code: "encode_error", Error: "An error occurred while encoding the image"}
	errDecode            = api.Error{Code: "decode_error", Error: "An error occurred while decoding the image"}
)

// toAPIError maps encoder and decoder failures to the status and body returned to the client. Errors not caused by
// the request fall back to internalErr.
func toAPIError(err error, internalErr api.Error) (int, api.Error) {
	var capacityErr *bitmap.CapacityError
	switch {
	case errors.As(err, &capacityErr):
		return http.StatusUnprocessableEntity, api.Error{Code: "insufficient_capacity", Error: capacityErr.Error()}
	case errors.Is(err, bitmap.ErrSignatureMismatch):
		return http.StatusUnprocessableEntity, api.Error{Code: "signature_mismatch", Error: "Image does not carry the expected signature"}
	case errors.Is(err, bitmap.ErrTruncated):
		return http.StatusBadRequest, api.Error{Code: "invalid_image", Error: "Supplied image is truncated or not a BMP image"}
	case errors.Is(err, bitmap.ErrSignatureTooLong),
		errors.Is(err, bitmap.ErrExtensionTooLong),
		errors.Is(err, bitmap.ErrInvalidExtension),
		errors.Is(err, bitmap.ErrUnsupportedHeader),
		errors.Is(err, bitmap.ErrPayloadTooLarge):
		return http.StatusBadRequest, api.Error{Code: "invalid_request", Error: err.Error()}
	default:
		return http.StatusInternalServerError, internalErr
	}
}
