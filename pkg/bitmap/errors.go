package bitmap

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrInsufficientCapacity = errors.New("carrier is not big enough to contain the payload, choose a bigger carrier or a smaller payload")
	ErrSignatureMismatch    = errors.New("decoded signature does not match the expected one, the carrier was likely not encoded with it")
	ErrTruncated            = errors.New("carrier ended before the frame was complete")
	ErrExtensionTooLong     = errors.New("extension is too long")
	ErrInvalidExtension     = errors.New("extension must be empty or a single dot-prefixed suffix without path separators")
	ErrUnsupportedHeader    = errors.New("only uncompressed 24-bit bitmaps with a 54-byte header are supported")
	ErrSignatureTooLong     = errors.New("signature is too long")
	ErrPayloadTooLarge      = errors.New("payload is larger than the 32-bit frame length field allows")
	ErrPipelineAborted      = errors.New("pipeline was aborted by an earlier error")
	ErrPayloadAlreadyRead   = errors.New("payload was already decoded")
)

// CapacityError reports how many carrier bits a frame needed and how many the carrier offered
type CapacityError struct {
	RequiredBits  uint64
	AvailableBits uint64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s (%d bits required, %d available)", ErrInsufficientCapacity, e.RequiredBits, e.AvailableBits)
}

func (e *CapacityError) Unwrap() error {
	return ErrInsufficientCapacity
}

type SignatureError struct {
	Expected string
	Decoded  string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s (expected %q, decoded %q)", ErrSignatureMismatch, e.Expected, e.Decoded)
}

func (e *SignatureError) Unwrap() error {
	return ErrSignatureMismatch
}

// IOError wraps failures of the readers and writers handed to the pipeline
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// carrierReadError turns a short read of the carrier into ErrTruncated, anything else is an IOError
func carrierReadError(err error, field string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w while processing %s", ErrTruncated, field)
	}
	return &IOError{Op: "read carrier " + field, Err: err}
}
