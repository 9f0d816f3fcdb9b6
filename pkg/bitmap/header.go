package bitmap

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// HeaderSize is the number of bytes copied verbatim before the pixel data. Only the 14-byte file header followed
	// by a 40-byte BITMAPINFOHEADER is supported.
	HeaderSize = 54

	pixelOffsetOffset  = 10
	widthOffset        = 18
	heightOffset       = 22
	bitsPerPixelOffset = 28
	bitsPerPixel       = 24
)

// ReadDimensions extracts the width and height stored in a BMP header as 4-byte little endian integers. Top-down
// bitmaps store a negative height, its absolute value is returned.
func ReadDimensions(header []byte) (width, height uint32, err error) {
	if len(header) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: header has %d bytes, %d expected", ErrTruncated, len(header), HeaderSize)
	}

	width = binary.LittleEndian.Uint32(header[widthOffset : widthOffset+4])
	rawHeight := int32(binary.LittleEndian.Uint32(header[heightOffset : heightOffset+4]))
	if rawHeight == math.MinInt32 {
		return 0, 0, fmt.Errorf("%w: height %d has no absolute value", ErrUnsupportedHeader, rawHeight)
	}
	if rawHeight < 0 {
		rawHeight = -rawHeight
	}
	return width, uint32(rawHeight), nil
}

// CheckHeaderLayout verifies that the pixel data starts right after the 54-byte header and holds 24 bits per pixel,
// which is the layout the pipeline copies and embeds into
func CheckHeaderLayout(header []byte) error {
	if len(header) < HeaderSize {
		return fmt.Errorf("%w: header has %d bytes, %d expected", ErrTruncated, len(header), HeaderSize)
	}

	pixelOffset := binary.LittleEndian.Uint32(header[pixelOffsetOffset : pixelOffsetOffset+4])
	if pixelOffset != HeaderSize {
		return fmt.Errorf("%w: pixel data starts at byte %d", ErrUnsupportedHeader, pixelOffset)
	}
	bpp := binary.LittleEndian.Uint16(header[bitsPerPixelOffset : bitsPerPixelOffset+2])
	if bpp != bitsPerPixel {
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedHeader, bpp)
	}
	return nil
}
