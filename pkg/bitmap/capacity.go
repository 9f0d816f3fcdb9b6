package bitmap

import (
	"bmpsteg/internal/bits"
	"math"
	mathbits "math/bits"
)

const (
	channelsPerPixel = 3
	// HeaderBits is reserved out of the capacity of every carrier
	HeaderBits = HeaderSize
	lengthBits = bits.Uint32Window
)

// ImageCapacity is the number of bits a carrier of the given dimensions can hide. Every colour byte of every pixel
// hosts one bit. Dimensions too large to count saturate at math.MaxUint64.
func ImageCapacity(width, height uint32) uint64 {
	hi, capacity := mathbits.Mul64(uint64(width)*uint64(height), channelsPerPixel)
	if hi != 0 {
		return math.MaxUint64
	}
	return capacity
}

// RequiredBits is the number of carrier bytes, one per bit, consumed by a frame
func RequiredBits(signatureLength, extensionLength int, payloadLength uint64) uint64 {
	return 8*uint64(signatureLength) + lengthBits + 8*uint64(extensionLength) + lengthBits + 8*payloadLength
}

// CheckCapacity fails with a *CapacityError when a frame with the given field lengths does not fit in capacityBits
func CheckCapacity(capacityBits uint64, signatureLength, extensionLength int, payloadLength uint64) error {
	var availableBits uint64
	if capacityBits > HeaderBits {
		availableBits = capacityBits - HeaderBits
	}

	requiredBits := RequiredBits(signatureLength, extensionLength, payloadLength)
	if requiredBits > availableBits {
		return &CapacityError{RequiredBits: requiredBits, AvailableBits: availableBits}
	}
	return nil
}
