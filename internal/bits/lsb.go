package bits

// Bits are written most significant first, one bit per carrier byte, into the least significant bit of each carrier
// byte. Only the LSB of a carrier byte is ever modified.

const (
	// ByteWindow is the number of carrier bytes needed to hold one byte
	ByteWindow = 8
	// Uint32Window is the number of carrier bytes needed to hold one uint32
	Uint32Window = 32
)

// EncodeByte returns a copy of carrier with value spread across the LSBs of its bytes
func EncodeByte(value byte, carrier [ByteWindow]byte) [ByteWindow]byte {
	EmbedByte(carrier[:], value)
	return carrier
}

// DecodeByte rebuilds the byte stored in the LSBs of carrier
func DecodeByte(carrier [ByteWindow]byte) byte {
	return ExtractByte(carrier[:])
}

// EncodeUint32 returns a copy of carrier with value spread across the LSBs of its bytes
func EncodeUint32(value uint32, carrier [Uint32Window]byte) [Uint32Window]byte {
	EmbedUint32(carrier[:], value)
	return carrier
}

// DecodeUint32 rebuilds the uint32 stored in the LSBs of carrier
func DecodeUint32(carrier [Uint32Window]byte) uint32 {
	return ExtractUint32(carrier[:])
}

// EmbedByte overwrites the LSBs of the first ByteWindow bytes of dst with value. dst must hold at least ByteWindow
// bytes.
func EmbedByte(dst []byte, value byte) {
	_ = dst[ByteWindow-1]
	for i := 0; i < ByteWindow; i++ {
		dst[i] = (dst[i] & 0xFE) | ((value >> (7 - i)) & 1)
	}
}

// ExtractByte reads a byte from the LSBs of the first ByteWindow bytes of src
func ExtractByte(src []byte) byte {
	_ = src[ByteWindow-1]
	var value byte
	for i := 0; i < ByteWindow; i++ {
		value |= (src[i] & 1) << (7 - i)
	}
	return value
}

// EmbedUint32 overwrites the LSBs of the first Uint32Window bytes of dst with value
func EmbedUint32(dst []byte, value uint32) {
	_ = dst[Uint32Window-1]
	for i := 0; i < Uint32Window; i++ {
		dst[i] = (dst[i] & 0xFE) | byte((value>>(31-i))&1)
	}
}

// ExtractUint32 reads a uint32 from the LSBs of the first Uint32Window bytes of src
func ExtractUint32(src []byte) uint32 {
	_ = src[Uint32Window-1]
	var value uint32
	for i := 0; i < Uint32Window; i++ {
		value |= uint32(src[i]&1) << (31 - i)
	}
	return value
}
