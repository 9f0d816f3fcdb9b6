package test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"math/rand"

	"golang.org/x/image/bmp"
)

func GenerateRandomBytes(numOfBytesToGenerate int) []byte {
	generatedBytes := make([]byte, numOfBytesToGenerate)
	_, err := rand.Read(generatedBytes)
	if err != nil {
		panic(err)
	}
	return generatedBytes
}

// GenerateImage returns an opaque image filled with random pixels
func GenerateImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rand.Intn(256)), G: uint8(rand.Intn(256)), B: uint8(rand.Intn(256)), A: 255})
		}
	}
	return img
}

// GenerateCarrier returns a random 24-bit uncompressed BMP file with a 54-byte header
func GenerateCarrier(width, height int) []byte {
	buf := bytes.NewBuffer(nil)
	if err := bmp.Encode(buf, GenerateImage(width, height)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// GenerateRawCarrier builds a BMP header claiming the supplied dimensions followed by pixelBytes random bytes. It is
// used where the pixel data must not match the header, e.g. to simulate truncated carriers.
func GenerateRawCarrier(width, height uint32, pixelBytes int) []byte {
	header := make([]byte, 54)
	header[0] = 'B'
	header[1] = 'M'
	binary.LittleEndian.PutUint32(header[2:6], uint32(54+pixelBytes))
	binary.LittleEndian.PutUint32(header[10:14], 54)
	binary.LittleEndian.PutUint32(header[14:18], 40)
	binary.LittleEndian.PutUint32(header[18:22], width)
	binary.LittleEndian.PutUint32(header[22:26], height)
	binary.LittleEndian.PutUint16(header[26:28], 1)
	binary.LittleEndian.PutUint16(header[28:30], 24)
	binary.LittleEndian.PutUint32(header[34:38], uint32(pixelBytes))

	return append(header, GenerateRandomBytes(pixelBytes)...)
}
