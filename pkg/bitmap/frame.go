package bitmap

import (
	"bmpsteg/internal/bits"
	"bmpsteg/pkg/config"
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// A frame is laid out in the carrier as follows, every bit taking up the LSB of one carrier byte, most significant
// bit first:
//
//	signature      8 carrier bytes per character
//	extension len  32 carrier bytes
//	extension      8 carrier bytes per character
//	payload len    32 carrier bytes
//	payload        8 carrier bytes per byte

const (
	fieldHeader     = "header"
	fieldSignature  = "signature"
	fieldExtLen     = "extension length"
	fieldExtension  = "extension"
	fieldPayloadLen = "payload length"
	fieldPayload    = "payload"
	fieldTrailing   = "trailing data"
)

// FrameHeader holds the decoded fields that precede the payload
type FrameHeader struct {
	Extension     string
	PayloadLength uint32
}

func validateSignature(conf config.StegoConfig) error {
	if len(conf.Signature) > conf.MaxSignatureLength {
		return fmt.Errorf("%w: %d bytes, at most %d allowed", ErrSignatureTooLong, len(conf.Signature), conf.MaxSignatureLength)
	}
	return nil
}

func validateExtension(extension string, maxLength int) error {
	if len(extension) > maxLength {
		return fmt.Errorf("%w: %d bytes, at most %d allowed", ErrExtensionTooLong, len(extension), maxLength)
	}
	return ValidateExtension(extension)
}

// ValidateExtension rejects extensions that would escape the directory of the file they are appended to. The
// decoder applies it to every extension read from a carrier.
func ValidateExtension(extension string) error {
	if extension == "" {
		return nil
	}
	if extension[0] != '.' || strings.ContainsAny(extension, "/\\\x00") || strings.Contains(extension, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, extension)
	}
	return nil
}

func validatePayloadSize(size int64) error {
	if size < 0 || size > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, size)
	}
	return nil
}

// frameWriter substitutes frame bits into carrier bytes as they are copied to the stego output
type frameWriter struct {
	carrier *bufio.Reader
	stego   *bufio.Writer
	window  [bits.Uint32Window]byte
	field   string
}

func (fw *frameWriter) fill(n int) ([]byte, error) {
	window := fw.window[:n]
	if _, err := io.ReadFull(fw.carrier, window); err != nil {
		return nil, carrierReadError(err, fw.field)
	}
	return window, nil
}

func (fw *frameWriter) flushWindow(window []byte) error {
	if _, err := fw.stego.Write(window); err != nil {
		return &IOError{Op: "write stego " + fw.field, Err: err}
	}
	return nil
}

func (fw *frameWriter) writeByte(value byte) error {
	window, err := fw.fill(bits.ByteWindow)
	if err != nil {
		return err
	}
	bits.EmbedByte(window, value)
	return fw.flushWindow(window)
}

func (fw *frameWriter) writeUint32(value uint32) error {
	window, err := fw.fill(bits.Uint32Window)
	if err != nil {
		return err
	}
	bits.EmbedUint32(window, value)
	return fw.flushWindow(window)
}

func (fw *frameWriter) writeString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := fw.writeByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// frameReader extracts frame bits from the stego stream. remaining is the number of carrier bytes that may still
// hold frame bits, lengths read from the frame are checked against it before they are trusted.
type frameReader struct {
	stego     *bufio.Reader
	window    [bits.Uint32Window]byte
	remaining uint64
	consumed  uint64
	field     string
}

func (fr *frameReader) reserve(carrierBytes uint64) error {
	if carrierBytes > fr.remaining {
		return fmt.Errorf("%w: %s needs %d carrier bytes, %d left", ErrTruncated, fr.field, carrierBytes, fr.remaining)
	}
	return nil
}

func (fr *frameReader) fill(n int) ([]byte, error) {
	window := fr.window[:n]
	if _, err := io.ReadFull(fr.stego, window); err != nil {
		return nil, carrierReadError(err, fr.field)
	}
	fr.remaining -= uint64(n)
	fr.consumed += uint64(n)
	return window, nil
}

func (fr *frameReader) readByte() (byte, error) {
	window, err := fr.fill(bits.ByteWindow)
	if err != nil {
		return 0, err
	}
	return bits.ExtractByte(window), nil
}

func (fr *frameReader) readUint32() (uint32, error) {
	if err := fr.reserve(bits.Uint32Window); err != nil {
		return 0, err
	}
	window, err := fr.fill(bits.Uint32Window)
	if err != nil {
		return 0, err
	}
	return bits.ExtractUint32(window), nil
}

func (fr *frameReader) readString(length int) (string, error) {
	if err := fr.reserve(uint64(length) * bits.ByteWindow); err != nil {
		return "", err
	}
	decoded := make([]byte, length)
	for i := range decoded {
		b, err := fr.readByte()
		if err != nil {
			return "", err
		}
		decoded[i] = b
	}
	return string(decoded), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
