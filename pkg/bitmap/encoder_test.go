package bitmap

import (
	"bmpsteg/internal/bits"
	"bmpsteg/pkg/model"
	"bmpsteg/test"
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"
)

func TestEncodeOnlyTouchesLSBs(t *testing.T) {
	carrier := test.GenerateCarrier(64, 48)
	payload := testPayload{Extension: ".bin", Content: test.GenerateRandomBytes(500)}
	stego := encodeToBytes(t, carrier, payload, "#*")

	if len(stego) != len(carrier) {
		t.Fatalf("Stego length %d differs from carrier length %d", len(stego), len(carrier))
	}
	if !bytes.Equal(stego[:HeaderSize], carrier[:HeaderSize]) {
		t.Errorf("Header was modified")
	}

	frameEnd := HeaderSize + int(RequiredBits(2, len(payload.Extension), uint64(len(payload.Content))))
	for i := range carrier {
		if stego[i]&0xFE != carrier[i]&0xFE {
			t.Fatalf("Byte %d changed more than its LSB: %08b -> %08b", i, carrier[i], stego[i])
		}
		if i >= frameEnd && stego[i] != carrier[i] {
			t.Fatalf("Byte %d past the end of the frame was modified", i)
		}
	}
}

func TestEncodeFrameLayout(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := encodeToBytes(t, carrier, testPayload{Extension: ".txt", Content: []byte("hello")}, "EMBED")

	offset := HeaderSize
	readByte := func() byte {
		b := bits.ExtractByte(stego[offset:])
		offset += bits.ByteWindow
		return b
	}
	readUint32 := func() uint32 {
		v := bits.ExtractUint32(stego[offset:])
		offset += bits.Uint32Window
		return v
	}
	readString := func(n int) string {
		s := make([]byte, n)
		for i := range s {
			s[i] = readByte()
		}
		return string(s)
	}

	if signature := readString(5); signature != "EMBED" {
		t.Errorf("Expected signature EMBED, got %q", signature)
	}
	if extLength := readUint32(); extLength != 4 {
		t.Errorf("Expected extension length 4, got %d", extLength)
	}
	if extension := readString(4); extension != ".txt" {
		t.Errorf("Expected extension .txt, got %q", extension)
	}
	if payloadLength := readUint32(); payloadLength != 5 {
		t.Errorf("Expected payload length 5, got %d", payloadLength)
	}
	if payload := readString(5); payload != "hello" {
		t.Errorf("Expected payload hello, got %q", payload)
	}
}

func TestEncodeInsufficientCapacity(t *testing.T) {
	// 10x13 pixels hold 390 bits
	carrier := test.GenerateRawCarrier(10, 13, 390)
	encoder, err := NewEncoder(testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	stego := bytes.NewBuffer(nil)
	err = encoder.Encode(context.Background(), toCarrier(carrier, true),
		toInputFile(testPayload{Extension: ".txt", Content: test.GenerateRandomBytes(1000)}), stego)
	if !errors.Is(err, ErrInsufficientCapacity) {
		t.Fatalf("Expected ErrInsufficientCapacity, got %v", err)
	}
	if stego.Len() != 0 {
		t.Errorf("%d bytes were written after the capacity check failed", stego.Len())
	}
	if encoder.Stage() != EncodeFailed {
		t.Errorf("Expected stage %s, got %s", EncodeFailed, encoder.Stage())
	}
	if encoder.Stats().BytesWritten != 0 {
		t.Errorf("Expected no bytes written in stats, got %d", encoder.Stats().BytesWritten)
	}
}

func TestEncodeTruncatedCarrier(t *testing.T) {
	// header claims 100x100 but only 100 pixel bytes follow
	carrier := test.GenerateRawCarrier(100, 100, 100)
	payload := testPayload{Extension: ".txt", Content: test.GenerateRandomBytes(200)}

	for _, sizeKnown := range []bool{false, true} {
		encoder, err := NewEncoder(testConfig("#*"))
		if err != nil {
			t.Fatalf("Error creating encoder: %s", err)
		}
		stego := bytes.NewBuffer(nil)
		err = encoder.Encode(context.Background(), toCarrier(carrier, sizeKnown), toInputFile(payload), stego)
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("Expected ErrTruncated with known size %t, got %v", sizeKnown, err)
		}
		if sizeKnown && stego.Len() != 0 {
			t.Errorf("Nothing should be written when the carrier size is known to be too small")
		}
	}
}

func TestEncodeRejectsInvalidInput(t *testing.T) {
	carrier := test.GenerateCarrier(50, 50)
	encoder, err := NewEncoder(testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	err = encoder.Encode(context.Background(), toCarrier(carrier, true),
		toInputFile(testPayload{Extension: ".extension", Content: []byte("a")}), io.Discard)
	if !errors.Is(err, ErrExtensionTooLong) {
		t.Errorf("Expected ErrExtensionTooLong, got %v", err)
	}

	err = encoder.Encode(context.Background(), toCarrier(carrier, true),
		toInputFile(testPayload{Extension: "/../../x", Content: []byte("a")}), io.Discard)
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("Expected ErrInvalidExtension, got %v", err)
	}

	tooLarge := model.InputFile{Extension: ".txt", Content: bytes.NewReader(nil), Size: math.MaxUint32 + 1}
	err = encoder.Encode(context.Background(), toCarrier(carrier, true), tooLarge, io.Discard)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestNewEncoderSignatureTooLong(t *testing.T) {
	_, err := NewEncoder(testConfig("SIGNATURE_TOO_LONG"))
	if !errors.Is(err, ErrSignatureTooLong) {
		t.Errorf("Expected ErrSignatureTooLong, got %v", err)
	}
}

func TestEncodeShortPayload(t *testing.T) {
	carrier := test.GenerateCarrier(50, 50)
	encoder, err := NewEncoder(testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	payload := model.InputFile{Extension: ".txt", Content: bytes.NewReader([]byte("abc")), Size: 10}
	err = encoder.Encode(context.Background(), toCarrier(carrier, true), payload, io.Discard)
	var ioErr *IOError
	if !errors.As(err, &ioErr) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected an IOError wrapping io.ErrUnexpectedEOF, got %v", err)
	}
	if encoder.Stage() != EncodeFailed {
		t.Errorf("Expected stage %s, got %s", EncodeFailed, encoder.Stage())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeOutputFailure(t *testing.T) {
	carrier := test.GenerateCarrier(200, 200)
	encoder, err := NewEncoder(testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	err = encoder.Encode(context.Background(), toCarrier(carrier, true),
		toInputFile(testPayload{Extension: ".txt", Content: test.GenerateRandomBytes(5000)}), failingWriter{})
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Expected an IOError, got %v", err)
	}
}

func TestEncodeCancelled(t *testing.T) {
	carrier := test.GenerateCarrier(50, 50)
	encoder, err := NewEncoder(testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = encoder.Encode(ctx, toCarrier(carrier, true), toInputFile(testPayload{Extension: ".txt", Content: []byte("a")}), io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestEncoderReuse(t *testing.T) {
	encoder, err := NewEncoder(testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	for i := 0; i < 3; i++ {
		carrier := test.GenerateCarrier(30, 30)
		payload := testPayload{Extension: ".txt", Content: test.GenerateRandomBytes(i * 10)}
		stego := bytes.NewBuffer(nil)
		if err = encoder.Encode(context.Background(), toCarrier(carrier, false), toInputFile(payload), stego); err != nil {
			t.Fatalf("Error on encode %d: %s", i, err)
		}
		if encoder.Stage() != EncodeDone {
			t.Errorf("Expected stage %s, got %s", EncodeDone, encoder.Stage())
		}
		if stats := encoder.Stats(); stats.BytesWritten != int64(len(carrier)) {
			t.Errorf("Stats report %d bytes written, expected %d", stats.BytesWritten, len(carrier))
		}
	}
}
