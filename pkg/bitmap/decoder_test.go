package bitmap

import (
	"bmpsteg/internal/bits"
	"bmpsteg/test"
	"bytes"
	"context"
	"errors"
	"testing"
)

// craftFrame writes frame fields by hand into a carrier, lengths are not required to match the data that follows
func craftFrame(carrier []byte, signature string, extLength uint32, extension string, payloadLength uint32) []byte {
	stego := append([]byte(nil), carrier...)
	offset := HeaderSize
	for i := 0; i < len(signature); i++ {
		bits.EmbedByte(stego[offset:], signature[i])
		offset += bits.ByteWindow
	}
	bits.EmbedUint32(stego[offset:], extLength)
	offset += bits.Uint32Window
	for i := 0; i < len(extension); i++ {
		bits.EmbedByte(stego[offset:], extension[i])
		offset += bits.ByteWindow
	}
	bits.EmbedUint32(stego[offset:], payloadLength)
	return stego
}

func TestDecodeSignatureMismatch(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := encodeToBytes(t, carrier, testPayload{Extension: ".txt", Content: []byte("hello")}, "EMBED")

	decoder, err := NewDecoder(toCarrier(stego, true), testConfig("OTHER"))
	if err != nil {
		t.Fatalf("Error creating decoder: %s", err)
	}

	output := bytes.NewBuffer(nil)
	_, err = decoder.Decode(context.Background(), output)
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Expected ErrSignatureMismatch, got %v", err)
	}
	var signatureErr *SignatureError
	if !errors.As(err, &signatureErr) || signatureErr.Decoded != "EMBED" || signatureErr.Expected != "OTHER" {
		t.Errorf("Unexpected signature error %v", err)
	}
	if output.Len() != 0 {
		t.Errorf("%d payload bytes were written after a signature mismatch", output.Len())
	}
	if decoder.Stage() != DecodeFailed {
		t.Errorf("Expected stage %s, got %s", DecodeFailed, decoder.Stage())
	}

	if err = decoder.WritePayload(context.Background(), output); !errors.Is(err, ErrPipelineAborted) {
		t.Errorf("Expected ErrPipelineAborted after a failure, got %v", err)
	}
}

func TestDecodeSignatureIsComparedExactly(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := encodeToBytes(t, carrier, testPayload{Extension: ".txt", Content: []byte("hello")}, "EMBED")

	for _, signature := range []string{"EMBEX", "embed", "OTHER", "EMBED!"} {
		decoder, err := NewDecoder(toCarrier(stego, true), testConfig(signature))
		if err != nil {
			t.Fatalf("Error creating decoder: %s", err)
		}
		if _, err = decoder.ReadHeader(context.Background()); !errors.Is(err, ErrSignatureMismatch) {
			t.Errorf("Expected ErrSignatureMismatch for %q, got %v", signature, err)
		}
	}
}

func TestDecodeHugePayloadLength(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := craftFrame(carrier, "#*", 4, ".txt", 0xFFFFFFFF)

	decoder, err := NewDecoder(toCarrier(stego, false), testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating decoder: %s", err)
	}

	header, err := decoder.ReadHeader(context.Background())
	if err != nil {
		t.Fatalf("Header should decode, got %s", err)
	}
	if header.PayloadLength != 0xFFFFFFFF || header.Extension != ".txt" {
		t.Errorf("Unexpected header %+v", header)
	}

	output := bytes.NewBuffer(nil)
	if err = decoder.WritePayload(context.Background(), output); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
	if output.Len() != 0 {
		t.Errorf("Payload bytes were written for an impossible payload length")
	}
}

func TestDecodeHugeExtensionLength(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := craftFrame(carrier, "#*", 0xFFFFFFFF, "", 0)

	decoder, err := NewDecoder(toCarrier(stego, true), testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating decoder: %s", err)
	}
	if _, err = decoder.ReadHeader(context.Background()); !errors.Is(err, ErrExtensionTooLong) {
		t.Errorf("Expected ErrExtensionTooLong, got %v", err)
	}
}

func TestDecodeTruncatedStego(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := encodeToBytes(t, carrier, testPayload{Extension: ".txt", Content: test.GenerateRandomBytes(1000)}, "#*")

	cases := map[string]int{
		"header":    HeaderSize - 1,
		"signature": HeaderSize + 8,
		"ext len":   HeaderSize + 16 + 10,
		"payload":   HeaderSize + 16 + 32 + 32 + 32 + 500*8,
	}
	for name, cut := range cases {
		for _, sizeKnown := range []bool{false, true} {
			decoder, err := NewDecoder(toCarrier(stego[:cut], sizeKnown), testConfig("#*"))
			if err != nil {
				t.Fatalf("Error creating decoder: %s", err)
			}
			if _, err = decoder.DecodeFile(context.Background()); !errors.Is(err, ErrTruncated) {
				t.Errorf("Expected ErrTruncated when cut in %s (size known %t), got %v", name, sizeKnown, err)
			}
		}
	}
}

func TestDecodeInTwoSteps(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	content := test.GenerateRandomBytes(2000)
	stego := encodeToBytes(t, carrier, testPayload{Extension: ".png", Content: content}, "#*")

	decoder, err := NewDecoder(toCarrier(stego, true), testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating decoder: %s", err)
	}

	header, err := decoder.ReadHeader(context.Background())
	if err != nil {
		t.Fatalf("Error reading header: %s", err)
	}
	if header.Extension != ".png" || header.PayloadLength != 2000 {
		t.Errorf("Unexpected header %+v", header)
	}
	if decoder.Stage() != PayloadLenRead {
		t.Errorf("Expected stage %s, got %s", PayloadLenRead, decoder.Stage())
	}

	again, err := decoder.ReadHeader(context.Background())
	if err != nil || again != header {
		t.Errorf("Reading the header twice should return the same header, got %+v, %v", again, err)
	}

	output := bytes.NewBuffer(nil)
	if err = decoder.WritePayload(context.Background(), output); err != nil {
		t.Fatalf("Error writing payload: %s", err)
	}
	if !bytes.Equal(output.Bytes(), content) {
		t.Errorf("Decoded payload differs from the encoded one")
	}
	if decoder.Stage() != DecodeDone {
		t.Errorf("Expected stage %s, got %s", DecodeDone, decoder.Stage())
	}

	expectedBytesRead := int64(HeaderSize + RequiredBits(2, 4, 2000))
	if stats := decoder.Stats(); stats.PayloadBytes != 2000 || stats.BytesRead != expectedBytesRead {
		t.Errorf("Unexpected stats %+v, expected %d bytes read", stats, expectedBytesRead)
	}

	if err = decoder.WritePayload(context.Background(), output); !errors.Is(err, ErrPayloadAlreadyRead) {
		t.Errorf("Expected ErrPayloadAlreadyRead, got %v", err)
	}
}

func TestDecodeCancelled(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)
	stego := encodeToBytes(t, carrier, testPayload{Extension: ".txt", Content: []byte("hello")}, "#*")

	decoder, err := NewDecoder(toCarrier(stego, true), testConfig("#*"))
	if err != nil {
		t.Fatalf("Error creating decoder: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = decoder.ReadHeader(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDecodeRejectsExtensionsWithPaths(t *testing.T) {
	carrier := test.GenerateCarrier(100, 100)

	for _, extension := range []string{"/../../x", ".a/b", "..", ".a\\b", "txt"} {
		stego := craftFrame(carrier, "#*", uint32(len(extension)), extension, 0)
		decoder, err := NewDecoder(toCarrier(stego, true), testConfig("#*"))
		if err != nil {
			t.Fatalf("Error creating decoder: %s", err)
		}
		if _, err = decoder.ReadHeader(context.Background()); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("Expected ErrInvalidExtension for %q, got %v", extension, err)
		}
		if decoder.Stage() != DecodeFailed {
			t.Errorf("Expected stage %s for %q, got %s", DecodeFailed, extension, decoder.Stage())
		}
	}
}
