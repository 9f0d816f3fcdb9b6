package bitmap

import (
	"bmpsteg/pkg/config"
	"bmpsteg/pkg/model"
	"bytes"
	"context"
	"testing"
)

type testPayload struct {
	Extension string
	Content   []byte
}

func testConfig(signature string) config.StegoConfig {
	conf := config.StegoConfig{Signature: signature}
	conf.PopulateUnsetConfigVars()
	return conf
}

func toInputFile(p testPayload) model.InputFile {
	return model.InputFile{
		Name:      "secret" + p.Extension,
		Extension: p.Extension,
		Content:   bytes.NewReader(p.Content),
		Size:      int64(len(p.Content)),
	}
}

func toCarrier(carrier []byte, sizeKnown bool) model.Carrier {
	c := model.Carrier{Content: bytes.NewReader(carrier)}
	if sizeKnown {
		c.Size = int64(len(carrier))
	}
	return c
}

func encodeToBytes(t testing.TB, carrier []byte, payload testPayload, signature string) []byte {
	t.Helper()
	encoder, err := NewEncoder(testConfig(signature))
	if err != nil {
		t.Fatalf("Error creating encoder: %s", err)
	}

	stego := bytes.NewBuffer(make([]byte, 0, len(carrier)))
	if err = encoder.Encode(context.Background(), toCarrier(carrier, true), toInputFile(payload), stego); err != nil {
		t.Fatalf("Error encoding payload: %s", err)
	}
	return stego.Bytes()
}

func decodeFromBytes(t testing.TB, stego []byte, signature string) model.OutputFile {
	t.Helper()
	decoder, err := NewDecoder(toCarrier(stego, true), testConfig(signature))
	if err != nil {
		t.Fatalf("Error creating decoder: %s", err)
	}

	decoded, err := decoder.DecodeFile(context.Background())
	if err != nil {
		t.Fatalf("Error decoding payload: %s", err)
	}
	return decoded
}

// bytesThatFitInCarrier is the largest payload a carrier can hold for the given signature and extension, or -1 if
// not even an empty payload fits
func bytesThatFitInCarrier(width, height uint32, signature, extension string) int {
	spare := int64(ImageCapacity(width, height)) - HeaderBits - int64(RequiredBits(len(signature), len(extension), 0))
	if spare < 0 {
		return -1
	}
	return int(spare / 8)
}
