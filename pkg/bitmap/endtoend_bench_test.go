package bitmap

import (
	"bmpsteg/test"
	"context"
	"fmt"
	"io"
	"testing"
)

const benchImageSize = 1000

func BenchmarkEncode(b *testing.B) {
	carrier := test.GenerateCarrier(benchImageSize, benchImageSize)
	for _, numOfBytesToEncode := range []int{1000, 100000, bytesThatFitInCarrier(benchImageSize, benchImageSize, "#*", ".bin")} {
		content := test.GenerateRandomBytes(numOfBytesToEncode)
		b.Run(fmt.Sprintf("KBs=%f", float64(numOfBytesToEncode)/1000.0), func(b *testing.B) {
			encoder, err := NewEncoder(testConfig("#*"))
			if err != nil {
				b.Fatalf("Error creating encoder for benchmark")
			}
			b.SetBytes(int64(len(carrier)))
			for i := 0; i < b.N; i++ {
				err = encoder.Encode(context.Background(), toCarrier(carrier, true),
					toInputFile(testPayload{Extension: ".bin", Content: content}), io.Discard)
				if err != nil {
					b.Fatalf("Error during encoding: %s", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	carrier := test.GenerateCarrier(benchImageSize, benchImageSize)
	for _, numOfBytesToEncode := range []int{1000, 100000, bytesThatFitInCarrier(benchImageSize, benchImageSize, "#*", ".bin")} {
		stego := encodeToBytes(b, carrier, testPayload{Extension: ".bin", Content: test.GenerateRandomBytes(numOfBytesToEncode)}, "#*")
		b.Run(fmt.Sprintf("KBs=%f", float64(numOfBytesToEncode)/1000.0), func(b *testing.B) {
			b.SetBytes(int64(numOfBytesToEncode))
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				decoder, err := NewDecoder(toCarrier(stego, true), testConfig("#*"))
				if err != nil {
					b.Fatalf("Error creating decoder for benchmark")
				}
				b.StartTimer()
				if _, err = decoder.Decode(context.Background(), io.Discard); err != nil {
					b.Fatalf("Error during decoding: %s", err)
				}
			}
		})
	}
}
