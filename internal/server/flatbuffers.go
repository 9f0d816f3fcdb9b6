package server

import (
	"bmpsteg/api"
	"bmpsteg/api/bmpsteg/Stego"
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

const binaryContentType = "application/octet-stream"

var errShortFlatbuffer = errors.New("flatbuffer is too short to hold a table")

// parseFlatbuffer guards generated accessors, which panic on malformed buffers
func parseFlatbuffer(buf []byte, parse func()) (err error) {
	if len(buf) < 2*flatbuffers.SizeUOffsetT {
		return errShortFlatbuffer
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed flatbuffer: %v", r)
		}
	}()
	parse()
	return nil
}

func decodeFlatEncodeRequest(buf []byte) (api.EncodeBMPRequest, error) {
	var req api.EncodeBMPRequest
	err := parseFlatbuffer(buf, func() {
		fbReq := Stego.GetRootAsEncodeRequest(buf, 0)
		req = api.EncodeBMPRequest{
			Carrier:   fbReq.CarrierBytes(),
			Payload:   fbReq.PayloadBytes(),
			Extension: string(fbReq.Extension()),
			Signature: string(fbReq.Signature()),
		}
	})
	if err == nil && len(req.Carrier) == 0 {
		err = errors.New("carrier is required")
	}
	return req, err
}

func decodeFlatDecodeRequest(buf []byte) (api.DecodeBMPRequest, error) {
	var req api.DecodeBMPRequest
	err := parseFlatbuffer(buf, func() {
		fbReq := Stego.GetRootAsDecodeRequest(buf, 0)
		req = api.DecodeBMPRequest{
			StegoImage: fbReq.StegoImageBytes(),
			Signature:  string(fbReq.Signature()),
		}
	})
	if err == nil && len(req.StegoImage) == 0 {
		err = errors.New("stego image is required")
	}
	return req, err
}

func encodeFlatEncodeResponse(resp api.EncodeBMPResponse) []byte {
	builder := flatbuffers.NewBuilder(len(resp.StegoImage) + 64)
	stegoImage := builder.CreateByteVector(resp.StegoImage)

	Stego.EncodeResponseStart(builder)
	Stego.EncodeResponseAddStegoImage(builder, stegoImage)
	builder.Finish(Stego.EncodeResponseEnd(builder))
	return builder.FinishedBytes()
}

func encodeFlatDecodeResponse(resp api.DecodeBMPResponse) []byte {
	builder := flatbuffers.NewBuilder(len(resp.Payload) + 64)
	payload := builder.CreateByteVector(resp.Payload)
	extension := builder.CreateString(resp.Extension)

	Stego.DecodeResponseStart(builder)
	Stego.DecodeResponseAddPayload(builder, payload)
	Stego.DecodeResponseAddExtension(builder, extension)
	builder.Finish(Stego.DecodeResponseEnd(builder))
	return builder.FinishedBytes()
}
