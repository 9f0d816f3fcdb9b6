package server

import (
	"bmpsteg/pkg/model"

	"github.com/dustin/go-humanize"
)

type humanizedEncodeStats struct {
	model.EncodeStats
	SetupHuman         string `json:"setup_human"`
	FrameEncodingHuman string `json:"frame_encoding_human"`
	TrailingCopyHuman  string `json:"trailing_copy_human"`
	BytesWrittenHuman  string `json:"bytes_written_human"`
}

type humanizedDecodeStats struct {
	model.DecodeStats
	FrameDecodingHuman string `json:"frame_decoding_human"`
	PayloadBytesHuman  string `json:"payload_bytes_human"`
}

func toHumanizedEncodeStats(encodeStats model.EncodeStats) humanizedEncodeStats {
	return humanizedEncodeStats{
		EncodeStats:        encodeStats,
		SetupHuman:         encodeStats.Setup.String(),
		FrameEncodingHuman: encodeStats.FrameEncoding.String(),
		TrailingCopyHuman:  encodeStats.TrailingCopy.String(),
		BytesWrittenHuman:  humanize.Bytes(uint64(encodeStats.BytesWritten)),
	}
}

func toHumanizedDecodeStats(decodeStats model.DecodeStats) humanizedDecodeStats {
	return humanizedDecodeStats{
		DecodeStats:        decodeStats,
		FrameDecodingHuman: decodeStats.FrameDecoding.String(),
		PayloadBytesHuman:  humanize.Bytes(uint64(decodeStats.PayloadBytes)),
	}
}
