package model

import (
	"time"
)

type EncodeStats struct {
	Setup         time.Duration `json:"setup"`
	FrameEncoding time.Duration `json:"frame_encoding"`
	TrailingCopy  time.Duration `json:"trailing_copy"`
	FrameBits     uint64        `json:"frame_bits"`
	CapacityBits  uint64        `json:"capacity_bits"`
	BytesWritten  int64         `json:"bytes_written"`
}

type DecodeStats struct {
	FrameDecoding time.Duration `json:"frame_decoding"`
	PayloadBytes  int64         `json:"payload_bytes"`
	BytesRead     int64         `json:"bytes_read"`
}
