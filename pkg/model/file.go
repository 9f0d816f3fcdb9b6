package model

import "io"

// InputFile is a payload to hide. Extension is stored in the frame alongside the content, Name is only used for
// reporting.
type InputFile struct {
	Name      string
	Extension string
	Content   io.Reader
	Size      int64
}

type OutputFile struct {
	Extension string `json:"extension"`
	Content   []byte `json:"content"`
}

// Carrier is a BMP byte stream. Size is the total stream length, or 0 when unknown.
type Carrier struct {
	Content io.Reader
	Size    int64
}
