package bitmap

import (
	"bmpsteg/pkg/config"
	"bmpsteg/pkg/model"
	"bufio"
	"context"
	"fmt"
	"io"
	"time"
)

const (
	// payload bytes embedded between two cancellation checks
	cancelCheckInterval = 64 * 1024
)

// Encoder hides a payload in a 24-bit BMP carrier. The carrier is streamed to the output in a single forward pass,
// nothing but the current field window is held in memory. An Encoder must not be used concurrently.
type Encoder struct {
	config config.StegoConfig
	stage  EncodeStage
	stats  model.EncodeStats
}

func NewEncoder(conf config.StegoConfig) (*Encoder, error) {
	conf.PopulateUnsetConfigVars()
	if err := validateSignature(conf); err != nil {
		return nil, err
	}

	return &Encoder{config: conf}, nil
}

func (e *Encoder) Stats() model.EncodeStats {
	return e.stats
}

// Stage is the last stage the pipeline completed. After a failure it is EncodeFailed.
func (e *Encoder) Stage() EncodeStage {
	return e.stage
}

// Encode copies carrier to output, hiding payload in the LSBs of the pixel bytes that follow the header. The
// capacity of the carrier is checked before anything is written, if it is too small nothing reaches output. Other
// failures may leave a partial stego stream in output which must be discarded.
func (e *Encoder) Encode(ctx context.Context, carrier model.Carrier, payload model.InputFile, output io.Writer) error {
	e.stage = EncodeInit
	e.stats = model.EncodeStats{}

	err := e.encode(ctx, carrier, payload, output)
	if err != nil {
		e.stage = EncodeFailed
	}
	return err
}

func (e *Encoder) encode(ctx context.Context, carrier model.Carrier, payload model.InputFile, output io.Writer) error {
	setupStart := time.Now()

	if err := validateExtension(payload.Extension, e.config.MaxExtensionLength); err != nil {
		return err
	}
	if err := validatePayloadSize(payload.Size); err != nil {
		return err
	}

	stego := &countingWriter{w: output}
	fw := &frameWriter{
		carrier: bufio.NewReader(carrier.Content),
		stego:   bufio.NewWriter(stego),
		field:   fieldHeader,
	}
	defer func() {
		e.stats.BytesWritten = stego.n
	}()

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(fw.carrier, header); err != nil {
		return carrierReadError(err, fieldHeader)
	}
	width, height, err := ReadDimensions(header)
	if err != nil {
		return err
	}

	e.stats.CapacityBits = ImageCapacity(width, height)
	e.stats.FrameBits = RequiredBits(len(e.config.Signature), len(payload.Extension), uint64(payload.Size))
	if err = CheckCapacity(e.stats.CapacityBits, len(e.config.Signature), len(payload.Extension), uint64(payload.Size)); err != nil {
		return err
	}
	if carrier.Size > 0 && uint64(carrier.Size) < HeaderSize+e.stats.FrameBits {
		return fmt.Errorf("%w: carrier has %d bytes, frame needs %d after the header", ErrTruncated, carrier.Size, e.stats.FrameBits)
	}

	if err = fw.flushWindow(header); err != nil {
		return err
	}
	e.stage = HeaderCopied
	e.stats.Setup = time.Since(setupStart)

	frameStart := time.Now()
	if err = e.encodeFrame(ctx, fw, payload); err != nil {
		return err
	}
	e.stats.FrameEncoding = time.Since(frameStart)

	trailingStart := time.Now()
	fw.field = fieldTrailing
	if _, err = fw.carrier.WriteTo(fw.stego); err != nil {
		return &IOError{Op: "copy trailing carrier data", Err: err}
	}
	e.stage = TrailingCopied

	if err = fw.stego.Flush(); err != nil {
		return &IOError{Op: "flush stego", Err: err}
	}
	e.stats.TrailingCopy = time.Since(trailingStart)
	e.stage = EncodeDone
	return nil
}

func (e *Encoder) encodeFrame(ctx context.Context, fw *frameWriter, payload model.InputFile) error {
	fields := []struct {
		name  string
		stage EncodeStage
		write func() error
	}{
		{fieldSignature, SignatureWritten, func() error { return fw.writeString(e.config.Signature) }},
		{fieldExtLen, ExtLenWritten, func() error { return fw.writeUint32(uint32(len(payload.Extension))) }},
		{fieldExtension, ExtensionWritten, func() error { return fw.writeString(payload.Extension) }},
		{fieldPayloadLen, PayloadLenWritten, func() error { return fw.writeUint32(uint32(payload.Size)) }},
		{fieldPayload, PayloadWritten, func() error { return e.encodePayload(ctx, fw, payload) }},
	}

	for _, field := range fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		fw.field = field.name
		if err := field.write(); err != nil {
			return err
		}
		e.stage = field.stage
	}
	return nil
}

func (e *Encoder) encodePayload(ctx context.Context, fw *frameWriter, payload model.InputFile) error {
	if payload.Size == 0 {
		return nil
	}

	payloadReader := bufio.NewReader(payload.Content)
	for i := int64(0); i < payload.Size; i++ {
		if i%cancelCheckInterval == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		b, err := payloadReader.ReadByte()
		if err == io.EOF {
			return &IOError{Op: "read payload", Err: fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, i, payload.Size)}
		} else if err != nil {
			return &IOError{Op: "read payload", Err: err}
		}

		if err = fw.writeByte(b); err != nil {
			return err
		}
	}
	return nil
}
