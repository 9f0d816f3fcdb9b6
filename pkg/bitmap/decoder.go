package bitmap

import (
	"bmpsteg/internal/bits"
	"bmpsteg/pkg/config"
	"bmpsteg/pkg/model"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// Decoder recovers a payload hidden by an Encoder configured with the same signature. The frame is read in two
// steps, ReadHeader verifies the signature and reads the extension and payload length, WritePayload then streams the
// payload out. Nothing is written before the signature has been verified. A Decoder must not be used concurrently.
type Decoder struct {
	config config.StegoConfig
	reader frameReader
	header FrameHeader
	stage  DecodeStage
	stats  model.DecodeStats

	carrierSize int64
}

func NewDecoder(stego model.Carrier, conf config.StegoConfig) (*Decoder, error) {
	conf.PopulateUnsetConfigVars()
	if err := validateSignature(conf); err != nil {
		return nil, err
	}

	return &Decoder{
		config:      conf,
		reader:      frameReader{stego: bufio.NewReader(stego.Content)},
		carrierSize: stego.Size,
	}, nil
}

func (d *Decoder) Stats() model.DecodeStats {
	return d.stats
}

func (d *Decoder) Stage() DecodeStage {
	return d.stage
}

// Decode reads the frame header and writes the payload to output
func (d *Decoder) Decode(ctx context.Context, output io.Writer) (FrameHeader, error) {
	header, err := d.ReadHeader(ctx)
	if err != nil {
		return FrameHeader{}, err
	}
	return header, d.WritePayload(ctx, output)
}

// DecodeFile decodes the whole payload into memory
func (d *Decoder) DecodeFile(ctx context.Context) (model.OutputFile, error) {
	header, err := d.ReadHeader(ctx)
	if err != nil {
		return model.OutputFile{}, err
	}

	// a crafted length larger than the carrier is rejected by WritePayload, it must not size the buffer
	content := bytes.NewBuffer(make([]byte, 0, min(uint64(header.PayloadLength), d.reader.remaining/bits.ByteWindow)))
	if err = d.WritePayload(ctx, content); err != nil {
		return model.OutputFile{}, err
	}
	return model.OutputFile{Extension: header.Extension, Content: content.Bytes()}, nil
}

// ReadHeader skips the BMP header, verifies the signature and reads every frame field up to the payload. Calling it
// again after it succeeded returns the same header.
func (d *Decoder) ReadHeader(ctx context.Context) (FrameHeader, error) {
	switch {
	case d.stage == DecodeFailed:
		return FrameHeader{}, ErrPipelineAborted
	case d.stage >= PayloadLenRead:
		return d.header, nil
	}

	decodeStart := time.Now()
	defer func() {
		d.stats.FrameDecoding += time.Since(decodeStart)
	}()

	err := d.readHeader(ctx)
	d.stats.BytesRead = HeaderSize + int64(d.reader.consumed)
	if err != nil {
		d.stage = DecodeFailed
		return FrameHeader{}, err
	}
	return d.header, nil
}

func (d *Decoder) readHeader(ctx context.Context) error {
	fr := &d.reader
	fr.field = fieldHeader

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(fr.stego, header); err != nil {
		return carrierReadError(err, fieldHeader)
	}
	width, height, err := ReadDimensions(header)
	if err != nil {
		return err
	}

	fr.remaining = ImageCapacity(width, height)
	if d.carrierSize > 0 {
		var afterHeader uint64
		if d.carrierSize > HeaderSize {
			afterHeader = uint64(d.carrierSize - HeaderSize)
		}
		fr.remaining = min(fr.remaining, afterHeader)
	}
	d.stage = HeaderSkipped

	var extLength uint32
	steps := []func() error{
		d.verifySignature,
		func() error {
			fr.field = fieldExtLen
			if extLength, err = fr.readUint32(); err != nil {
				return err
			}
			if uint64(extLength) > uint64(d.config.MaxExtensionLength) {
				return fmt.Errorf("%w: frame claims %d bytes, at most %d allowed", ErrExtensionTooLong, extLength, d.config.MaxExtensionLength)
			}
			d.stage = ExtLenRead
			return nil
		},
		func() error {
			fr.field = fieldExtension
			extension, err := fr.readString(int(extLength))
			if err != nil {
				return err
			}
			if err = ValidateExtension(extension); err != nil {
				return err
			}
			d.header.Extension = extension
			d.stage = ExtensionRead
			return nil
		},
		func() error {
			fr.field = fieldPayloadLen
			payloadLength, err := fr.readUint32()
			if err != nil {
				return err
			}
			d.header.PayloadLength = payloadLength
			d.stage = PayloadLenRead
			return nil
		},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) verifySignature() error {
	fr := &d.reader
	fr.field = fieldSignature
	signature, err := fr.readString(len(d.config.Signature))
	if err != nil {
		return err
	}
	if signature != d.config.Signature {
		return &SignatureError{Expected: d.config.Signature, Decoded: signature}
	}
	d.stage = SignatureVerified
	return nil
}

// WritePayload streams the payload to output. The frame header is read first if ReadHeader was not called.
func (d *Decoder) WritePayload(ctx context.Context, output io.Writer) error {
	if _, err := d.ReadHeader(ctx); err != nil {
		return err
	}
	if d.stage != PayloadLenRead {
		return ErrPayloadAlreadyRead
	}

	decodeStart := time.Now()
	defer func() {
		d.stats.FrameDecoding += time.Since(decodeStart)
	}()

	err := d.writePayload(ctx, output)
	d.stats.BytesRead = HeaderSize + int64(d.reader.consumed)
	if err != nil {
		d.stage = DecodeFailed
		return err
	}
	d.stage = DecodeDone
	return nil
}

func (d *Decoder) writePayload(ctx context.Context, output io.Writer) error {
	fr := &d.reader
	fr.field = fieldPayload
	payloadLength := int64(d.header.PayloadLength)
	if err := fr.reserve(uint64(payloadLength) * bits.ByteWindow); err != nil {
		return err
	}

	out := bufio.NewWriter(output)
	for i := int64(0); i < payloadLength; i++ {
		if i%cancelCheckInterval == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		b, err := fr.readByte()
		if err != nil {
			return err
		}
		if err = out.WriteByte(b); err != nil {
			return &IOError{Op: "write payload", Err: err}
		}
		d.stats.PayloadBytes++
	}
	d.stage = PayloadRead

	if err := out.Flush(); err != nil {
		return &IOError{Op: "flush payload", Err: err}
	}
	return nil
}
