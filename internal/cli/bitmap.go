package cli

import (
	"bmpsteg/internal/logging"
	"bmpsteg/pkg/bitmap"
	"bmpsteg/pkg/config"
	"bmpsteg/pkg/model"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/term"
)

const (
	DefaultStegoImage  = "stegno_image.bmp"
	DefaultDecodedBase = "decoded"
	bmpExtension       = ".bmp"
)

var (
	ErrPaletteCarrier = errors.New("palette-indexed bitmaps cannot be used as carriers")
	ErrNoTerminal     = errors.New("signature prompt requires an interactive terminal")
)

func BitmapCommands(root *rootOpts) *cobra.Command {
	bitmapCmd := &cobra.Command{
		Use:     "bmp",
		Short:   "Performs steganography operations on 24-bit BMP images",
		Example: "bmpsteg bmp encode --carrier beautiful.bmp --secret secret.txt --output stego.bmp",
	}

	bitmapCmd.AddCommand(encodeCommand(root), decodeCommand(root), capacityCommand(root), carrierCommand())
	return bitmapCmd
}

type encodeOpts struct {
	carrier   string
	secret    string
	output    string
	signature string
}

func encodeCommand(root *rootOpts) *cobra.Command {
	opts := encodeOpts{}

	encodeCmd := &cobra.Command{
		Use:     "encode",
		Example: "bmpsteg bmp encode --carrier beautiful.bmp --secret secret.txt --output stego.bmp --signature '#*'",
		Short:   "Hide a file inside a BMP image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return EncodeSecretIntoCarrier(cmd.Context(), opts.carrier, opts.secret, opts.output,
				root.conf.Stego.WithSignature(opts.signature), root.logger)
		},
	}

	encodeCmd.Flags().StringVar(&opts.carrier, "carrier", "", "24-bit BMP image to hide the secret in (original will not be touched)")
	encodeCmd.Flags().StringVar(&opts.secret, "secret", "", "File to hide. Its extension is stored alongside its content")
	encodeCmd.Flags().StringVar(&opts.output, "output", DefaultStegoImage, "Name for the BMP image that will be generated")
	encodeCmd.Flags().StringVar(&opts.signature, "signature", "", "Signature marking the carrier, the decoder must be given the same one")

	MarkFlagsRequired(encodeCmd, "carrier", "secret")
	return encodeCmd
}

func EncodeSecretIntoCarrier(ctx context.Context, carrierPath, secretPath, outputPath string, conf config.StegoConfig,
	logger *logging.Logger) error {

	if err := requireExtension(carrierPath, bmpExtension); err != nil {
		return err
	}
	if err := requireExtension(outputPath, bmpExtension); err != nil {
		return err
	}

	encoder, err := bitmap.NewEncoder(conf)
	if err != nil {
		return err
	}

	carrierFile, carrierSize, err := openCarrier(carrierPath)
	if err != nil {
		return err
	}
	defer carrierFile.Close()

	secretFile, err := os.Open(secretPath)
	if err != nil {
		return err
	}
	defer secretFile.Close()
	secretStat, err := secretFile.Stat()
	if err != nil {
		return err
	}

	s := NewSpinner()
	s.Prefix = "Encoding secret "
	s.Start()
	err = writeAtomically(outputPath, func(w io.Writer) error {
		return encoder.Encode(ctx, model.Carrier{Content: carrierFile, Size: carrierSize}, model.InputFile{
			Name:      secretFile.Name(),
			Extension: filepath.Ext(secretPath),
			Content:   secretFile,
			Size:      secretStat.Size(),
		}, w)
	})
	if err != nil {
		s.Stop()
		return err
	}

	stats := encoder.Stats()
	s.FinalMSG = fmt.Sprintf("Generated %s which has %s hidden inside (%s of %s carrier bits used)\n", outputPath,
		secretPath, humanize.Comma(int64(stats.FrameBits)), humanize.Comma(int64(stats.CapacityBits)))
	s.Stop()

	logger.Debug("Encoding stats", "setup", stats.Setup.String(), "frame_encoding", stats.FrameEncoding.String(),
		"trailing_copy", stats.TrailingCopy.String(), "bytes_written", humanize.Bytes(uint64(stats.BytesWritten)))
	return nil
}

// openCarrier opens a BMP carrier, rejecting files that are not bitmaps, and rewinds it for the encoder
func openCarrier(carrierPath string) (*os.File, int64, error) {
	f, err := os.Open(carrierPath)
	if err != nil {
		return nil, 0, err
	}

	imgConfig, err := bmp.DecodeConfig(f)
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%s is not a supported BMP image: %w", carrierPath, err)
	}
	if _, isPalette := imgConfig.ColorModel.(color.Palette); isPalette {
		f.Close()
		return nil, 0, ErrPaletteCarrier
	}

	// DecodeConfig also accepts 32-bit pixels and V4/V5 info headers, which the encoder would corrupt
	header := make([]byte, bitmap.HeaderSize)
	if _, err = f.Seek(0, io.SeekStart); err == nil {
		_, err = io.ReadFull(f, header)
	}
	if err == nil {
		err = bitmap.CheckHeaderLayout(header)
	}
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%s cannot be used as a carrier: %w", carrierPath, err)
	}

	stat, err := f.Stat()
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, stat.Size(), nil
}

type decodeOpts struct {
	source          string
	output          string
	signature       string
	promptSignature bool
}

func decodeCommand(root *rootOpts) *cobra.Command {
	opts := decodeOpts{}

	decodeCmd := &cobra.Command{
		Use:     "decode",
		Example: "bmpsteg bmp decode --source stego.bmp --output recovered --signature '#*'",
		Short:   "Recover a file hidden inside a BMP image by bmpsteg",
		RunE: func(cmd *cobra.Command, args []string) error {
			signature := opts.signature
			if opts.promptSignature {
				prompted, err := promptSignature(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				signature = prompted
			}

			_, err := DecodeSecretFromStego(cmd.Context(), opts.source, opts.output,
				root.conf.Stego.WithSignature(signature), root.logger)
			return err
		},
	}

	decodeCmd.Flags().StringVar(&opts.source, "source", "", "BMP image generated by bmpsteg")
	decodeCmd.Flags().StringVar(&opts.output, "output", DefaultDecodedBase, "Name for the recovered file, its extension is replaced by the hidden one")
	decodeCmd.Flags().StringVar(&opts.signature, "signature", "", "Signature the image was encoded with")
	decodeCmd.Flags().BoolVar(&opts.promptSignature, "prompt-signature", false, "Read the signature from the terminal without echoing it")
	decodeCmd.MarkFlagsMutuallyExclusive("signature", "prompt-signature")

	MarkFlagsRequired(decodeCmd, "source")
	return decodeCmd
}

// DecodeSecretFromStego recovers the hidden file and returns the path it was written to. The output file is only
// created once the signature has been verified and the hidden extension is known.
func DecodeSecretFromStego(ctx context.Context, stegoPath, outputBase string, conf config.StegoConfig,
	logger *logging.Logger) (string, error) {

	if err := requireExtension(stegoPath, bmpExtension); err != nil {
		return "", err
	}
	if outputBase == "" {
		outputBase = DefaultDecodedBase
	}
	outputBase = strings.TrimSuffix(outputBase, filepath.Ext(outputBase))

	stegoFile, err := os.Open(stegoPath)
	if err != nil {
		return "", err
	}
	defer stegoFile.Close()
	stegoStat, err := stegoFile.Stat()
	if err != nil {
		return "", err
	}

	decoder, err := bitmap.NewDecoder(model.Carrier{Content: stegoFile, Size: stegoStat.Size()}, conf)
	if err != nil {
		return "", err
	}

	s := NewSpinner()
	s.Prefix = "Verifying signature "
	s.Start()
	header, err := decoder.ReadHeader(ctx)
	if err != nil {
		s.Stop()
		return "", err
	}

	// read from the carrier, it must not move the output out of its directory
	if err = bitmap.ValidateExtension(header.Extension); err != nil {
		s.Stop()
		return "", err
	}
	outputPath := outputBase + header.Extension
	s.Lock()
	s.Prefix = "Decoding " + humanize.Bytes(uint64(header.PayloadLength)) + " "
	s.Unlock()
	err = writeAtomically(outputPath, func(w io.Writer) error {
		return decoder.WritePayload(ctx, w)
	})
	if err != nil {
		s.Stop()
		return "", err
	}

	s.FinalMSG = fmt.Sprintf("Decoded %s from %s\n", outputPath, stegoPath)
	s.Stop()

	stats := decoder.Stats()
	logger.Debug("Decoding stats", "frame_decoding", stats.FrameDecoding.String(),
		"payload", humanize.Bytes(uint64(stats.PayloadBytes)), "bytes_read", stats.BytesRead)
	return outputPath, nil
}

func promptSignature(prompt io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprint(prompt, "Enter the signature: ")
	signature, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(signature)), nil
}

func capacityCommand(root *rootOpts) *cobra.Command {
	var carrierPath, extension, signature string

	capacityCmd := &cobra.Command{
		Use:     "capacity",
		Example: "bmpsteg bmp capacity --carrier beautiful.bmp --extension .txt",
		Short:   "Show how much data a BMP image can hide",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := CarrierCapacity(carrierPath, extension, root.conf.Stego.WithSignature(signature))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}

	capacityCmd.Flags().StringVar(&carrierPath, "carrier", "", "24-bit BMP image")
	capacityCmd.Flags().StringVar(&extension, "extension", ".txt", "Extension of the file to hide")
	capacityCmd.Flags().StringVar(&signature, "signature", "", "Signature the image would be encoded with")

	MarkFlagsRequired(capacityCmd, "carrier")
	return capacityCmd
}

type CapacityReport struct {
	Width, Height   uint32
	CapacityBits    uint64
	MaxPayloadBytes uint64
}

func (r CapacityReport) String() string {
	return fmt.Sprintf("%dx%d carrier, %s bits of capacity, can hide up to %s (%s bytes)", r.Width, r.Height,
		humanize.Comma(int64(r.CapacityBits)), humanize.Bytes(r.MaxPayloadBytes), humanize.Comma(int64(r.MaxPayloadBytes)))
}

func CarrierCapacity(carrierPath, extension string, conf config.StegoConfig) (CapacityReport, error) {
	conf.PopulateUnsetConfigVars()

	f, err := os.Open(carrierPath)
	if err != nil {
		return CapacityReport{}, err
	}
	defer f.Close()

	header := make([]byte, bitmap.HeaderSize)
	if _, err = io.ReadFull(f, header); err != nil {
		return CapacityReport{}, fmt.Errorf("%w: %s", bitmap.ErrTruncated, err)
	}
	width, height, err := bitmap.ReadDimensions(header)
	if err != nil {
		return CapacityReport{}, err
	}

	report := CapacityReport{Width: width, Height: height, CapacityBits: bitmap.ImageCapacity(width, height)}
	frameBits := bitmap.RequiredBits(len(conf.Signature), len(extension), 0)
	if report.CapacityBits > bitmap.HeaderBits+frameBits {
		report.MaxPayloadBytes = (report.CapacityBits - bitmap.HeaderBits - frameBits) / 8
	}
	return report, nil
}

func carrierCommand() *cobra.Command {
	var width, height int
	var output string

	carrierCmd := &cobra.Command{
		Use:     "carrier",
		Example: "bmpsteg bmp carrier --width 640 --height 480 --output noise.bmp",
		Short:   "Generate a random noise 24-bit BMP image to use as a carrier",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := GenerateCarrier(output, width, height); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %dx%d carrier %s\n", width, height, output)
			return nil
		},
	}

	carrierCmd.Flags().IntVar(&width, "width", 320, "Width in pixels")
	carrierCmd.Flags().IntVar(&height, "height", 240, "Height in pixels")
	carrierCmd.Flags().StringVar(&output, "output", "carrier.bmp", "Output file path")
	return carrierCmd
}

func GenerateCarrier(output string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid carrier dimensions %dx%d", width, height)
	}
	if err := requireExtension(output, bmpExtension); err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rand.Intn(256)), G: uint8(rand.Intn(256)), B: uint8(rand.Intn(256)), A: 255})
		}
	}

	return writeAtomically(output, func(w io.Writer) error {
		return bmp.Encode(w, img)
	})
}
