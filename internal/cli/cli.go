package cli

import (
	"bmpsteg/internal/logging"
	"bmpsteg/pkg/bitmap"
	"bmpsteg/pkg/config"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitOK = iota
	ExitFailure
	ExitInsufficientCapacity
	ExitSignatureMismatch
	ExitTruncated
	ExitIO
	ExitCancelled = 130
)

type rootOpts struct {
	configFile    string
	logLevel      string
	cpuProfile    string
	memProfileDir string

	conf     *config.FileConfig
	logger   *logging.Logger
	profiler *profiler
}

func RootCommand() (*cobra.Command, *rootOpts) {
	opts := &rootOpts{conf: config.Default()}

	rootCmd := &cobra.Command{
		Use:           "bmpsteg",
		Short:         "Hides files inside 24-bit BMP images using LSB steganography",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error. Overrides the configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.cpuProfile, "cpu-profile", "", "Dump CPU profile into the supplied file")
	rootCmd.PersistentFlags().StringVar(&opts.memProfileDir, "mem-profile-dir", "", "Dump memory profiles into the supplied directory")

	rootCmd.AddCommand(BitmapCommands(opts), ServeAppCommand(opts))
	return rootCmd, opts
}

func (o *rootOpts) setup(cmd *cobra.Command) error {
	if o.configFile != "" {
		conf, err := config.LoadFile(o.configFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		o.conf = conf
	}
	if o.logLevel != "" {
		o.conf.LogLevel = o.logLevel
	}
	o.logger = logging.BuildLogger(logging.ParseLevel(o.conf.LogLevel))

	o.profiler = &profiler{logger: o.logger}
	if o.cpuProfile != "" {
		if err := o.profiler.startCPU(o.cpuProfile); err != nil {
			return err
		}
	}
	if o.memProfileDir != "" {
		o.profiler.startMemory(o.memProfileDir)
	}
	return nil
}

func (o *rootOpts) teardown() {
	if o.profiler != nil {
		o.profiler.stop()
	}
}

// Execute runs the command line and returns the status the process should exit with
func Execute(ctx context.Context, args []string) int {
	rootCmd, opts := RootCommand()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	opts.teardown()
	if err != nil {
		if opts.logger != nil {
			opts.logger.WithError(err).Debug("Command failed")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitOK
}

// ExitCode maps the errors of the encode and decode pipelines to process exit statuses
func ExitCode(err error) int {
	var ioErr *bitmap.IOError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, bitmap.ErrInsufficientCapacity):
		return ExitInsufficientCapacity
	case errors.Is(err, bitmap.ErrSignatureMismatch):
		return ExitSignatureMismatch
	case errors.Is(err, bitmap.ErrTruncated):
		return ExitTruncated
	case errors.As(err, &ioErr), errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return ExitIO
	default:
		return ExitFailure
	}
}
