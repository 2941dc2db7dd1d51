package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/mcncl/compacto/internal/batch"
	"github.com/mcncl/compacto/internal/config"
	"github.com/mcncl/compacto/internal/errors"
	"github.com/mcncl/compacto/internal/fileio"
	"github.com/mcncl/compacto/internal/formatter"
	"github.com/mcncl/compacto/internal/pipeline"
	"github.com/mcncl/compacto/internal/report"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
var CLI struct {
	Config string `help:"Path to a config file (.yml, .yaml or .toml). Searched upward from the working directory when omitted." short:"c" type:"path"`
	Debug  bool   `help:"Enable debug logging." short:"d"`

	Compress   CompressCmd   `cmd:"" help:"Replace repeated JSON values with references."`
	Decompress DecompressCmd `cmd:"" help:"Rebuild a JSON document from its compressed form."`
	Batch      BatchCmd      `cmd:"" help:"Compress or decompress many files concurrently."`
	Version    VersionCmd    `cmd:"" help:"Show version information."`
}

// Context holds the runtime context shared by every command
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OutputFlags are shared by every command that writes documents
type OutputFlags struct {
	Pretty bool   `help:"Indent the output." short:"p"`
	Indent string `help:"Indent used with --pretty."`
	Zstd   bool   `help:"Wrap the output in a zstd frame." short:"z"`
	Quiet  bool   `help:"Do not print the size report." short:"q"`
}

func (f OutputFlags) apply(ctx *Context, jobs int) *config.Config {
	return config.MergeFlags(ctx.Config, config.Flags{
		Pretty: f.Pretty,
		Indent: f.Indent,
		Zstd:   f.Zstd,
		Quiet:  f.Quiet,
		Debug:  ctx.Debug,
		Jobs:   jobs,
	})
}

// TransformArgs reads one document and writes one result
type TransformArgs struct {
	Input  string `arg:"" optional:"" default:"-" help:"Input JSON file, or - for stdin."`
	Output string `arg:"" optional:"" help:"Output file. Writes to stdout when omitted."`
	OutputFlags `embed:""`
}

// CompressCmd compresses a single document
type CompressCmd struct {
	TransformArgs `embed:""`
}

// DecompressCmd decompresses a single document
type DecompressCmd struct {
	TransformArgs `embed:""`
}

// Run executes the compress command
func (c *CompressCmd) Run(ctx *Context) error {
	return c.run(ctx, pipeline.ModeCompress)
}

// Run executes the decompress command
func (c *DecompressCmd) Run(ctx *Context) error {
	return c.run(ctx, pipeline.ModeDecompress)
}

func (c *TransformArgs) run(ctx *Context, mode pipeline.Mode) error {
	cfg := c.apply(ctx, 0)

	ctx.Logger.Debug("starting", "mode", mode, "input", c.Input, "output", c.Output, "zstd", cfg.Output.Zstd)
	sizes, err := pipeline.Run(c.Input, c.Output, pipeline.Options{
		Mode:      mode,
		Formatter: newFormatter(cfg),
		Zstd:      cfg.Output.Zstd,
		Stdin:     ctx.Stdin,
		Stdout:    ctx.Stdout,
	})
	if err != nil {
		return err
	}
	ctx.Logger.Debug("done", "in", sizes.InputBytes, "out", sizes.OutputBytes)

	if !cfg.Report.Enabled {
		return nil
	}
	// Keep stdout clean when it carries the document itself.
	w := ctx.Stdout
	if fileio.IsStdio(c.Output) {
		w = ctx.Stderr
	}
	if err := report.Write(w, sizes); err != nil {
		return errors.NewOutputError("failed to write size report", err)
	}
	return nil
}

// BatchCmd transforms many files into a directory
type BatchCmd struct {
	Mode   string   `help:"Direction of the transform." enum:"compress,decompress" default:"compress" short:"m"`
	OutDir string   `help:"Directory that receives the results." required:"" short:"o" type:"path"`
	Jobs   int      `help:"Number of files processed at once. Uses the config value when omitted." short:"j"`
	Suffix string   `help:"File name suffix of the results. Uses the config value when omitted."`
	Inputs []string `arg:"" help:"Input files."`
	OutputFlags `embed:""`
}

// Run executes the batch command
func (b *BatchCmd) Run(ctx *Context) error {
	cfg := b.apply(ctx, b.Jobs)
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError(err.Error(), nil)
	}

	mode, err := pipeline.ParseMode(b.Mode)
	if err != nil {
		return errors.NewConfigError(err.Error(), nil)
	}
	suffix := cfg.Batch.Suffix
	if b.Suffix != "" {
		suffix = b.Suffix
	}

	results, err := batch.Run(context.Background(), b.Inputs, batch.Options{
		Pipeline: pipeline.Options{
			Mode:      mode,
			Formatter: newFormatter(cfg),
			Zstd:      cfg.Output.Zstd,
		},
		OutDir: b.OutDir,
		Suffix: suffix,
		Jobs:   cfg.Batch.Jobs,
		Logger: ctx.Logger,
	})
	if err != nil {
		return err
	}

	if !cfg.Report.Enabled {
		return nil
	}
	if err := report.Write(ctx.Stdout, append(results, report.Summary(results))...); err != nil {
		return errors.NewOutputError("failed to write size report", err)
	}
	return nil
}

// VersionCmd prints the version
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "compacto version %s\n", Version)
	return err
}

func newFormatter(cfg *config.Config) *formatter.Formatter {
	if cfg.Output.Pretty {
		return formatter.NewPrettyFormatter(cfg.Output.Indent)
	}
	return formatter.NewFormatter()
}

// newLogger creates a logger writing to w at the given level
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newContext loads configuration and builds the logger
func newContext(configPath string, debug bool, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", path), err)
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("invalid log level '%s'", cfg.Log.Level), err)
	}
	logger := newLogger(stderr, level)
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}

	return &Context{
		Debug:  debug,
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// stdinReader returns os.Stdin when data is piped in, and nil when stdin is
// an interactive terminal so that reading it fails instead of blocking.
func stdinReader() io.Reader {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return os.Stdin
}

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("compacto"),
		kong.Description("Shrink JSON documents by replacing repeated values with references"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, err := newContext(CLI.Config, CLI.Debug, stdinReader(), os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: compacto --help\n")
		os.Exit(1)
	}
}
