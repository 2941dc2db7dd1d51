// Package pipeline ties one input to one output: read, transform with the
// codec, format, write, and measure.
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/compacto/internal/compressor"
	"github.com/mcncl/compacto/internal/decompressor"
	"github.com/mcncl/compacto/internal/fileio"
	"github.com/mcncl/compacto/internal/formatter"
	"github.com/mcncl/compacto/internal/models"
	"github.com/mcncl/compacto/internal/parser"
	"github.com/mcncl/compacto/internal/report"
)

// Mode selects the direction of the transform.
type Mode string

const (
	ModeCompress   Mode = "compress"
	ModeDecompress Mode = "decompress"
)

// ParseMode accepts "compress" or "decompress" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCompress:
		return ModeCompress, nil
	case ModeDecompress:
		return ModeDecompress, nil
	}
	return "", fmt.Errorf("unknown mode '%s': want compress or decompress", s)
}

// Options configures a Run.
type Options struct {
	Mode      Mode
	Formatter *formatter.Formatter
	Zstd      bool
	Stdin     io.Reader
	Stdout    io.Writer
}

// Transform parses data as JSON and applies mode to it, returning compact
// JSON text. Every call uses its own reference table or list.
func Transform(mode Mode, data []byte) ([]byte, error) {
	doc, err := parser.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	var out models.Value
	switch mode {
	case ModeCompress:
		out, err = compressor.Compress(doc)
	case ModeDecompress:
		out, err = decompressor.Decompress(doc)
	default:
		return nil, fmt.Errorf("unknown mode '%s'", mode)
	}
	if err != nil {
		return nil, err
	}
	return parser.Marshal(out)
}

// Run transforms input into output and reports both sizes. Empty or "-"
// paths mean stdin and stdout.
func Run(input, output string, opts Options) (report.Sizes, error) {
	data, err := fileio.ReadInput(input, opts.Stdin)
	if err != nil {
		return report.Sizes{}, err
	}

	result, err := Transform(opts.Mode, data)
	if err != nil {
		return report.Sizes{}, err
	}

	f := opts.Formatter
	if f == nil {
		f = formatter.NewFormatter()
	}
	if f.Pretty() {
		result, err = f.Format(result)
		if err != nil {
			return report.Sizes{}, err
		}
	}

	if err := fileio.WriteOutput(output, result, opts.Stdout, opts.Zstd); err != nil {
		return report.Sizes{}, err
	}

	sizes := report.Sizes{
		Input:       displayName(input, "stdin"),
		InputBytes:  int64(len(data)),
		Output:      displayName(output, "stdout"),
		OutputBytes: int64(len(result)),
	}
	if !fileio.IsStdio(input) {
		if n, err := fileio.FileSize(input); err == nil {
			sizes.InputBytes = n
		}
	}
	if !fileio.IsStdio(output) {
		if n, err := fileio.FileSize(output); err == nil {
			sizes.OutputBytes = n
		}
	}
	return sizes, nil
}

func displayName(path, stdio string) string {
	if fileio.IsStdio(path) {
		return stdio
	}
	return path
}
