// Package fileio reads documents from files or stdin and writes results to
// files or stdout. Output may be wrapped in a zstd frame; input wrapped in
// one is detected by its magic number and unwrapped transparently.
package fileio

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/mcncl/compacto/internal/errors"
)

// StdioPath names stdin or stdout on the command line.
const StdioPath = "-"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsStdio reports whether path refers to stdin/stdout rather than a file.
func IsStdio(path string) bool {
	return path == "" || path == StdioPath
}

// ReadInput returns the content of path, or of stdin when path is empty or
// "-". zstd-framed content is decompressed.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if IsStdio(path) {
		if stdin == nil {
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, errors.NewInputError("failed to read from stdin", err)
		}
		if len(data) == 0 {
			return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
		}
	} else {
		if strings.TrimSpace(path) == "" {
			return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
		}
		data, err = os.ReadFile(path)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("could not read file '%s'", path), err)
		}
		if len(data) == 0 {
			return nil, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", path), errors.ErrFileEmpty)
		}
	}

	if IsZstd(data) {
		data, err = Unwrap(data)
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to decompress zstd input '%s'", displayName(path)), err)
		}
	}
	return data, nil
}

// WriteOutput writes data to path, or to stdout when path is empty or "-".
// With wrap set, data is written as a single zstd frame.
func WriteOutput(path string, data []byte, stdout io.Writer, wrap bool) error {
	if wrap {
		var err error
		data, err = Wrap(data)
		if err != nil {
			return errors.NewOutputError("failed to compress output", err)
		}
	}

	if IsStdio(path) {
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := stdout.Write(data); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	return nil
}

// FileSize returns the size of the file at path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.NewInputError(fmt.Sprintf("failed to stat '%s'", path), err)
	}
	return info.Size(), nil
}

// IsZstd reports whether data starts with a zstd frame header.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Wrap compresses data into a zstd frame.
func Wrap(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Unwrap decompresses a zstd frame.
func Unwrap(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func displayName(path string) string {
	if IsStdio(path) {
		return "stdin"
	}
	return path
}
