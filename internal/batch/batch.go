// Package batch runs the pipeline over many files concurrently.
//
// Every file is an independent codec call with its own reference table or
// list; nothing is shared between workers except the logger.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcncl/compacto/internal/errors"
	"github.com/mcncl/compacto/internal/pipeline"
	"github.com/mcncl/compacto/internal/report"
)

// Options configures a batch run.
type Options struct {
	Pipeline pipeline.Options
	OutDir   string
	Suffix   string
	Jobs     int
	Logger   *log.Logger
}

// OutputPath returns where input lands inside outDir: its base name with
// the extension replaced by suffix.
func OutputPath(input, outDir, suffix string) string {
	base := filepath.Base(input)
	for _, ext := range []string{".zst", ".json"} {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(outDir, base+suffix)
}

// Run transforms every input into opts.OutDir. It stops at the first
// failure and returns the sizes of every file in input order.
func Run(ctx context.Context, inputs []string, opts Options) ([]report.Sizes, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if len(inputs) == 0 {
		return nil, errors.NewInputError("no input files given", errors.ErrNoInput)
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("failed to create output directory '%s'", opts.OutDir), err)
	}

	outputs, err := planOutputs(inputs, opts.OutDir, opts.Suffix)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]report.Sizes, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sizes, err := pipeline.Run(input, outputs[i], opts.Pipeline)
			if err != nil {
				logger.Error("transform failed", "input", input, "err", err)
				return fmt.Errorf("%s: %w", input, err)
			}
			logger.Debug("transformed", "input", input, "output", outputs[i],
				"in", sizes.InputBytes, "out", sizes.OutputBytes)
			results[i] = sizes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := report.Summary(results)
	logger.Info("batch complete",
		"mode", opts.Pipeline.Mode,
		"files", len(inputs),
		"ratio", fmt.Sprintf("%.1f%%", total.Ratio()*100),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return results, nil
}

// planOutputs maps inputs to output paths, refusing collisions between two
// outputs and outputs that would overwrite an input.
func planOutputs(inputs []string, outDir, suffix string) ([]string, error) {
	seen := make(map[string]string, len(inputs))
	ins := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		ins[absPath(in)] = true
	}

	outputs := make([]string, len(inputs))
	for i, in := range inputs {
		out := OutputPath(in, outDir, suffix)
		key := absPath(out)
		if ins[key] {
			return nil, errors.NewOutputError(fmt.Sprintf("output '%s' would overwrite an input", out), nil)
		}
		if prev, ok := seen[key]; ok {
			return nil, errors.NewOutputError(fmt.Sprintf("inputs '%s' and '%s' both map to '%s'", prev, in, out), nil)
		}
		seen[key] = in
		outputs[i] = out
	}
	return outputs, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
