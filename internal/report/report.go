// Package report formats the before/after byte sizes of a transform.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// Sizes records the input and output of one transform.
type Sizes struct {
	Input       string
	InputBytes  int64
	Output      string
	OutputBytes int64
}

// Ratio is the output size as a fraction of the input size.
func (s Sizes) Ratio() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.OutputBytes) / float64(s.InputBytes)
}

// String renders two lines, one per file, followed by the size ratio:
//
//	input.json, Size: 1.2 kB
//	output.json, Size: 640 B (53.3%)
func (s Sizes) String() string {
	return fmt.Sprintf("%s, Size: %s\n%s, Size: %s (%.1f%%)",
		s.Input, humanize.Bytes(uint64(s.InputBytes)),
		s.Output, humanize.Bytes(uint64(s.OutputBytes)),
		s.Ratio()*100,
	)
}

// Summary totals a batch of transforms.
func Summary(all []Sizes) Sizes {
	total := Sizes{Input: fmt.Sprintf("%d inputs", len(all)), Output: fmt.Sprintf("%d outputs", len(all))}
	for _, s := range all {
		total.InputBytes += s.InputBytes
		total.OutputBytes += s.OutputBytes
	}
	return total
}

// Write prints every entry followed by a blank line between entries.
func Write(w io.Writer, all ...Sizes) error {
	parts := make([]string, len(all))
	for i, s := range all {
		parts[i] = s.String()
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "\n\n"))
	return err
}
