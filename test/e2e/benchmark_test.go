package e2e_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(rng *rand.Rand, depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      rng.Intn(100),
			"enabled":    rng.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d", i)
		result[key] = generateNestedJSON(rng, depth-1, width)
	}
	return result
}

func writeBenchmarkInput(b *testing.B, doc interface{}) string {
	b.Helper()
	data, err := json.Marshal(doc)
	require.NoError(b, err)
	path := filepath.Join(b.TempDir(), "input.json")
	require.NoError(b, os.WriteFile(path, data, 0o644))
	return path
}

func buildBinary(b *testing.B) string {
	b.Helper()
	bin := filepath.Join(b.TempDir(), "compacto")
	out, err := exec.Command("go", "build", "-o", bin, "../../main.go").CombinedOutput()
	require.NoError(b, err, "build failed: %s", out)
	return bin
}

// BenchmarkCompress_Nested measures the CLI against nested documents
func BenchmarkCompress_Nested(b *testing.B) {
	bin := buildBinary(b)
	for _, depth := range []int{3, 5} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			input := writeBenchmarkInput(b, generateNestedJSON(rand.New(rand.NewSource(1)), depth, 4))
			output := filepath.Join(b.TempDir(), "output.json")

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				out, err := exec.Command(bin, "compress", input, output, "-q").CombinedOutput()
				require.NoError(b, err, "compress failed: %s", out)
			}
		})
	}
}

// BenchmarkRoundTrip_Records compresses and decompresses a record list
func BenchmarkRoundTrip_Records(b *testing.B) {
	bin := buildBinary(b)
	input := writeBenchmarkInput(b, generateRecords(rand.New(rand.NewSource(7)), 5000))
	dir := b.TempDir()
	packed := filepath.Join(dir, "packed.json")
	restored := filepath.Join(dir, "restored.json")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := exec.Command(bin, "compress", input, packed, "-q").CombinedOutput()
		require.NoError(b, err, "compress failed: %s", out)
		out, err = exec.Command(bin, "decompress", packed, restored, "-q").CombinedOutput()
		require.NoError(b, err, "decompress failed: %s", out)
	}
}
