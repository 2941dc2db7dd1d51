package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/compacto/internal/compressor"
	"github.com/mcncl/compacto/internal/decompressor"
)

func TestIntegration_CompressFormatDecompress(t *testing.T) {
	// Parser -> Compressor -> Formatter -> Decompressor
	jsonInput := `{
		"user_id": 123,
		"username": "johndoe",
		"is_active": true,
		"profile": {
			"full_name": "John Doe",
			"username": "johndoe"
		}
	}`

	compressed, err := compressor.CompressJSON(jsonInput)
	require.NoError(t, err)

	pretty, err := NewPrettyFormatter("    ").FormatString(compressed)
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n    ")

	restored, err := decompressor.DecompressJSON(pretty)
	require.NoError(t, err)

	expected, err := NewFormatter().FormatString(`{"is_active":true,"profile":{"full_name":"John Doe","username":"johndoe"},"user_id":123,"username":"johndoe"}`)
	require.NoError(t, err)
	assert.Equal(t, expected, restored)
}
