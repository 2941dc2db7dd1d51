package compressor

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/compacto/internal/errors"
	"github.com/mcncl/compacto/internal/models"
	"github.com/mcncl/compacto/internal/parser"
)

const usersSample = `{
	"users": [
		{"user": {"id": 1, "name": "eduardo", "age": null}},
		{"user": {"id": 2, "name": "jose", "age": 90}}
	],
	"page": 1
}`

func TestCompressJSON_NestedDocument(t *testing.T) {
	got, err := CompressJSON(usersSample)
	require.NoError(t, err)

	want := `[{"0":1,"2":[{"3":{"4":5,"6":1,"7":8}},{"3":{"4":9,"6":10,"7":11}}]},["page",1,"users","user","age",null,"id","name","eduardo",90,2,"jose"]]`
	assert.Equal(t, want, got)
}

func TestCompressJSON_GoldenSamples(t *testing.T) {
	goldens, err := filepath.Glob(filepath.Join("..", "..", "testdata", "samples", "*.compressed.json"))
	require.NoError(t, err)
	require.NotEmpty(t, goldens)

	for _, golden := range goldens {
		input := strings.TrimSuffix(golden, ".compressed.json") + ".json"
		t.Run(filepath.Base(input), func(t *testing.T) {
			in, err := os.ReadFile(input)
			require.NoError(t, err)
			want, err := os.ReadFile(golden)
			require.NoError(t, err)

			got, err := CompressJSON(string(in))
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(string(want)), got)
		})
	}
}

func TestCompress_NoDuplicatedReferences(t *testing.T) {
	doc, err := parser.ParseString(usersSample)
	require.NoError(t, err)

	out, err := Compress(doc)
	require.NoError(t, err)

	refs := out.(models.Array)[1]
	want := models.Array{
		models.String("page"),
		models.Number("1"),
		models.String("users"),
		models.String("user"),
		models.String("age"),
		models.Null{},
		models.String("id"),
		models.String("name"),
		models.String("eduardo"),
		models.Number("90"),
		models.Number("2"),
		models.String("jose"),
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("reference list mismatch (-want +got):\n%s", diff)
	}
}

func TestCompress_KeysAndValuesShareReferences(t *testing.T) {
	doc, err := parser.ParseString(`{"id": "123", "123": "id"}`)
	require.NoError(t, err)

	out, err := Compress(doc)
	require.NoError(t, err)

	arr := out.(models.Array)
	require.Len(t, arr, 2)

	wantTree := models.Object{"0": models.Number("1"), "1": models.Number("0")}
	wantRefs := models.Array{models.String("123"), models.String("id")}

	if diff := cmp.Diff(wantTree, arr[0]); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRefs, arr[1]); diff != "" {
		t.Errorf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestCompressJSON_ScalarRoots(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"number", `5`, `[0,[5]]`},
		{"string", `"hello"`, `[0,["hello"]]`},
		{"null", `null`, `[0,[null]]`},
		{"bool", `false`, `[0,[false]]`},
		{"empty array", `[]`, `[[],[]]`},
		{"empty object", `{}`, `[{},[]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompressJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompressJSON_DistinguishesTypes(t *testing.T) {
	got, err := CompressJSON(`[true, "true", 1, "1", null, "null", 1.0]`)
	require.NoError(t, err)
	assert.Equal(t, `[[0,1,2,3,4,5,6],[true,"true",1,"1",null,"null",1.0]]`, got)
}

func TestCompressJSON_RepeatedArrayValues(t *testing.T) {
	got, err := CompressJSON(`[{"id": "123", "name": "Eduardo"}, {"id": "456", "name": "Eduardo"}]`)
	require.NoError(t, err)
	assert.Equal(t, `[[{"0":1,"2":3},{"0":4,"2":3}],["id","123","name","Eduardo","456"]]`, got)
}

func TestCompressJSON_MalformedInput(t *testing.T) {
	_, err := CompressJSON(`{"id": `)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidJSON))

	_, err = CompressJSON("  ")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))
}

func TestCompress_RejectsMissingValues(t *testing.T) {
	_, err := Compress(models.Array{models.Number("1"), nil})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedReference))
}

func TestCompress_EveryIndexIsUsed(t *testing.T) {
	doc, err := parser.ParseString(`{"a": [1, 2, {"b": "a", "c": [true, false, null]}], "d": {"a": 1.5, "e": ""}}`)
	require.NoError(t, err)

	out, err := Compress(doc)
	require.NoError(t, err)

	arr := out.(models.Array)
	refs := arr[1].(models.Array)

	used := make(map[int]bool)
	collectIndices(t, arr[0], used)

	assert.Len(t, used, len(refs))
	for i := range refs {
		assert.True(t, used[i], "index %d is never referenced", i)
	}
}

func TestCompressor_IsPerDocument(t *testing.T) {
	c := NewCompressor()
	_, err := c.Compress(models.String("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.References())

	// a fresh compressor starts from index 0 again
	out, err := Compress(models.String("y"))
	require.NoError(t, err)
	assert.Equal(t, models.Array{models.Number("0"), models.Array{models.String("y")}}, out)
}

func collectIndices(t *testing.T, v models.Value, used map[int]bool) {
	t.Helper()
	switch node := v.(type) {
	case models.Array:
		for _, elem := range node {
			collectIndices(t, elem, used)
		}
	case models.Object:
		for k, elem := range node {
			idx, err := strconv.Atoi(k)
			require.NoError(t, err)
			used[idx] = true
			collectIndices(t, elem, used)
		}
	case models.Number:
		idx, err := strconv.Atoi(string(node))
		require.NoError(t, err)
		used[idx] = true
	default:
		t.Fatalf("unexpected %T in compressed tree", v)
	}
}

func BenchmarkCompress(b *testing.B) {
	doc, err := parser.ParseString(usersSample)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compress(doc); err != nil {
			b.Fatal(err)
		}
	}
}
