package compressor

import (
	"sort"
	"strconv"

	"github.com/mcncl/compacto/internal/models"
	"github.com/mcncl/compacto/internal/parser"
	"github.com/mcncl/compacto/internal/reftable"
)

// Compressor rewrites a JSON document so that every scalar and every object
// key is replaced by an index into a reference list.
//
// A Compressor holds the reference table of one document. Use a new
// Compressor for every document.
type Compressor struct {
	refs *reftable.Table
}

// NewCompressor creates a Compressor with an empty reference table.
func NewCompressor() *Compressor {
	return &Compressor{refs: reftable.New()}
}

// Compress returns the compressed form of doc: a two element array holding
// the rewritten tree and the reference list.
func (c *Compressor) Compress(doc models.Value) (models.Value, error) {
	tree, err := c.encode(doc)
	if err != nil {
		return nil, err
	}
	return models.Array{tree, c.refs.Values()}, nil
}

// References returns the number of distinct values referenced so far.
func (c *Compressor) References() int {
	return c.refs.Len()
}

func (c *Compressor) encode(v models.Value) (models.Value, error) {
	switch node := v.(type) {
	case models.Array:
		return c.encodeArray(node)
	case models.Object:
		return c.encodeObject(node)
	default:
		return c.encodeScalar(v)
	}
}

func (c *Compressor) encodeArray(arr models.Array) (models.Value, error) {
	out := make(models.Array, len(arr))
	for i, elem := range arr {
		enc, err := c.encode(elem)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func (c *Compressor) encodeObject(obj models.Object) (models.Value, error) {
	// Sorted traversal makes index assignment independent of map order.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(models.Object, len(obj))
	for _, k := range keys {
		idx, err := c.refs.Intern(models.String(k))
		if err != nil {
			return nil, err
		}
		enc, err := c.encode(obj[k])
		if err != nil {
			return nil, err
		}
		out[strconv.Itoa(idx)] = enc
	}
	return out, nil
}

func (c *Compressor) encodeScalar(v models.Value) (models.Value, error) {
	idx, err := c.refs.Intern(v)
	if err != nil {
		return nil, err
	}
	return models.Number(strconv.Itoa(idx)), nil
}

// Compress compresses doc with a fresh reference table.
func Compress(doc models.Value) (models.Value, error) {
	return NewCompressor().Compress(doc)
}

// CompressJSON parses jsonText, compresses it and returns the compressed
// document as compact JSON text.
func CompressJSON(jsonText string) (string, error) {
	doc, err := parser.ParseString(jsonText)
	if err != nil {
		return "", err
	}
	out, err := Compress(doc)
	if err != nil {
		return "", err
	}
	return parser.MarshalString(out)
}
