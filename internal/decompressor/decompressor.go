package decompressor

import (
	"fmt"
	"strconv"

	"github.com/mcncl/compacto/internal/errors"
	"github.com/mcncl/compacto/internal/models"
	"github.com/mcncl/compacto/internal/parser"
)

// Decompressor rebuilds a document from its compressed form
// [tree, references].
type Decompressor struct {
	refs models.Array
}

// NewDecompressor creates a Decompressor.
func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

// IsCompressed reports whether doc has the shape of a compressed document:
// an array of exactly two elements. A plain document of that shape cannot
// be told apart.
func IsCompressed(doc models.Value) bool {
	arr, ok := doc.(models.Array)
	return ok && len(arr) == 2
}

// Decompress resolves every reference in doc. Any value that is not a two
// element array is returned unchanged. A reference that cannot be resolved
// fails the whole call.
func (d *Decompressor) Decompress(doc models.Value) (models.Value, error) {
	if !IsCompressed(doc) {
		return doc, nil
	}
	arr := doc.(models.Array)

	refs, err := referenceList(arr[1])
	if err != nil {
		return nil, err
	}
	d.refs = refs
	defer func() { d.refs = nil }()

	return d.resolve(arr[0])
}

// referenceList validates the second element of a compressed document.
// Anything other than an array counts as an empty list.
func referenceList(v models.Value) (models.Array, error) {
	refs, ok := v.(models.Array)
	if !ok {
		return models.Array{}, nil
	}
	for i, ref := range refs {
		if !models.IsScalar(ref) {
			return nil, errors.NewDecompressError(
				fmt.Sprintf("reference %d is not a scalar", i),
				errors.ErrUnknownReference,
			)
		}
	}
	return refs, nil
}

func (d *Decompressor) resolve(v models.Value) (models.Value, error) {
	switch node := v.(type) {
	case models.Array:
		out := make(models.Array, len(node))
		for i, elem := range node {
			res, err := d.resolve(elem)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	case models.Object:
		out := make(models.Object, len(node))
		for k, elem := range node {
			key, err := d.resolveKey(k)
			if err != nil {
				return nil, err
			}
			res, err := d.resolve(elem)
			if err != nil {
				return nil, err
			}
			out[key] = res
		}
		return out, nil
	case models.Number:
		return d.lookup(string(node))
	case models.String:
		return d.lookup(string(node))
	case nil:
		return nil, errors.NewDecompressError("missing value where a reference was expected", errors.ErrUnknownReference)
	default:
		return nil, errors.NewDecompressError(
			fmt.Sprintf("%s is not a value reference", v.Kind()),
			errors.ErrUnknownReference,
		)
	}
}

func (d *Decompressor) resolveKey(k string) (string, error) {
	ref, err := d.lookup(k)
	if err != nil {
		return "", err
	}
	s, ok := ref.(models.String)
	if !ok {
		return "", errors.NewDecompressError(
			fmt.Sprintf("key %q resolves to a %s", k, ref.Kind()),
			errors.ErrKeyNotString,
		)
	}
	return string(s), nil
}

func (d *Decompressor) lookup(text string) (models.Value, error) {
	idx, err := strconv.Atoi(text)
	if err != nil {
		return nil, errors.NewDecompressError(
			fmt.Sprintf("reference %q is not an integer", text),
			errors.ErrInvalidIndex,
		)
	}
	if idx < 0 || idx >= len(d.refs) {
		return nil, errors.NewDecompressError(
			fmt.Sprintf("reference %d outside list of %d values", idx, len(d.refs)),
			errors.ErrIndexOutOfRange,
		)
	}
	return d.refs[idx], nil
}

// Decompress decompresses doc with a fresh Decompressor.
func Decompress(doc models.Value) (models.Value, error) {
	return NewDecompressor().Decompress(doc)
}

// DecompressJSON parses jsonText, decompresses it and returns the result as
// compact JSON text.
func DecompressJSON(jsonText string) (string, error) {
	doc, err := parser.ParseString(jsonText)
	if err != nil {
		return "", err
	}
	out, err := Decompress(doc)
	if err != nil {
		return "", err
	}
	return parser.MarshalString(out)
}
