// Package reftable assigns stable integer references to JSON scalars.
//
// A Table is built during a single compression call. Each distinct scalar
// gets the next index in first-seen order, starting at 0, and the table's
// values in index order become the reference list of the compressed
// document.
package reftable

import (
	"fmt"

	"github.com/dchest/siphash"

	"github.com/mcncl/compacto/internal/errors"
	"github.com/mcncl/compacto/internal/models"
)

// Fixed SipHash keys. The hash only picks a bucket, so the keys need not be
// secret; every hit is confirmed against the full content key.
const (
	k0 = 0x636f6d7061637430
	k1 = 0x7265667461626c65
)

type entry struct {
	key   string
	value models.Value
}

// Table maps scalar content to reference indices. It is not safe for
// concurrent use; each compression owns its own Table.
type Table struct {
	entries []entry
	buckets map[uint64][]int
	hash    func(string) uint64
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		buckets: make(map[uint64][]int),
		hash:    sipHash,
	}
}

func sipHash(key string) uint64 {
	return siphash.Hash(k0, k1, []byte(key))
}

// ContentKey returns the type-tagged text of a scalar. The tag keeps
// true, 1, "1" and "true" apart.
func ContentKey(v models.Value) (string, error) {
	switch s := v.(type) {
	case models.Null:
		return "z", nil
	case models.Bool:
		if s {
			return "b:true", nil
		}
		return "b:false", nil
	case models.Number:
		return "n:" + string(s), nil
	case models.String:
		return "s:" + string(s), nil
	case nil:
		return "", errors.NewCompressError("cannot reference a missing value", errors.ErrUnsupportedReference)
	default:
		return "", errors.NewCompressError(
			fmt.Sprintf("cannot reference a value of kind %s", v.Kind()),
			errors.ErrUnsupportedReference,
		)
	}
}

// Intern returns the index of v, adding it to the table if it has not been
// seen. Only scalars are accepted.
func (t *Table) Intern(v models.Value) (int, error) {
	key, err := ContentKey(v)
	if err != nil {
		return 0, err
	}

	h := t.hash(key)
	for _, idx := range t.buckets[h] {
		if t.entries[idx].key == key {
			return idx, nil
		}
	}

	idx := len(t.entries)
	t.entries = append(t.entries, entry{key: key, value: v})
	t.buckets[h] = append(t.buckets[h], idx)
	return idx, nil
}

// Lookup returns the index of v without modifying the table.
func (t *Table) Lookup(v models.Value) (int, bool) {
	key, err := ContentKey(v)
	if err != nil {
		return 0, false
	}
	for _, idx := range t.buckets[t.hash(key)] {
		if t.entries[idx].key == key {
			return idx, true
		}
	}
	return 0, false
}

// Len returns the number of distinct values in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Values returns the reference list: every value placed at its index.
func (t *Table) Values() models.Array {
	refs := make(models.Array, len(t.entries))
	for i, e := range t.entries {
		refs[i] = e.value
	}
	return refs
}
