package models

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a JSON value. It is implemented only by Null, Bool, Number,
// String, Array and Object, all of which encode with encoding/json.
type Value interface {
	Kind() Kind
}

// Null is the JSON literal null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number kept in its source text form, so that 1 and 1.0
// stay distinct and large integers survive without float rounding.
type Number string

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

// Object is a JSON object. Key order carries no meaning.
type Object map[string]Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if len(n) == 0 || !(n[0] == '-' || (n[0] >= '0' && n[0] <= '9')) || !json.Valid([]byte(n)) {
		return nil, fmt.Errorf("invalid number literal %q", string(n))
	}
	return []byte(n), nil
}

// IsScalar reports whether v is null, a bool, a number or a string.
func IsScalar(v Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

// Equal reports whether a and b are structurally equal.
// Numbers compare by their text form.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv := b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !Equal(x, y) {
				return false
			}
		}
		return true
	}
	return false
}
