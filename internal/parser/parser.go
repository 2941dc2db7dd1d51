package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/compacto/internal/errors" // Custom errors package
	"github.com/mcncl/compacto/internal/models"
)

// Parse decodes exactly one JSON document from reader into a models.Value.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // keep numbers in their source form

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Only whitespace may follow the first value.
	var trailingValue interface{}
	if err := decoder.Decode(&trailingValue); err == nil {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	return toValue(raw)
}

// toValue converts the output of encoding/json into the models sum type.
func toValue(raw interface{}) (models.Value, error) {
	switch v := raw.(type) {
	case nil:
		return models.Null{}, nil
	case bool:
		return models.Bool(v), nil
	case json.Number:
		return models.Number(v), nil
	case string:
		return models.String(v), nil
	case []interface{}:
		arr := make(models.Array, len(v))
		for i, elem := range v {
			val, err := toValue(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case map[string]interface{}:
		obj := make(models.Object, len(v))
		for key, elem := range v {
			val, err := toValue(elem)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		return obj, nil
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unexpected decoded type %T", raw), errors.ErrInvalidJSON)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseBytes parses JSON from a byte slice
func ParseBytes(data []byte) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	return Parse(bytes.NewReader(data))
}

// Marshal encodes v as compact JSON. Object keys are written in sorted
// order and HTML characters are not escaped.
func Marshal(v models.Value) ([]byte, error) {
	if v == nil {
		v = models.Null{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.NewOutputError("failed to encode JSON", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalString is Marshal returning a string.
func MarshalString(v models.Value) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
