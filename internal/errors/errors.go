package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify an input file or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// Codec errors
var (
	// ErrUnsupportedReference is returned when an array or object is offered
	// to the reference table. Only scalars can be referenced.
	ErrUnsupportedReference = errors.New("unsupported reference value")
	// ErrUnknownReference covers every reference a compressed document
	// cannot resolve. The more specific errors below wrap it.
	ErrUnknownReference = errors.New("unknown value reference")
	ErrIndexOutOfRange  = fmt.Errorf("%w: index out of range", ErrUnknownReference)
	ErrInvalidIndex     = fmt.Errorf("%w: not an integer index", ErrUnknownReference)
	ErrKeyNotString     = fmt.Errorf("%w: object key does not resolve to a string", ErrUnknownReference)
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeCompress   ErrorType = "compress"
	ErrorTypeDecompress ErrorType = "decompress"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same Type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewCompressError creates a new error raised while building references
func NewCompressError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeCompress, Message: message, Err: err}
}

// NewDecompressError creates a new error raised while resolving references
func NewDecompressError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeDecompress, Message: message, Err: err}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// IsType reports whether err carries an *AppError of type t anywhere in its chain.
func IsType(err error, t ErrorType) bool {
	return errors.Is(err, &AppError{Type: t})
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeCompress:
			return fmt.Sprintf("Compression error: %s", appErr.Message)
		case ErrorTypeDecompress:
			return fmt.Sprintf("Decompression error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide valid JSON data."
	case errors.Is(err, ErrInvalidJSON):
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	case errors.Is(err, ErrMultipleJSON):
		return "Error: Multiple JSON values found. Please provide a single JSON document."
	case errors.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case errors.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Please specify an input file or pipe JSON data to stdin."
	case errors.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	case errors.Is(err, ErrUnknownReference):
		return "Error: The compressed document references a value that does not exist. It may be corrupt."
	case errors.Is(err, ErrUnsupportedReference):
		return "Error: Only null, boolean, number and string values can be referenced."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
