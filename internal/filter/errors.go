package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is matched (via errors.Is) by every error caused by the
// caller's filter parameters or payload. Handlers use it to answer 400 instead of 500.
var ErrInvalidRequest = errors.New("invalid filter request")

// PayloadDecodeError is returned when payload text is not valid JSON.
type PayloadDecodeError struct {
	Err error
}

func (e *PayloadDecodeError) Error() string {
	return fmt.Sprintf("payload is not valid JSON: %v", e.Err)
}

func (e *PayloadDecodeError) Unwrap() error { return e.Err }

func (e *PayloadDecodeError) Is(target error) bool { return target == ErrInvalidRequest }

// UnknownPresetError is returned when "preset:<name>" references a name
// missing from the registry. Valid holds the accepted names, sorted.
type UnknownPresetError struct {
	Name  string
	Valid []string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("Unknown preset %q. Valid presets: %s", e.Name, strings.Join(e.Valid, ", "))
}

func (e *UnknownPresetError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidFormatError is returned for an output_format outside csv, json, compact.
type InvalidFormatError struct {
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("Invalid output_format %q. Must be one of: %s", e.Value, joinFormats())
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidAggregateError is returned for a non-empty aggregate other than first or last.
type InvalidAggregateError struct {
	Value string
}

func (e *InvalidAggregateError) Error() string {
	return fmt.Sprintf("Invalid aggregate %q. Must be one of: first, last", e.Value)
}

func (e *InvalidAggregateError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidFieldsSpecificationError is returned when a preset reference is
// mixed with other field names in the same specification.
type InvalidFieldsSpecificationError struct {
	Spec string
}

func (e *InvalidFieldsSpecificationError) Error() string {
	return fmt.Sprintf("Invalid fields %q: a preset must be the only entry (use either preset:<name> or a comma-separated field list)", e.Spec)
}

func (e *InvalidFieldsSpecificationError) Is(target error) bool { return target == ErrInvalidRequest }

// UnsupportedFormatError is returned by Serialize when called directly with a
// format that Parse would have rejected.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q (supported: %s)", string(e.Format), joinFormats())
}

// IsRequestError reports whether err was caused by invalid caller input.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// ErrorKind returns a short stable label for err, suitable for metric labels.
func ErrorKind(err error) string {
	var (
		decodeErr   *PayloadDecodeError
		presetErr   *UnknownPresetError
		formatErr   *InvalidFormatError
		aggErr      *InvalidAggregateError
		fieldsErr   *InvalidFieldsSpecificationError
		unsupported *UnsupportedFormatError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &decodeErr):
		return "payload_decode"
	case errors.As(err, &presetErr):
		return "unknown_preset"
	case errors.As(err, &formatErr):
		return "invalid_format"
	case errors.As(err, &aggErr):
		return "invalid_aggregate"
	case errors.As(err, &fieldsErr):
		return "invalid_fields"
	case errors.As(err, &unsupported):
		return "unsupported_format"
	default:
		return "internal"
	}
}

func joinFormats() string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
