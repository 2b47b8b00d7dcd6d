// FILE: lixenwraith/envconfig/errors.go
package envconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Defect kinds collected into an AggregateError
var (
	ErrNotSet         = errors.New("not set")
	ErrMissingDefault = errors.New("missing default")
	ErrUnionType      = errors.New("union type")
	ErrConversion     = errors.New("conversion failed")
)

// Schema and bootstrap errors, returned immediately
var (
	ErrInvalidTarget   = errors.New("invalid target")
	ErrUnsupportedType = errors.New("unsupported field type")
	ErrUnknownStep     = errors.New("unknown step")
	ErrTerminated      = errors.New("configuration terminated")
)

// FieldError is one aggregated defect
type FieldError struct {
	Kind    error  // one of ErrNotSet, ErrMissingDefault, ErrUnionType, ErrConversion
	Field   string // dot-qualified field name
	Key     string // environment key, empty for defects detected before lookup
	Message string
	Err     error // underlying cause, if any
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AggregateError carries every defect of one resolution pass in encounter order
type AggregateError struct {
	Defects []*FieldError
}

func (e *AggregateError) Error() string {
	lines := make([]string, len(e.Defects))
	for i, d := range e.Defects {
		lines[i] = d.Message
	}
	return strings.Join(lines, "\n")
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Defects))
	for i, d := range e.Defects {
		errs[i] = d
	}
	return errs
}

// ValidationError aborts a resolution pass immediately. Its text is the
// message supplied by the rejecting validator.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

// Invalid returns a ValidationError carrying msg. Steps return it to abort
// the whole pass regardless of where in the chain they run.
func Invalid(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseError reports a raw value a built-in rule could not interpret
type ParseError struct {
	Value string
	Want  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q does not look like a %s", e.Value, e.Want)
}

// defects accumulates aggregated defects across one top-level pass
type defects struct {
	list []*FieldError
}

func (d *defects) notSet(field, key string) {
	d.list = append(d.list, &FieldError{
		Kind:    ErrNotSet,
		Field:   field,
		Key:     key,
		Message: fmt.Sprintf("Environment variable '%s' is not set", key),
	})
}

func (d *defects) missingDefault(field string) {
	d.list = append(d.list, &FieldError{
		Kind:    ErrMissingDefault,
		Field:   field,
		Message: fmt.Sprintf("Field '%s' is supposed to have a default value", field),
	})
}

func (d *defects) unionType(field string, t reflect.Type) {
	d.list = append(d.list, &FieldError{
		Kind:    ErrUnionType,
		Field:   field,
		Message: fmt.Sprintf("Config values are not supposed to be of Union type: %s: %s", field, t),
	})
}

func (d *defects) conversion(field, key string, t reflect.Type, err error) {
	cause := rootCause(err)
	d.list = append(d.list, &FieldError{
		Kind:  ErrConversion,
		Field: field,
		Key:   key,
		Message: fmt.Sprintf("Failed to convert '%s' to type '%s', got %s: %s",
			field, t, errorKind(cause), cause.Error()),
		Err: err,
	})
}

func (d *defects) err() error {
	if len(d.list) == 0 {
		return nil
	}
	return &AggregateError{Defects: d.list}
}

// rootCause unwraps anonymous wrappers down to the first typed error
func rootCause(err error) error {
	for errorKind(err) == "error" {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// errorKind names the dynamic type of err, e.g. "strconv.NumError".
// Anonymous errors built with errors.New or fmt.Errorf report as "error".
func errorKind(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.PkgPath() {
	case "errors", "fmt", "":
		return "error"
	}
	return t.String()
}
