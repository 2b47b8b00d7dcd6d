// FILE: lixenwraith/envconfig/step.go
package envconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type stepKind int

const (
	stepTransform stepKind = iota
	stepValidate
)

// Step is one item of a field's chain: either a transform whose result
// replaces the working value, or a validator whose rejection aborts the
// whole resolution pass.
type Step struct {
	kind      stepKind
	transform func(v any) (any, error)
	validate  func(v any) error
}

// Transform returns a step replacing the working value with fn's result.
// An error from fn is reported as a conversion defect unless it is a
// *ValidationError, which aborts the pass.
func Transform(fn func(v any) (any, error)) Step {
	return Step{kind: stepTransform, transform: fn}
}

// Validate returns a step that keeps the working value. Any error from fn
// aborts the pass with a *ValidationError carrying fn's message.
func Validate(fn func(v any) error) Step {
	return Step{kind: stepValidate, validate: fn}
}

// Construct returns a transform building a value from the string form of
// the working value, the way a type constructor would.
func Construct[T any](parse func(s string) (T, error)) Step {
	return Transform(func(v any) (any, error) {
		return parse(asString(v))
	})
}

// apply runs the step against v
func (s Step) apply(v any) (any, error) {
	switch s.kind {
	case stepValidate:
		if err := s.validate(v); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, verr
			}
			return nil, &ValidationError{Msg: err.Error(), Err: err}
		}
		return v, nil
	default:
		return s.transform(v)
	}
}

// asString renders a working value as the string a constructor receives
func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case Secret:
		return x.Value()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// builtinSteps are available to every Resolver under these names
func builtinSteps() map[string]Step {
	return map[string]Step{
		"int": Construct(func(s string) (int, error) {
			return strconv.Atoi(s)
		}),
		"str": Construct(func(s string) (string, error) {
			return s, nil
		}),
		"bool": Construct(LooksLikeBoolean),
		"float": Construct(func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		}),
		"duration": Construct(time.ParseDuration),
		"title": Construct(func(s string) (string, error) {
			// Casers are stateful, one per call
			return cases.Title(language.Und).String(s), nil
		}),
		"upper": Construct(func(s string) (string, error) {
			return strings.ToUpper(s), nil
		}),
		"lower": Construct(func(s string) (string, error) {
			return strings.ToLower(s), nil
		}),
		"trim": Construct(func(s string) (string, error) {
			return strings.TrimSpace(s), nil
		}),
	}
}

// LooksLikeBoolean maps true/1/yes/on and false/0/no/off, case-insensitive
func LooksLikeBoolean(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, &ParseError{Value: s, Want: "boolean"}
}
