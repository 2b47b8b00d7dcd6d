// FILE: lixenwraith/envconfig/coerce.go
package envconfig

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// TypeError reports a chain result that cannot be stored in its field
type TypeError struct {
	Got  reflect.Type
	Want reflect.Type
}

func (e *TypeError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("no value produced for %s", e.Want)
	}
	return fmt.Sprintf("cannot use value of type %s as %s", e.Got, e.Want)
}

// RangeError reports a chain result that does not fit its field without loss
type RangeError struct {
	Value any
	Want  reflect.Type
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %v cannot be stored as %s without loss", e.Value, e.Want)
}

// coerce produces the typed value of one field from its raw string,
// through the chain when there is one, otherwise through the built-in rule.
func coerce(raw string, t reflect.Type, steps []Step) (any, error) {
	if len(steps) == 0 {
		return coerceBuiltin(raw, t)
	}

	var v any = raw
	for _, step := range steps {
		next, err := step.apply(v)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return fit(v, t)
}

// coerceBuiltin applies the built-in rule for t to a raw string
func coerceBuiltin(raw string, t reflect.Type) (any, error) {
	if t == secretType {
		return NewSecret(raw), nil
	}
	if t == durationType || isExtendedScalar(t) {
		return decodeScalar(raw, t)
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := LooksLikeBoolean(raw)
		if err != nil {
			return nil, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetFloat(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return v.Interface(), nil
}

// fit stores a chain result as type t. Strings left by the chain go
// through the built-in rule; numbers convert between numeric kinds only
// when the value survives unchanged.
func fit(v any, t reflect.Type) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, &TypeError{Want: t}
	}
	if rv.Type() == t {
		return v, nil
	}
	if s, ok := v.(string); ok {
		return coerceBuiltin(s, t)
	}
	// A bare number carries no unit
	if t == durationType {
		return nil, &TypeError{Got: rv.Type(), Want: t}
	}
	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return convertNumber(rv, t)
	}
	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t).Interface(), nil
	}
	return nil, &TypeError{Got: rv.Type(), Want: t}
}

// convertNumber converts rv to numeric type t, rejecting overflow, negative
// values for unsigned types and fractions for integer types
func convertNumber(rv reflect.Value, t reflect.Type) (any, error) {
	out := reflect.New(t).Elem()
	lossy := &RangeError{Value: rv.Interface(), Want: t}

	switch {
	case isSigned(t.Kind()):
		var n int64
		switch {
		case isSigned(rv.Kind()):
			n = rv.Int()
		case isUnsigned(rv.Kind()):
			if rv.Uint() > math.MaxInt64 {
				return nil, lossy
			}
			n = int64(rv.Uint())
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, lossy
			}
			n = int64(f)
		}
		if out.OverflowInt(n) {
			return nil, lossy
		}
		out.SetInt(n)

	case isUnsigned(t.Kind()):
		var n uint64
		switch {
		case isSigned(rv.Kind()):
			if rv.Int() < 0 {
				return nil, lossy
			}
			n = uint64(rv.Int())
		case isUnsigned(rv.Kind()):
			n = rv.Uint()
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return nil, lossy
			}
			n = uint64(f)
		}
		if out.OverflowUint(n) {
			return nil, lossy
		}
		out.SetUint(n)

	default:
		var f float64
		switch {
		case isSigned(rv.Kind()):
			f = float64(rv.Int())
		case isUnsigned(rv.Kind()):
			f = float64(rv.Uint())
		default:
			f = rv.Float()
		}
		if out.OverflowFloat(f) {
			return nil, lossy
		}
		out.SetFloat(f)
	}
	return out.Interface(), nil
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k) || k == reflect.Float32 || k == reflect.Float64
}
