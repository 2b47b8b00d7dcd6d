// FILE: lixenwraith/envconfig/descriptor.go
package envconfig

import (
	"encoding"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// Struct tags read by the descriptor walker
const (
	tagEnv     = "env"
	tagDefault = "default"
	tagChain   = "chain"
)

// privateMarker prefixes names of fields never read from the environment
const privateMarker = "_"

// Kind classifies how a field is resolved
type Kind int

const (
	// KindScalar fields are coerced from a single string
	KindScalar Kind = iota
	// KindNested fields are config structs resolved under an extended prefix
	KindNested
	// KindUnion fields are optional or interface typed and always rejected
	KindUnion
	// KindSecret fields are wrapped in a Secret
	KindSecret
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindNested:
		return "nested"
	case KindUnion:
		return "union"
	case KindSecret:
		return "secret"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FieldDescriptor describes one field of a config struct
type FieldDescriptor struct {
	Name       string       // config name, from the env tag or the snake_cased Go name
	GoName     string       // Go field name
	MapPath    []string     // keys used when assembling the struct
	Index      []int        // reflect index path, crosses flattened embedded structs
	Type       reflect.Type // declared type
	Kind       Kind
	Steps      []string // named steps from the chain tag, applied left to right
	HasDefault bool
	Default    string
	Private    bool
}

var (
	secretType          = reflect.TypeOf(Secret{})
	timeType            = reflect.TypeOf(time.Time{})
	urlType             = reflect.TypeOf(url.URL{})
	ipType              = reflect.TypeOf(net.IP{})
	ipNetType           = reflect.TypeOf(net.IPNet{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// describe walks the exported fields of struct type t in declaration order
func describe(t reflect.Type) ([]FieldDescriptor, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidTarget, t)
	}

	var fields []FieldDescriptor
	if err := describeFields(t, nil, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func describeFields(t reflect.Type, index []int, mapPath []string, out *[]FieldDescriptor) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, hasTag := field.Tag.Lookup(tagEnv)
		if tag == "-" {
			continue
		}

		fieldIndex := append(append([]int(nil), index...), i)

		// Embedded config structs share the parent's prefix
		if field.Anonymous && field.Type.Kind() == reflect.Struct && !hasTag {
			if kind, _ := classify(field.Type); kind == KindNested {
				embeddedPath := append(append([]string(nil), mapPath...), field.Name)
				if err := describeFields(field.Type, fieldIndex, embeddedPath, out); err != nil {
					return err
				}
				continue
			}
		}

		kind, err := classify(field.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}

		fd := FieldDescriptor{
			Name:   toSnake(field.Name),
			GoName: field.Name,
			Index:  fieldIndex,
			Type:   field.Type,
			Kind:   kind,
		}
		// The assembly decoder matches on the same tag, falling back to the Go name
		mapKey := field.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			fd.Name = name
			mapKey = name
		}
		fd.MapPath = append(append([]string(nil), mapPath...), mapKey)
		fd.Private = strings.HasPrefix(fd.Name, privateMarker)
		fd.Default, fd.HasDefault = field.Tag.Lookup(tagDefault)

		if chain := field.Tag.Get(tagChain); chain != "" {
			for _, step := range strings.Split(chain, ",") {
				if step = strings.TrimSpace(step); step != "" {
					fd.Steps = append(fd.Steps, step)
				}
			}
		}

		*out = append(*out, fd)
	}
	return nil
}

// classify maps a declared type to its resolution kind
func classify(t reflect.Type) (Kind, error) {
	if t == secretType {
		return KindSecret, nil
	}
	if isExtendedScalar(t) {
		return KindScalar, nil
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindScalar, nil
	case reflect.Struct:
		return KindNested, nil
	case reflect.Ptr:
		elem := t.Elem()
		if elem.Kind() == reflect.Struct && elem != secretType && !isExtendedScalar(elem) {
			return KindNested, nil
		}
		return KindUnion, nil
	case reflect.Interface:
		return KindUnion, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// isExtendedScalar reports types decoded from one string through decode hooks
func isExtendedScalar(t reflect.Type) bool {
	switch t {
	case timeType, urlType, ipType, ipNetType:
		return true
	}
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// toSnake converts a Go identifier to snake_case, keeping acronyms together
// (DatabaseURL -> database_url, HTTPPort -> http_port).
func toSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
