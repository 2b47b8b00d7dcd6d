// FILE: lixenwraith/envconfig/dump.go
package envconfig

import (
	"encoding"
	"fmt"
	"io"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// KeyInfo describes one environment key read by a config type
type KeyInfo struct {
	Key        string
	Field      string
	Type       string
	Kind       Kind
	Default    string
	HasDefault bool
	Private    bool
	Steps      []string
}

// Keys lists every key a pass over target's type would consult, in
// declaration order. Nested structs expand into their leaves and secret
// defaults are masked. target may be a struct or a pointer to one.
func (r *Resolver) Keys(target any) ([]KeyInfo, error) {
	t, err := structType(target)
	if err != nil {
		return nil, err
	}
	prefix, err := r.prefixFor(t)
	if err != nil {
		return nil, err
	}

	var keys []KeyInfo
	visiting := make(map[reflect.Type]bool)
	var walk func(t reflect.Type, prefix, path string, private bool) error
	walk = func(t reflect.Type, prefix, path string, private bool) error {
		if visiting[t] {
			return fmt.Errorf("%w: %s contains itself", ErrUnsupportedType, t)
		}
		visiting[t] = true
		defer delete(visiting, t)

		table, err := r.describe(t)
		if err != nil {
			return err
		}
		for _, f := range table {
			field := qualify(path, f.Name)
			key := KeyFor(prefix, f.Name)
			if f.Kind == KindNested {
				if err := walk(derefType(f.Type), key, field, private || f.Private); err != nil {
					return err
				}
				continue
			}
			def := f.Default
			if f.Kind == KindSecret {
				def = NewSecret(def).String()
			}
			keys = append(keys, KeyInfo{
				Key:        key,
				Field:      field,
				Type:       f.Type.String(),
				Kind:       f.Kind,
				Default:    def,
				HasDefault: f.HasDefault,
				Private:    private || f.Private,
				Steps:      f.Steps,
			})
		}
		return nil
	}

	if err := walk(t, prefix, "", false); err != nil {
		return nil, err
	}
	return keys, nil
}

// Dump writes cfg as TOML under a table named after its prefix, using
// config names as keys. Secrets are masked; union fields are omitted.
// The output reads back through FromFile into the same keys.
func (r *Resolver) Dump(w io.Writer, cfg any) error {
	t, err := structType(cfg)
	if err != nil {
		return err
	}
	prefix, err := r.prefixFor(t)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return fmt.Errorf("%w: nil %T", ErrInvalidTarget, cfg)
		}
		rv = rv.Elem()
	}
	tree, err := r.dumpTree(rv)
	if err != nil {
		return err
	}

	doc := map[string]any{strings.ToLower(prefix): tree}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return nil
}

func (r *Resolver) dumpTree(rv reflect.Value) (map[string]any, error) {
	table, err := r.describe(rv.Type())
	if err != nil {
		return nil, err
	}

	tree := make(map[string]any, len(table))
	for _, f := range table {
		fv := rv.FieldByIndex(f.Index)
		switch f.Kind {
		case KindUnion:
			continue
		case KindNested:
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			sub, err := r.dumpTree(fv)
			if err != nil {
				return nil, err
			}
			tree[f.Name] = sub
		default:
			tree[f.Name] = dumpValue(fv.Interface())
		}
	}
	return tree, nil
}

// dumpValue renders values TOML has no native form for as strings
func dumpValue(v any) any {
	switch x := v.(type) {
	case Secret:
		return x.String()
	case time.Duration:
		return x.String()
	case time.Time:
		return x
	case url.URL:
		return x.String()
	case net.IPNet:
		return x.String()
	case net.IP:
		return x.String()
	case encoding.TextMarshaler:
		if text, err := x.MarshalText(); err == nil {
			return string(text)
		}
	}
	return v
}

func structType(v any) (reflect.Type, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected a struct or struct pointer, got %T", ErrInvalidTarget, v)
	}
	return t, nil
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
