// FILE: lixenwraith/envconfig/resolver.go
package envconfig

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Value sources reported in debug events
const (
	sourceEnv     = "env"
	sourceDefault = "default"
)

// boundField is a descriptor with its chain resolved against a Resolver's steps
type boundField struct {
	FieldDescriptor
	steps []Step
}

// Resolver builds config structs from environment snapshots. It is safe
// for concurrent use; separate passes share only the descriptor cache.
type Resolver struct {
	prefix string
	source func() Snapshot
	steps  map[string]Step
	sink   io.Writer
	exit   func(code int)
	logger zerolog.Logger

	tables map[reflect.Type][]boundField
	mutex  sync.RWMutex // Protects tables
}

// New creates a Resolver with default options
func New() *Resolver {
	return NewBuilder().MustBuild()
}

// Load resolves a new T from a snapshot captured now
func Load[T any](r *Resolver) (*T, error) {
	var cfg T
	if err := r.Scan(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Scan captures a snapshot from the configured source and resolves target
func (r *Resolver) Scan(target any) error {
	return r.ScanSnapshot(r.source(), target)
}

// ScanSnapshot resolves target, a non-nil struct pointer, from env.
//
// It returns nil with target populated, an *AggregateError listing every
// non-fatal defect in encounter order, a *ValidationError when a validator
// rejected a value, or a schema error. On any error target is left untouched.
func (r *Resolver) ScanSnapshot(env Snapshot, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: must be a non-nil struct pointer, got %T", ErrInvalidTarget, target)
	}
	t := rv.Elem().Type()

	prefix, err := r.prefixFor(t)
	if err != nil {
		return err
	}

	p := &pass{r: r, env: env, visiting: make(map[reflect.Type]bool)}
	tree, err := p.resolveStruct(t, prefix, "", false)
	if err != nil {
		return err
	}
	if err := p.defects.err(); err != nil {
		return err
	}

	fresh := reflect.New(t)
	if err := assemble(tree, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

// prefixFor returns the configured prefix or the type's own name
func (r *Resolver) prefixFor(t reflect.Type) (string, error) {
	if r.prefix != "" {
		return r.prefix, nil
	}
	if t.Name() == "" {
		return "", fmt.Errorf("%w: anonymous struct %s needs a prefix", ErrInvalidTarget, t)
	}
	return t.Name(), nil
}

// describe returns the cached field table of t, building it on first use
func (r *Resolver) describe(t reflect.Type) ([]boundField, error) {
	r.mutex.RLock()
	table, ok := r.tables[t]
	r.mutex.RUnlock()
	if ok {
		return table, nil
	}

	fields, err := describe(t)
	if err != nil {
		return nil, err
	}

	table = make([]boundField, len(fields))
	for i, fd := range fields {
		table[i].FieldDescriptor = fd
		for _, name := range fd.Steps {
			step, ok := r.steps[name]
			if !ok {
				return nil, fmt.Errorf("%s.%s: %w %q", t.Name(), fd.GoName, ErrUnknownStep, name)
			}
			table[i].steps = append(table[i].steps, step)
		}
	}

	r.mutex.Lock()
	r.tables[t] = table
	r.mutex.Unlock()
	return table, nil
}

// pass holds the state of one top-level resolution
type pass struct {
	r        *Resolver
	env      Snapshot
	defects  defects
	visiting map[reflect.Type]bool // nested types on the current recursion path
}

// resolveStruct resolves every field of t under prefix into a value tree.
// Aggregated defects are recorded on the pass; the returned error is
// reserved for validation failures and schema errors, which end the pass.
func (p *pass) resolveStruct(t reflect.Type, prefix, path string, private bool) (map[string]any, error) {
	if p.visiting[t] {
		return nil, fmt.Errorf("%w: %s contains itself", ErrUnsupportedType, t)
	}
	p.visiting[t] = true
	defer delete(p.visiting, t)

	table, err := p.r.describe(t)
	if err != nil {
		return nil, err
	}

	tree := make(map[string]any)
	for _, f := range table {
		field := qualify(path, f.Name)
		key := KeyFor(prefix, f.Name)
		fieldPrivate := private || f.Private

		if f.Kind == KindNested {
			sub, err := p.resolveStruct(derefType(f.Type), key, field, fieldPrivate)
			if err != nil {
				return nil, err
			}
			setTreeValue(tree, f.MapPath, sub)
			continue
		}

		if fieldPrivate && !f.HasDefault {
			p.defects.missingDefault(field)
			continue
		}
		if f.Kind == KindUnion {
			p.defects.unionType(field, f.Type)
			continue
		}

		raw, source, ok := p.lookup(f, key, fieldPrivate)
		if !ok {
			p.defects.notSet(field, key)
			continue
		}
		p.r.logger.Debug().
			Str("field", field).
			Str("key", key).
			Str("source", source).
			Msg("Resolving field")

		value, err := coerce(raw, f.Type, f.steps)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, &ValidationError{Field: field, Msg: verr.Msg, Err: verr}
			}
			p.defects.conversion(field, key, f.Type, err)
			continue
		}
		setTreeValue(tree, f.MapPath, value)
	}
	return tree, nil
}

// lookup returns the raw string of a field and where it came from.
// Private fields never consult the environment.
func (p *pass) lookup(f boundField, key string, private bool) (string, string, bool) {
	if !private {
		if raw, ok := p.env.Lookup(key); ok {
			return raw, sourceEnv, true
		}
	}
	if f.HasDefault {
		return f.Default, sourceDefault, true
	}
	return "", "", false
}

func qualify(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
