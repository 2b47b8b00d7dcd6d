// FILE: lixenwraith/envconfig/builder.go
package envconfig

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// exitCode is passed to the exit hook when a pass ends with defects
const exitCode = 1

// Builder provides a fluent interface for building a Resolver
type Builder struct {
	prefix string
	source func() Snapshot
	steps  map[string]Step
	sink   io.Writer
	exit   func(code int)
	logger zerolog.Logger
	err    error
}

// NewBuilder creates a builder reading the process environment, writing
// diagnostics to stderr and exiting the process on defects
func NewBuilder() *Builder {
	return &Builder{
		source: FromOS,
		steps:  builtinSteps(),
		sink:   os.Stderr,
		exit:   os.Exit,
		logger: zerolog.Nop(),
	}
}

// WithPrefix overrides the top-level key prefix, which defaults to the
// target struct's type name
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = strings.ToUpper(prefix)
	return b
}

// WithSnapshot resolves against a fixed snapshot instead of the process environment
func (b *Builder) WithSnapshot(s Snapshot) *Builder {
	b.source = func() Snapshot { return s }
	return b
}

// WithSource sets the function capturing a snapshot at the start of each pass
func (b *Builder) WithSource(fn func() Snapshot) *Builder {
	if fn == nil {
		b.err = fmt.Errorf("snapshot source cannot be nil")
		return b
	}
	b.source = fn
	return b
}

// WithStep registers a named step usable in chain tags. Registering a
// built-in name replaces it.
func (b *Builder) WithStep(name string, step Step) *Builder {
	name = strings.TrimSpace(name)
	if name == "" || (step.transform == nil && step.validate == nil) {
		b.err = fmt.Errorf("invalid step registration %q", name)
		return b
	}
	b.steps[name] = step
	return b
}

// WithSink sets where diagnostics are written before termination
func (b *Builder) WithSink(w io.Writer) *Builder {
	b.sink = w
	return b
}

// WithExit replaces the termination hook, os.Exit by default
func (b *Builder) WithExit(fn func(code int)) *Builder {
	b.exit = fn
	return b
}

// WithLogger sets the logger receiving per-field debug events
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build creates the Resolver with all specified options
func (b *Builder) Build() (*Resolver, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.sink == nil {
		b.sink = io.Discard
	}
	if b.exit == nil {
		b.exit = os.Exit
	}

	steps := make(map[string]Step, len(b.steps))
	for name, step := range b.steps {
		steps[name] = step
	}

	return &Resolver{
		prefix: b.prefix,
		source: b.source,
		steps:  steps,
		sink:   b.sink,
		exit:   b.exit,
		logger: b.logger,
		tables: make(map[reflect.Type][]boundField),
	}, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Resolver {
	r, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("envconfig build failed: %v", err))
	}
	return r
}
