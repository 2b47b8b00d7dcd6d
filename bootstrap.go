// FILE: lixenwraith/envconfig/bootstrap.go
package envconfig

import (
	"errors"
	"fmt"
	"os"
)

// FromOS captures the current process environment
func FromOS() Snapshot {
	return FromEnviron(os.Environ())
}

// MustScan resolves target like Scan. When the pass ends with aggregated
// defects, each message is written to the sink on its own line in
// encounter order and the exit hook is called; if the hook returns,
// MustScan returns ErrTerminated and target is left untouched.
// Validation and schema errors are returned to the caller as they are.
func (r *Resolver) MustScan(target any) error {
	err := r.Scan(target)

	var agg *AggregateError
	if !errors.As(err, &agg) {
		return err
	}

	for _, d := range agg.Defects {
		fmt.Fprintln(r.sink, d.Message)
	}
	r.logger.Error().Int("defects", len(agg.Defects)).Msg("Configuration is invalid, terminating")
	r.exit(exitCode)

	return fmt.Errorf("%w: %w", ErrTerminated, agg)
}

// MustLoad is the generic form of MustScan
func MustLoad[T any](r *Resolver) (*T, error) {
	var cfg T
	if err := r.MustScan(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv resolves T from the process environment with default options,
// ending the process on aggregated defects
func FromEnv[T any]() (*T, error) {
	return MustLoad[T](New())
}
