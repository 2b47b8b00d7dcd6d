// FILE: lixenwraith/envconfig/snapshot.go
package envconfig

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dario.cat/mergo"
)

// keySeparator joins prefix and field segments of an environment key
const keySeparator = "__"

// Snapshot is an immutable view of environment entries captured once
// before a resolution pass. The zero value is an empty snapshot.
type Snapshot struct {
	entries map[string]string
}

// FromMap captures a copy of m
func FromMap(m map[string]string) Snapshot {
	entries := make(map[string]string, len(m))
	for k, v := range m {
		entries[k] = v
	}
	return Snapshot{entries: entries}
}

// FromEnviron captures KEY=VALUE pairs as returned by os.Environ.
// Entries without '=' are ignored; later duplicates win.
func FromEnviron(pairs []string) Snapshot {
	entries := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		entries[key] = value
	}
	return Snapshot{entries: entries}
}

// Lookup returns the value stored under key and whether it was present
func (s Snapshot) Lookup(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Len returns the number of captured entries
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Keys returns the captured keys in sorted order
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge layers snapshots in order; entries of later snapshots win
func Merge(layers ...Snapshot) (Snapshot, error) {
	entries := make(map[string]string)
	var errs []error
	for i, layer := range layers {
		if len(layer.entries) == 0 {
			continue
		}
		if err := mergo.Merge(&entries, layer.entries, mergo.WithOverride); err != nil {
			errs = append(errs, fmt.Errorf("layer %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Snapshot{}, fmt.Errorf("failed to merge snapshots: %w", err)
	}
	return Snapshot{entries: entries}, nil
}

// KeyFor derives the environment key of a field under prefix
func KeyFor(prefix, name string) string {
	return strings.ToUpper(prefix) + keySeparator + strings.ToUpper(name)
}
