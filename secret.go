// FILE: lixenwraith/envconfig/secret.go
package envconfig

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maskChar replaces every byte of a secret in textual output
const maskChar = "*"

// Secret holds a sensitive string. Every textual, formatting and serialization
// path yields one mask character per character; only Value exposes the content.
type Secret struct {
	value string
}

// NewSecret wraps s
func NewSecret(s string) Secret {
	return Secret{value: s}
}

// Value returns the wrapped string unmodified
func (s Secret) Value() string {
	return s.value
}

// Len returns the number of characters in the wrapped string
func (s Secret) Len() int {
	return utf8.RuneCountInString(s.value)
}

// String returns the mask
func (s Secret) String() string {
	return strings.Repeat(maskChar, s.Len())
}

// GoString returns the mask, so %#v never prints the struct contents
func (s Secret) GoString() string {
	return s.String()
}

// Format masks the value for every fmt verb
func (s Secret) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, s.String())
}

// Equal reports whether other is a Secret wrapping the same string.
// A plain string never compares equal, not even the wrapped one.
func (s Secret) Equal(other any) bool {
	o, ok := other.(Secret)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(o.value)) == 1
}

// MarshalText emits the mask
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalJSON emits the mask as a JSON string
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
