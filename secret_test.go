// FILE: lixenwraith/envconfig/secret_test.go
package envconfig

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSecret tests that the wrapped value only leaves through Value
func TestSecret(t *testing.T) {
	const reference = "hello world"

	t.Run("Length", func(t *testing.T) {
		assert.Equal(t, len(reference), NewSecret(reference).Len())
	})

	t.Run("TextIsMask", func(t *testing.T) {
		s := NewSecret(reference)
		assert.Equal(t, strings.Repeat("*", len(reference)), s.String())
		assert.Equal(t, s.String(), s.GoString())
		assert.NotEqual(t, reference, s.String())
	})

	t.Run("FormattingVerbs", func(t *testing.T) {
		s := NewSecret(reference)
		mask := strings.Repeat("*", len(reference))
		for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%q", "%x", "%d"} {
			assert.Equal(t, mask, fmt.Sprintf(verb, s), verb)
		}

		type holder struct{ Token Secret }
		out := fmt.Sprintf("%+v", holder{Token: s})
		assert.NotContains(t, out, reference)
	})

	t.Run("Equality", func(t *testing.T) {
		s := NewSecret(reference)
		assert.False(t, s.Equal(reference))
		assert.True(t, s.Equal(NewSecret(reference)))
		assert.False(t, s.Equal(NewSecret("other")))
		assert.Equal(t, reference, s.Value())
	})

	t.Run("Serialization", func(t *testing.T) {
		data, err := json.Marshal(map[string]Secret{"token": NewSecret("abc")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"token":"***"}`, string(data))

		text, err := NewSecret("abcd").MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "****", string(text))
	})

	t.Run("CountsCharacters", func(t *testing.T) {
		s := NewSecret("pässword")
		assert.Equal(t, 8, s.Len())
		assert.Equal(t, "********", s.String())
		assert.Equal(t, "********", fmt.Sprintf("%v", s))
		assert.Equal(t, "pässword", s.Value())
	})

	t.Run("Empty", func(t *testing.T) {
		var s Secret
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, "", s.String())
		assert.Equal(t, "", s.Value())
	})
}
