package utils

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewActivationCode(t *testing.T) {
    code := NewActivationCode()
    assert.True(t, strings.HasPrefix(code, "GP-"))
    assert.Equal(t, strings.ToUpper(code), code)
    // UUID body plus prefix.
    assert.Len(t, code, 3+36)

    assert.NotEqual(t, code, NewActivationCode())
}

func TestNewPIN(t *testing.T) {
    seen := map[string]bool{}
    for i := 0; i < 50; i++ {
        pin, err := NewPIN()
        require.NoError(t, err)
        require.Len(t, pin, 6)
        for _, r := range pin {
            assert.True(t, r >= '0' && r <= '9', "pin %q contains non-digit", pin)
        }
        seen[pin] = true
    }
    // Not a uniqueness guarantee, but 50 draws from a million values
    // collapsing to one would mean the generator is broken.
    assert.Greater(t, len(seen), 1)
}
