// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	alphanumeric := regexp.MustCompile("^[a-zA-Z0-9]+$")

	for _, length := range []int{1, 16, 64} {
		value, err := GenerateRandomString(length)
		require.NoError(t, err)
		assert.Len(t, value, length)
		assert.Regexp(t, alphanumeric, value)
	}

	first, err := GenerateRandomString(32)
	require.NoError(t, err)
	second, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashString(t *testing.T) {
	// Known SHA-256 digests.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashString(""))
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		HashString("hello"))

	// Deterministic for the same input.
	assert.Equal(t, HashString("brokerage"), HashString("brokerage"))
	assert.NotEqual(t, HashString("a"), HashString("b"))
}
