package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)
	sixDigit = regexp.MustCompile(`^[0-9]{6}$`)
)

func TestNewVerifyToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewVerifyToken()
		require.NoError(t, err)
		assert.Regexp(t, hexToken, token)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestNewOTP(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := NewOTP()
		require.NoError(t, err)
		assert.Regexp(t, sixDigit, otp, "leading zeros must be preserved")
	}
}

func TestHashToken(t *testing.T) {
	hash := HashToken("012345")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken("012345"))
	assert.NotEqual(t, hash, HashToken("012346"))
	assert.NotEqual(t, "012345", hash)
}
