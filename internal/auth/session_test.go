package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewSessionIssuer([]byte("test-signing-key"), time.Hour)

	token, err := issuer.Issue("account-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-123", accountID)
}

func TestSessionIssuer_RejectsWrongKey(t *testing.T) {
	issuer := NewSessionIssuer([]byte("right-key"), time.Hour)
	other := NewSessionIssuer([]byte("wrong-key"), time.Hour)

	token, err := issuer.Issue("account-123")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionIssuer_RejectsExpired(t *testing.T) {
	issuer := NewSessionIssuer([]byte("test-signing-key"), time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue("account-123")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewSessionIssuer([]byte("test-signing-key"), time.Hour)

	for _, tokenString := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := issuer.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidSession)
	}
}
