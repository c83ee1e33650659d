package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthenticator("admin", string(hash), []byte("test-secret"))
}

func TestLoginAndVerify(t *testing.T) {
	auth := newTestAuthenticator(t)

	token, err := auth.Login("admin", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, auth.Verify(token))
}

func TestLogin_WrongPassword(t *testing.T) {
	auth := newTestAuthenticator(t)

	_, err := auth.Login("admin", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongUsername(t *testing.T) {
	auth := newTestAuthenticator(t)

	_, err := auth.Login("root", "hunter2")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_GarbageToken(t *testing.T) {
	auth := newTestAuthenticator(t)

	assert.ErrorIs(t, auth.Verify("not-a-token"), ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	auth := newTestAuthenticator(t)
	other := NewAuthenticator("admin", "x", []byte("other-secret"))

	token, err := auth.Login("admin", "hunter2")
	require.NoError(t, err)

	assert.ErrorIs(t, other.Verify(token), ErrInvalidToken)
}
