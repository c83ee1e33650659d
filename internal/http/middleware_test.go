package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware_MintsCookie(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = getSessionID(r.Context())
	})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, captured)
	_, err := uuid.Parse(captured)
	assert.NoError(t, err)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Equal(t, captured, cookies[0].Value)
}

func TestSessionMiddleware_ReusesCookie(t *testing.T) {
	existing := uuid.NewString()

	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = getSessionID(r.Context())
	})

	request := httptest.NewRequest("GET", "/", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookie, Value: existing})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, request)

	assert.Equal(t, existing, captured)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestSessionMiddleware_RejectsGarbageCookie(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = getSessionID(r.Context())
	})

	request := httptest.NewRequest("GET", "/", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookie, Value: "not-a-uuid"})

	recorder := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(recorder, request)

	assert.NotEqual(t, "not-a-uuid", captured)
	require.Len(t, recorder.Result().Cookies(), 1)
}

type verifierMock struct {
	err error
}

func (m verifierMock) Verify(_ string) error { return m.err }

func TestAdminAuthMiddleware(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	t.Run("missing header", func(t *testing.T) {
		called = false
		recorder := httptest.NewRecorder()
		AdminAuthMiddleware(verifierMock{})(next).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, called)
	})

	t.Run("invalid token", func(t *testing.T) {
		called = false
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("Authorization", "Bearer bad")

		recorder := httptest.NewRecorder()
		AdminAuthMiddleware(verifierMock{err: errors.New("expired")})(next).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, called)
	})

	t.Run("valid token", func(t *testing.T) {
		called = false
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("Authorization", "Bearer good")

		recorder := httptest.NewRecorder()
		AdminAuthMiddleware(verifierMock{})(next).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, called)
	})
}
