package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/auth"
)

var testSecret = []byte("test-secret")

func protectedHandler(t *testing.T, gotIdentity *auth.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotIdentity = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	var identity auth.Identity
	handler := Auth(testSecret)(protectedHandler(t, &identity))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Authorization token missing"}`, rec.Body.String())
}

func TestAuth_WrongScheme(t *testing.T) {
	t.Parallel()

	var identity auth.Identity
	handler := Auth(testSecret)(protectedHandler(t, &identity))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	var identity auth.Identity
	handler := Auth(testSecret)(protectedHandler(t, &identity))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	token, err := auth.IssueToken(uuid.New(), "alice", testSecret, -1*time.Second)
	require.NoError(t, err)

	var identity auth.Identity
	handler := Auth(testSecret)(protectedHandler(t, &identity))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	token, err := auth.IssueToken(userID, "alice", testSecret, time.Hour)
	require.NoError(t, err)

	var identity auth.Identity
	handler := Auth(testSecret)(protectedHandler(t, &identity))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
}
