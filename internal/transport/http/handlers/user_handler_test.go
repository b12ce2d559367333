package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errs, ok := decodeBody(t, rec)["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 3)
	assert.Equal(t, "name", errs[0].(map[string]any)["field"])
	assert.Equal(t, "username", errs[1].(map[string]any)["field"])
	assert.Equal(t, "password", errs[2].(map[string]any)["field"])
}

func TestSignup_ResponseShape(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"name": "A", "username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a1", user["username"])
	assert.Equal(t, "active", user["status"])
	assert.NotEmpty(t, user["id"])

	// The hash must never appear in any response field.
	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestSignup_DuplicateIsGenericFailure(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"name": "A", "username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"name": "B", "username": "a1", "password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Signup failed!", decodeBody(t, rec)["message"])
}

func TestLogin_SameShapeForBothFailures(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"name": "A", "username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "nobody", "password": "secret1",
	})
	wrongPass := doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "a1", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "a1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username and password are required", decodeBody(t, rec)["message"])
}

func TestUserUpdate_SelfOnly(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)
	token := signupAndLogin(t, mux, "A", "a1", "secret1")

	rec := doJSON(t, mux, http.MethodPut, "/user/not-a-uuid", token, map[string]string{
		"name": "A2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Any id other than the caller's own is forbidden.
	rec = doJSON(t, mux, http.MethodPut, "/user/"+uuid.NewString(), token, map[string]string{
		"name": "A2",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserUpdate_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"name": "A", "username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := decodeBody(t, rec)["user"].(map[string]any)["id"].(string)

	rec = doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["access_token"].(string)

	// A status outside the enum never reaches the store.
	rec = doJSON(t, mux, http.MethodPut, "/user/"+userID, token, map[string]string{
		"status": "banana",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := decodeBody(t, rec)["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].(map[string]any)["field"])

	rec = doJSON(t, mux, http.MethodPut, "/user/"+userID, token, map[string]string{
		"status": "inactive",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "inactive", decodeBody(t, rec)["data"].(map[string]any)["status"])
}

func TestUserUpdate_Self(t *testing.T) {
	t.Parallel()

	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/user/signup", "", map[string]string{
		"name": "A", "username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := decodeBody(t, rec)["user"].(map[string]any)["id"].(string)

	rec = doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "a1", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["access_token"].(string)

	rec = doJSON(t, mux, http.MethodPut, "/user/"+userID, token, map[string]string{
		"name": "A Updated", "password": "newsecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "A Updated", data["name"])

	// The new password works, the old one does not.
	rec = doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "a1", "password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/user/login", "", map[string]string{
		"username": "a1", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
