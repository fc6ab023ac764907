package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestBindAcceptsValidPayload(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"jo@example.com","password":"hunter22"}`))
	w := httptest.NewRecorder()

	var body loginPayload
	ok := Bind(w, r, &body)

	require.True(t, ok)
	assert.Equal(t, "jo@example.com", body.Email)
}

func TestBindRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	w := httptest.NewRecorder()

	var body loginPayload
	ok := Bind(w, r, &body)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestBindRejectsFailedRules(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	w := httptest.NewRecorder()

	var body loginPayload
	ok := Bind(w, r, &body)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
	assert.Contains(t, w.Body.String(), "Email")
	assert.Contains(t, w.Body.String(), "Password")
}

func TestStruct(t *testing.T) {
	assert.Error(t, Struct(&loginPayload{Email: "bad"}))
	assert.NoError(t, Struct(&loginPayload{Email: "jo@example.com", Password: "hunter22"}))
}
