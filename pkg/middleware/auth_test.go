package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/pkg/auth"
)

func okHandler(t *testing.T, wantID, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := auth.RequesterFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, req.ID)
		assert.Equal(t, wantRole, req.Role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	w := httptest.NewRecorder()
	Auth(okHandler(t, "", "")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()

	Auth(okHandler(t, "", "")).ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthInjectsRequester(t *testing.T) {
	token, err := auth.GenerateToken("66f0c1d2e3a4b5c6d7e8f901", "customer")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Auth(okHandler(t, "66f0c1d2e3a4b5c6d7e8f901", "customer")).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	adminToken, err := auth.GenerateToken("66f0c1d2e3a4b5c6d7e8f901", "admin")
	require.NoError(t, err)
	customerToken, err := auth.GenerateToken("66f0c1d2e3a4b5c6d7e8f902", "customer")
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"admin passes", adminToken, http.StatusOK},
		{"customer forbidden", customerToken, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", "Bearer "+tc.token)
			w := httptest.NewRecorder()

			Auth(RequireAdmin(next)).ServeHTTP(w, r)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRequireAdminWithoutRequester(t *testing.T) {
	w := httptest.NewRecorder()
	RequireAdmin(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
