package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := New()
	api := r.Group("/api")
	api.Get("/orders/{id}", "orders.get", ping)

	path, ok := r.Path("orders.get")
	require.True(t, ok)
	assert.Equal(t, "/api/orders/{id}", path)

	url, err := r.URL("orders.get", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/42", url)

	_, err = r.URL("orders.get", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSnapshot(t *testing.T) {
	r := New()
	r.Get("/health", "health", ping)
	r.Post("/login", "auth.login", ping)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, RouteInfo{Method: http.MethodGet, Path: "/health", Name: "health"}, infos[0])
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	g := r.Group("/api", tag("group"))
	g.Get("/thing", "thing", ping, tag("route"))

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/thing", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"group", "route"}, order)
}

func TestGroupEmptyPathMountsAtPrefix(t *testing.T) {
	r := New()
	g := r.Group("/api/orders")
	g.Post("", "orders.create", ping)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotFoundFallback(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
