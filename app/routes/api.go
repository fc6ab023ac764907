package routes

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/threadline/threadline/app/controllers"
	"github.com/threadline/threadline/app/repositories"
	"github.com/threadline/threadline/app/services"
	"github.com/threadline/threadline/config"
	"github.com/threadline/threadline/pkg/auth"
	"github.com/threadline/threadline/pkg/metrics"
	"github.com/threadline/threadline/pkg/response"
	"github.com/threadline/threadline/pkg/router"
	"github.com/threadline/threadline/pkg/middleware"
	"github.com/threadline/threadline/pkg/storage"
	"github.com/threadline/threadline/pkg/ws"
)

// RegisterAPI wires repositories, services, and controllers onto the router.
func RegisterAPI(r *router.Router, hub *ws.Hub) {
	users := repositories.NewUserRepository()
	products := repositories.NewProductRepository()
	orders := repositories.NewOrderRepository()

	accountService := services.NewAccountService(users)
	catalogService := services.NewCatalogService(products)
	orderService := services.NewOrderService(products, orders, users, hub)

	authController := controllers.NewAuthController(accountService)
	productController := controllers.NewProductController(catalogService)
	orderController := controllers.NewOrderController(orderService)

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", authController.Register)
	api.Post("/auth/login", "auth.login", authController.Login)

	profile := api.Group("/auth", middleware.Auth)
	profile.Get("/profile", "auth.profile", authController.Profile)
	profile.Put("/profile", "auth.profile.update", authController.UpdateProfile)

	api.Get("/products", "products.list", productController.List)
	api.Get("/products/{id}", "products.get", productController.Get)
	api.Post("/products", "products.create", productController.Create, middleware.Auth, middleware.RequireAdmin)

	ordersGroup := api.Group("/orders", middleware.Auth)
	ordersGroup.Post("", "orders.create", orderController.Create)
	ordersGroup.Get("/admin/all", "orders.admin.all", orderController.ListAll, middleware.RequireAdmin)
	ordersGroup.Get("/user/{userId}", "orders.by_user", orderController.ListByUser)
	ordersGroup.Get("/{id}", "orders.get", orderController.Get)
	ordersGroup.Put("/{id}/status", "orders.status", orderController.UpdateStatus, middleware.RequireAdmin)

	r.Get("/ws/orders", "ws.orders", serveOrderSocket(hub))
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/uploads/*", "uploads", serveUpload)

	r.NotFound(serveClient)
}

// serveOrderSocket upgrades the connection and subscribes it to the
// requester's order events. Browsers cannot set headers on WebSocket
// handshakes, so the token also travels as a query parameter.
func serveOrderSocket(hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		hub.Serve(w, r, claims.UserID)
	}
}

// serveUpload reads a stored file through the storage manager so the route
// works the same on the local disk and on S3.
func serveUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		response.NotFound(w, "File not found")
		return
	}

	data, err := storage.Get(key)
	if err != nil {
		response.NotFound(w, "File not found")
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(key))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	w.Write(data)
}

// serveClient falls back to the built client entry page for non-API paths,
// letting the browser router take over. API misses stay JSON.
func serveClient(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		response.NotFound(w, "Not found")
		return
	}

	index := filepath.Join(config.ClientDist(), "index.html")
	if _, err := os.Stat(index); err != nil {
		response.NotFound(w, "Not found")
		return
	}
	http.ServeFile(w, r, index)
}
