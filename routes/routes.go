// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"bismi-shop/controllers"
	"bismi-shop/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	adminController *controllers.AdminController,
	orderLimiter *middleware.RateLimiter,
) {
	// Catalog
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")

	// Cart (anonymous shopper session)
	router.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/items", cartController.AddItem).Methods("POST")
	router.HandleFunc("/cart/items/{productId}", cartController.UpdateItem).Methods("PUT")
	router.HandleFunc("/cart/items/{productId}", cartController.RemoveItem).Methods("DELETE")

	// Orders
	router.Handle("/orders", orderLimiter.Limit(http.HandlerFunc(orderController.SubmitOrder))).Methods("POST")
	router.HandleFunc("/orders/{id}", orderController.GetOrder).Methods("GET")
	router.HandleFunc("/track", orderController.TrackOrder).Methods("GET")

	// Admin auth
	router.HandleFunc("/admin/login", authController.Login).Methods("POST")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuthMiddleware)
	admin.HandleFunc("/session", authController.Session).Methods("GET")
	admin.HandleFunc("/dashboard", adminController.Dashboard).Methods("GET")
	admin.HandleFunc("/orders", adminController.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", adminController.GetOrder).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", adminController.UpdateStatus).Methods("PATCH")
}
