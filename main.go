// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"bismi-shop/checkout"
	"bismi-shop/config"
	"bismi-shop/controllers"
	"bismi-shop/lifecycle"
	"bismi-shop/middleware"
	"bismi-shop/routes"
	"bismi-shop/store"
	"bismi-shop/utils"
)

// loggingMiddleware logs each request method, path, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Status transition table: configurable so deployments can insert
	// intermediate states without code changes
	transitions, err := lifecycle.Load(cfg.StatusTransitions)
	if err != nil {
		log.Fatalf("Invalid STATUS_TRANSITIONS: %v", err)
	}

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	if err := utils.EnsureIndexes(indexCtx, client); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancelIndex()

	// Connect to Redis for cart sessions; fall back to in-memory carts
	redisClient, err := utils.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable (%v); carts will not survive restarts", err)
		redisClient = nil
	}

	// Stores and services
	orders := store.NewMongoOrders(client)
	products := store.NewMongoProducts(client)
	checkoutService := checkout.NewService(orders, cfg, transitions)
	emailService := utils.NewEmailService(cfg.OwnerEmail)

	// Initialize controllers
	authController := controllers.NewAuthController(client)
	productController := controllers.NewProductController(products)
	cartController := controllers.NewCartController(redisClient)
	orderController := controllers.NewOrderController(checkoutService, orders, cartController, emailService, cfg.WhatsAppNumber)
	adminController := controllers.NewAdminController(orders, transitions, cfg.AdminPageSize)

	// Set up the router
	router := mux.NewRouter()
	orderLimiter := middleware.NewRateLimiter(10, 3)
	routes.RegisterRoutes(router, authController, productController, cartController, orderController, adminController, orderLimiter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", controllers.SessionHeader},
		ExposedHeaders:   []string{controllers.SessionHeader},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(corsHandler),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// Graceful shutdown on interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped cleanly")
}
