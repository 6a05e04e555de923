package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"bismi-shop/middleware"
	"bismi-shop/models"
	"bismi-shop/utils"
)

// AuthController handles admin sign-in. Admin accounts are seeded into the
// admins collection; there is no self-registration.
type AuthController struct {
	Collection *mongo.Collection
}

// NewAuthController creates a new AuthController
func NewAuthController(client *mongo.Client) *AuthController {
	return &AuthController{Collection: client.Database("bismi").Collection("admins")}
}

// Login handles admin authentication
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var admin models.Admin
	err := ac.Collection.FindOne(ctx, bson.M{"email": creds.Email}).Decode(&admin)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(creds.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(admin.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Session answers the admin guard's "is there a valid session" probe. It
// only runs behind AdminAuthMiddleware, so reaching it means yes.
func (ac *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.AdminContextKey).(*utils.Claims)
	if !ok {
		respondError(w, http.StatusUnauthorized, "No active session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"email": claims.Email})
}
