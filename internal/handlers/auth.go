package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cargolink/cargo-backend/internal/auth"
	"github.com/cargolink/cargo-backend/internal/config"
	"github.com/cargolink/cargo-backend/internal/db"
	"github.com/cargolink/cargo-backend/internal/httpjson"
	"github.com/cargolink/cargo-backend/internal/middleware"
	"github.com/cargolink/cargo-backend/internal/models"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authService *auth.Service
	users       db.UserCollection
	cfg         *config.Config
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, users db.UserCollection, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
		cfg:         cfg,
	}
}

// Register handles user registration. Registration doubles as login: the
// response carries a fresh token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.authService.ValidateName(req.Name); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.authService.ValidateEmail(req.Email); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// Exact, case-sensitive email match
	if _, err := h.users.FindUserByEmail(r.Context(), req.Email); err == nil {
		httpjson.Error(w, http.StatusBadRequest, "Email already registered")
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		log.WithError(err).Error("failed to hash password")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	now := time.Now()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.NormalizeRole(req.Role),
		Phone:        req.Phone,
		Address:      req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.InsertUser(r.Context(), user); err != nil {
		// The unique index on email catches a concurrent registration
		if db.IsDup(err) {
			httpjson.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		log.WithError(err).Error("failed to insert user")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	token, err := h.authService.GenerateToken(&user)
	if err != nil {
		log.WithError(err).Error("failed to generate token")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// Login handles user login. Unknown email and wrong password produce the
// same response so the two cannot be told apart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if !h.authService.CheckPassword(req.Password, user.PasswordHash) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if err := h.users.UpdateLastLogin(r.Context(), user.ID.Hex()); err != nil {
		// Login still succeeds
		log.WithError(err).Warn("failed to update last login")
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.WithError(err).Error("failed to generate token")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, models.AuthResponse{Token: token, User: *user})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	httpjson.Write(w, http.StatusOK, user)
}

// UpdateProfile updates the current user's name, phone and address
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Name != "" {
		if err := h.authService.ValidateName(req.Name); err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := h.users.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		log.WithError(err).Error("failed to update user")
		httpjson.ServerError(w, h.cfg.IsDevelopment(), err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]*models.User{"user": user})
}
