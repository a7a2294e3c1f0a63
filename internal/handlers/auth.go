package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/auth"
	"github.com/anquilosaurios/backend-core/internal/middleware"
	"github.com/anquilosaurios/backend-core/internal/models"
	"github.com/anquilosaurios/backend-core/internal/service"
)

// AuthHandlers maps the auth endpoints onto the auth orchestrator and the
// user service. Registration implies immediate login: the response carries
// a freshly issued token.
type AuthHandlers struct {
	auth   *auth.Service
	users  *service.UserService
	logger *logrus.Logger
}

func NewAuthHandlers(authSvc *auth.Service, users *service.UserService, logger *logrus.Logger) *AuthHandlers {
	if logger == nil {
		logger = logrus.New()
	}
	return &AuthHandlers{auth: authSvc, users: users, logger: logger}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a LOCAL user and issues a token for it.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("failed to register user")
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}

	token, err := h.auth.Tokens().Generate(user)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue token after registration")
		http.Error(w, "error issuing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login authenticates by identifier (email or username) and password.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.logger.WithError(err).Error("authenticate failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Logout records the sign-out. The token itself stays valid until expiry.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid user id in token", http.StatusUnauthorized)
		return
	}

	if err := h.auth.SignOut(r.Context(), userID); err != nil {
		h.logger.WithError(err).Error("sign out failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me echoes the authenticated principal's claims.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":       claims.UserID,
		"name":          claims.Name,
		"username":      claims.Username,
		"email":         claims.Email,
		"is_admin":      claims.IsAdmin,
		"auth_provider": claims.AuthProvider,
		"role":          claims.Role,
	})
}
