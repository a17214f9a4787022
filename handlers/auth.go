package handlers

import (
	"net/http"
	"strings"
	"time"

	"cinelist/models"
	"cinelist/services/users"
	"cinelist/utils"
)

// AuthHandler issues and clears sessions for the account routes.
type AuthHandler struct {
	usersService *users.Service
	secret       string
	tokenTTL     time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(usersService *users.Service, secret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		usersService: usersService,
		secret:       secret,
		tokenTTL:     tokenTTL,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the account shape returned to clients; no credential data.
type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

// Signup registers an account and starts a session.
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		jsonError(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.usersService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		translateError(w, err)
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusCreated, map[string]interface{}{"user": toUserResponse(user)})
}

// Login verifies credentials and starts a session.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.usersService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		translateError(w, err)
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

// Logout clears the session cookie.
// GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	jsonSuccess(w, http.StatusOK, nil)
}

// CheckAuth reports the signed-in account for an authenticated request.
// GET /auth/checkauth
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		jsonError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.usersService.Get(r.Context(), userID)
	if err != nil {
		translateError(w, err)
		return
	}

	jsonSuccess(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID string) error {
	token, err := utils.CreateSessionToken(h.secret, userID, h.tokenTTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
