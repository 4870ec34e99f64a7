package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

const refreshCookie = "refresh_token"

type Handler struct {
	Store  *auth.Store
	Config config.Config
}

func NewHandler(store *auth.Store, cfg config.Config) *Handler {
	return &Handler{Store: store, Config: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	user, hash, err := h.Store.FindUserByEmail(r.Context(), strings.TrimSpace(payload.Email))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	if user == nil || auth.CheckPassword(hash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}

	refresh, err := auth.NewRefreshToken()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.CreateSession(r.Context(), user.ID, auth.HashToken(refresh), time.Now().Add(h.Config.RefreshTokenTTL)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to start session", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Config.JWTSecret, auth.Claims{UserID: user.ID, Name: user.Name, Role: user.Role}, h.Config.AccessTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	h.setRefreshCookie(w, refresh, h.Config.RefreshTokenTTL)
	api.Success(w, map[string]any{"token": token, "user": user}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "refresh token required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	oldHash := auth.HashToken(cookie.Value)
	valid, err := h.Store.SessionValid(r.Context(), payload.UserID, oldHash)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	if !valid {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.GetUser(r.Context(), payload.UserID)
	if err != nil || user == nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", middleware.GetRequestID(r.Context()))
		return
	}

	refresh, err := auth.NewRefreshToken()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.RotateSession(r.Context(), user.ID, oldHash, auth.HashToken(refresh), time.Now().Add(h.Config.RefreshTokenTTL)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to rotate session", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Config.JWTSecret, auth.Claims{UserID: user.ID, Name: user.Name, Role: user.Role}, h.Config.AccessTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	h.setRefreshCookie(w, refresh, h.Config.RefreshTokenTTL)
	api.Success(w, map[string]any{"token": token, "user": user}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if actor, ok := middleware.GetActor(r.Context()); ok {
		if cookie, err := r.Cookie(refreshCookie); err == nil && cookie.Value != "" {
			if err := h.Store.RevokeSession(r.Context(), actor.ID, auth.HashToken(cookie.Value)); err != nil {
				slog.Warn("logout session revoke failed", "userId", actor.ID, "err", err)
			}
		}
	}
	h.setRefreshCookie(w, "", -time.Hour)
	api.Success(w, map[string]string{"message": "Logged out successfully"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	user, err := h.Store.GetUser(r.Context(), actor.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	if user == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "User not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	name := strings.TrimSpace(payload.Name)
	email := strings.TrimSpace(payload.Email)
	if name == "" || email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "Name, email and password are required", middleware.GetRequestID(r.Context()))
		return
	}
	role := payload.Role
	if role == "" {
		role = auth.RoleEmployee
	}
	if role != auth.RoleAdmin && role != auth.RoleSupervisor && role != auth.RoleEmployee {
		api.Fail(w, http.StatusBadRequest, "validation_error", "Invalid role", middleware.GetRequestID(r.Context()))
		return
	}

	existing, _, err := h.Store.FindUserByEmail(r.Context(), email)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	if existing != nil {
		api.Fail(w, http.StatusConflict, "conflict", "User with this email already exists", middleware.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	user, err := h.Store.CreateUser(r.Context(), name, email, hash, role)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    value,
		Path:     "/api/v1/auth",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.Config.Environment == "production",
		SameSite: http.SameSiteStrictMode,
	})
}
