package handler

import (
	"errors"
	"net/http"
	"time"

	"blogplatform/internal/httputil"
	"blogplatform/internal/model"
	"blogplatform/internal/service"
	"blogplatform/internal/session"
	"blogplatform/internal/transport/http/middleware"
)

// AuthHandler groups the register/login/logout endpoints and their dependencies.
type AuthHandler struct {
	userService   *service.UserService
	sessions      session.Store
	sessionMaxAge time.Duration
}

func NewAuthHandler(userService *service.UserService, sessions session.Store, sessionMaxAge time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		sessions:      sessions,
		sessionMaxAge: sessionMaxAge,
	}
}

// RegisterPage renders the registration page view model.
// GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"flashes": popFlashes(r.Context(), h.sessions),
	})
}

// Register handles the registration form.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.RegisterRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	_, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			addFlash(r.Context(), h.sessions, model.FlashDanger, "Email already registered")
		case errors.Is(err, model.ErrEmptyField):
			addFlash(r.Context(), h.sessions, model.FlashDanger, "Name, email and password are required")
		default:
			httputil.WriteInternalError(w, "Failed to register")
			return
		}
		httputil.Redirect(w, r, "/register")
		return
	}

	addFlash(r.Context(), h.sessions, model.FlashSuccess, "Registration was successful. Please login.")
	httputil.Redirect(w, r, "/login")
}

// LoginPage renders the login page view model.
// GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"flashes": popFlashes(r.Context(), h.sessions),
	})
}

// Login handles the login form: verifies credentials and rotates the session.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			addFlash(r.Context(), h.sessions, model.FlashDanger, "Invalid email or password")
			httputil.Redirect(w, r, "/login")
			return
		}
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	// Rotate: the anonymous session dies, a fresh one is bound to the user.
	if token, ok := middleware.GetSessionToken(r.Context()); ok {
		_ = h.sessions.Destroy(r.Context(), token)
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to establish session")
		return
	}
	middleware.SetSessionCookie(w, token, h.sessionMaxAge)

	// Flash is best effort; the login already succeeded.
	_ = h.sessions.AddFlash(r.Context(), token, model.Flash{
		Category: model.FlashSuccess,
		Message:  "Login completed successfully.",
	})

	httputil.Redirect(w, r, "/")
}

// Logout invalidates the session. Safe to call when already logged out.
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.GetSessionToken(r.Context()); ok {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			httputil.WriteInternalError(w, "Failed to logout")
			return
		}
	}

	// Hand the visitor a fresh anonymous session so the logout flash survives
	// the redirect.
	token, err := h.sessions.Create(r.Context(), 0)
	if err != nil {
		middleware.ClearSessionCookie(w)
		httputil.Redirect(w, r, "/login")
		return
	}
	middleware.SetSessionCookie(w, token, h.sessionMaxAge)
	_ = h.sessions.AddFlash(r.Context(), token, model.Flash{
		Category: model.FlashSuccess,
		Message:  "You are logged out",
	})

	httputil.Redirect(w, r, "/login")
}
