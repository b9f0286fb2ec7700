package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blogplatform/internal/handler"
	"blogplatform/internal/httputil"
	"blogplatform/internal/model"
	"blogplatform/internal/session"
	sessionmw "blogplatform/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	HomeHandler    *handler.HomeHandler
	ProfileHandler *handler.ProfileHandler
	FriendHandler  *handler.FriendHandler
	Sessions       session.Store
	SessionMaxAge  time.Duration
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(sessionmw.SessionMiddleware(cfg.Sessions, cfg.SessionMaxAge))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Get("/register", cfg.AuthHandler.RegisterPage)
	r.Post("/register", cfg.AuthHandler.Register)
	r.Get("/login", cfg.AuthHandler.LoginPage)
	r.Post("/login", cfg.AuthHandler.Login)
	r.Get("/logout", cfg.AuthHandler.Logout)

	// Home feed - must be logged in
	r.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireLogin(cfg.Sessions, model.FlashInfo, "Please login to see the main page."))
		r.Get("/", cfg.HomeHandler.Home)
	})

	// Profile pages - must be logged in
	r.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireLogin(cfg.Sessions, model.FlashDanger, "Please log in first"))
		r.Get("/profile", cfg.ProfileHandler.Profile)
		r.Get("/profile/posts/add", cfg.ProfileHandler.AddPostPage)
		r.Post("/profile/posts/add", cfg.ProfileHandler.AddPost)
	})

	// Friend search and add - must be logged in
	r.Group(func(r chi.Router) {
		r.Use(sessionmw.RequireLogin(cfg.Sessions, model.FlashInfo, "Please login to add a friend."))
		r.Get("/profile/friends/add", cfg.FriendHandler.SearchPage)
		r.Post("/profile/friends/add", cfg.FriendHandler.Search)
		r.Get("/profile/friends/add/{friendID}", cfg.FriendHandler.AddByID)
	})

	return r
}
