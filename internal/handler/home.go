package handler

import (
	"log"
	"net/http"

	"blogplatform/internal/httputil"
	"blogplatform/internal/model"
	"blogplatform/internal/service"
	"blogplatform/internal/session"
	"blogplatform/internal/transport/http/middleware"
)

// HomeHandler serves the home feed: friends' posts plus the recent block.
type HomeHandler struct {
	postService   *service.PostService
	friendService *service.FriendService
	sessions      session.Store
}

func NewHomeHandler(postService *service.PostService, friendService *service.FriendService, sessions session.Store) *HomeHandler {
	return &HomeHandler{
		postService:   postService,
		friendService: friendService,
		sessions:      sessions,
	}
}

// Home renders the home page view model.
// GET /
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		// RequireLogin fronts this route; reaching here without a user is a bug.
		httputil.WriteInternalError(w, "Missing session user")
		return
	}

	friendIDs, err := h.friendService.FriendIDs(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Home handler: list friend ids: %v", err)
		httputil.WriteInternalError(w, "Failed to load feed")
		return
	}

	friendsPosts, err := h.postService.ListByAuthors(r.Context(), friendIDs)
	if err != nil {
		log.Printf("[ERROR] Home handler: friends posts: %v", err)
		httputil.WriteInternalError(w, "Failed to load feed")
		return
	}

	popularPosts, err := h.postService.ListRecent(r.Context(), service.RecentPostLimit)
	if err != nil {
		log.Printf("[ERROR] Home handler: recent posts: %v", err)
		httputil.WriteInternalError(w, "Failed to load feed")
		return
	}

	if friendsPosts == nil {
		friendsPosts = []model.Post{}
	}
	if popularPosts == nil {
		popularPosts = []model.Post{}
	}

	httputil.WriteJSON(w, http.StatusOK, model.HomeView{
		FriendsPosts: friendsPosts,
		PopularPosts: popularPosts,
		Flashes:      popFlashes(r.Context(), h.sessions),
	})
}
