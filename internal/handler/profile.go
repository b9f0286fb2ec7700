package handler

import (
	"errors"
	"log"
	"net/http"

	"blogplatform/internal/httputil"
	"blogplatform/internal/model"
	"blogplatform/internal/service"
	"blogplatform/internal/session"
	"blogplatform/internal/transport/http/middleware"
)

// ProfileHandler serves the current user's profile and the add-post form.
type ProfileHandler struct {
	userService   *service.UserService
	postService   *service.PostService
	friendService *service.FriendService
	sessions      session.Store
}

func NewProfileHandler(
	userService *service.UserService,
	postService *service.PostService,
	friendService *service.FriendService,
	sessions session.Store,
) *ProfileHandler {
	return &ProfileHandler{
		userService:   userService,
		postService:   postService,
		friendService: friendService,
		sessions:      sessions,
	}
}

// Profile renders the profile page: the user's own posts and friends.
// GET /profile
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteInternalError(w, "Missing session user")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] Profile handler: get user: %v", err)
		httputil.WriteInternalError(w, "Failed to load profile")
		return
	}

	posts, err := h.postService.ListByAuthor(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Profile handler: list posts: %v", err)
		httputil.WriteInternalError(w, "Failed to load profile")
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Profile handler: list friends: %v", err)
		httputil.WriteInternalError(w, "Failed to load profile")
		return
	}

	if posts == nil {
		posts = []model.Post{}
	}
	if friends == nil {
		friends = []model.UserSummary{}
	}

	httputil.WriteJSON(w, http.StatusOK, model.ProfileView{
		User:    user,
		Posts:   posts,
		Friends: friends,
		Flashes: popFlashes(r.Context(), h.sessions),
	})
}

// AddPostPage renders the add-post page view model.
// GET /profile/posts/add
func (h *ProfileHandler) AddPostPage(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"flashes": popFlashes(r.Context(), h.sessions),
	})
}

// AddPost handles the add-post form for the current user.
// POST /profile/posts/add
func (h *ProfileHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteInternalError(w, "Missing session user")
		return
	}

	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.CreatePostRequest{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	_, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrEmptyField) {
			addFlash(r.Context(), h.sessions, model.FlashDanger, "Title and content are required")
			httputil.Redirect(w, r, "/profile/posts/add")
			return
		}
		log.Printf("[ERROR] AddPost handler: %v", err)
		httputil.WriteInternalError(w, "Failed to add post")
		return
	}

	addFlash(r.Context(), h.sessions, model.FlashSuccess, "Post added successfully.")
	httputil.Redirect(w, r, "/profile")
}
