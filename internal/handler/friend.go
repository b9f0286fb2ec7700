package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogplatform/internal/httputil"
	"blogplatform/internal/model"
	"blogplatform/internal/service"
	"blogplatform/internal/session"
	"blogplatform/internal/transport/http/middleware"
)

// FriendHandler serves friend search and the add-friend action.
type FriendHandler struct {
	userService   *service.UserService
	friendService *service.FriendService
	sessions      session.Store
}

func NewFriendHandler(userService *service.UserService, friendService *service.FriendService, sessions session.Store) *FriendHandler {
	return &FriendHandler{
		userService:   userService,
		friendService: friendService,
		sessions:      sessions,
	}
}

// SearchPage renders the friend-search page with no results yet.
// GET /profile/friends/add
func (h *FriendHandler) SearchPage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.SearchView{
		User:             user,
		PotentialFriends: []model.UserSummary{},
		Flashes:          popFlashes(r.Context(), h.sessions),
	})
}

// Search handles the search form: case-insensitive name substring match,
// excluding the searching user. An empty query matches everyone else.
// POST /profile/friends/add
func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}
	searchName := r.PostFormValue("search_name")

	potentialFriends, err := h.friendService.Search(r.Context(), searchName, user.ID)
	if err != nil {
		log.Printf("[ERROR] Search handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}
	if potentialFriends == nil {
		potentialFriends = []model.UserSummary{}
	}

	httputil.WriteJSON(w, http.StatusOK, model.SearchView{
		User:             user,
		PotentialFriends: potentialFriends,
		Flashes:          popFlashes(r.Context(), h.sessions),
	})
}

// AddByID records the friend edge from the current user to {friendID}.
// Adding an existing friend is a no-op with an informational message.
// GET /profile/friends/add/{friendID}
func (h *FriendHandler) AddByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteInternalError(w, "Missing session user")
		return
	}

	friendIDStr := chi.URLParam(r, "friendID")
	friendID, err := strconv.ParseInt(friendIDStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid friend ID")
		return
	}

	friend, added, err := h.friendService.AddFriend(r.Context(), userID, friendID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			addFlash(r.Context(), h.sessions, model.FlashDanger, "User not found")
		case errors.Is(err, model.ErrCannotFriendSelf):
			addFlash(r.Context(), h.sessions, model.FlashDanger, "You cannot add yourself as a friend")
		default:
			log.Printf("[ERROR] AddByID handler: %v", err)
			httputil.WriteInternalError(w, "Failed to add friend")
			return
		}
		httputil.Redirect(w, r, "/profile")
		return
	}

	if added {
		addFlash(r.Context(), h.sessions, model.FlashSuccess, fmt.Sprintf("User %s added as a friend.", friend.Name))
	} else {
		addFlash(r.Context(), h.sessions, model.FlashInfo, fmt.Sprintf("User %s already your friend.", friend.Name))
	}

	httputil.Redirect(w, r, "/profile")
}

// currentUser loads the session user, writing the error response on failure.
func (h *FriendHandler) currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteInternalError(w, "Missing session user")
		return nil, false
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return nil, false
		}
		log.Printf("[ERROR] currentUser: %v", err)
		httputil.WriteInternalError(w, "Failed to load user")
		return nil, false
	}

	return user, true
}
