package http

import (
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"blogplatform/internal/handler"
	"blogplatform/internal/model"
	"blogplatform/internal/repository"
	"blogplatform/internal/service"
	"blogplatform/internal/session"
)

// ============================================================================
// In-memory fakes
//
// The application context is explicitly constructed (no globals), so the
// whole HTTP surface can be exercised with in-memory stores per test run.
// ============================================================================

type memSessionStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]int64
	flashes map[string][]model.Flash
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		users:   make(map[string]int64),
		flashes: make(map[string][]model.Flash),
	}
}

func (s *memSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	token := fmt.Sprintf("tok-%d", s.seq)
	s.users[token] = userID
	return token, nil
}

func (s *memSessionStore) UserID(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.users[token]
	if !ok {
		return 0, model.ErrSessionNotFound
	}
	return id, nil
}

func (s *memSessionStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, token)
	delete(s.flashes, token)
	return nil
}

func (s *memSessionStore) AddFlash(ctx context.Context, token string, flash model.Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[token]; !ok {
		return model.ErrSessionNotFound
	}
	s.flashes[token] = append(s.flashes[token], flash)
	return nil
}

func (s *memSessionStore) PopFlashes(ctx context.Context, token string) ([]model.Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flashes := s.flashes[token]
	delete(s.flashes, token)
	return flashes, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*model.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return model.ErrEmailExists
		}
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) SearchByName(ctx context.Context, query string, excludeID int64) ([]model.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []model.UserSummary
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			results = append(results, model.UserSummary{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memPostRepo struct {
	mu    sync.Mutex
	seq   int64
	posts []model.Post
}

func (r *memPostRepo) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	post.ID = r.seq
	post.CreatedAt = time.Now()
	r.posts = append(r.posts, *post)
	return nil
}

func (r *memPostRepo) ListByAuthor(ctx context.Context, userID int64) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memPostRepo) ListByAuthors(ctx context.Context, userIDs []int64) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	authors := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		authors[id] = true
	}
	var result []model.Post
	for _, p := range r.posts {
		if authors[p.UserID] {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memPostRepo) ListRecent(ctx context.Context, limit int) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.Post, len(r.posts))
	copy(result, r.posts)
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type memFriendshipRepo struct {
	mu    sync.Mutex
	users *memUserRepo
	edges map[int64][]int64
}

func newMemFriendshipRepo(users *memUserRepo) *memFriendshipRepo {
	return &memFriendshipRepo{users: users, edges: make(map[int64][]int64)}
}

func (r *memFriendshipRepo) Create(ctx context.Context, userID, friendID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.edges[userID] {
		if id == friendID {
			return false, nil
		}
	}
	r.edges[userID] = append(r.edges[userID], friendID)
	return true, nil
}

func (r *memFriendshipRepo) ListFriends(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	r.mu.Lock()
	ids := append([]int64(nil), r.edges[userID]...)
	r.mu.Unlock()

	var friends []model.UserSummary
	for _, id := range ids {
		u, err := r.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		friends = append(friends, model.UserSummary{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture})
	}
	return friends, nil
}

func (r *memFriendshipRepo) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.edges[userID]...), nil
}

// ============================================================================
// Test application
// ============================================================================

type testApp struct {
	server   *httptest.Server
	client   *stdhttp.Client
	users    *memUserRepo
	posts    *memPostRepo
	sessions *memSessionStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := newMemUserRepo()
	posts := &memPostRepo{}
	friendships := newMemFriendshipRepo(users)
	sessions := newMemSessionStore()

	userService := service.NewUserService(users, "default.jpg")
	postService := service.NewPostService(posts)
	friendService := service.NewFriendService(friendships, users)

	maxAge := time.Hour
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, sessions, maxAge),
		HomeHandler:    handler.NewHomeHandler(postService, friendService, sessions),
		ProfileHandler: handler.NewProfileHandler(userService, postService, friendService, sessions),
		FriendHandler:  handler.NewFriendHandler(userService, friendService, sessions),
		Sessions:       sessions,
		SessionMaxAge:  maxAge,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &stdhttp.Client{
		Jar: jar,
		// Assert on redirects instead of following them
		CheckRedirect: func(req *stdhttp.Request, via []*stdhttp.Request) error {
			return stdhttp.ErrUseLastResponse
		},
	}

	return &testApp{
		server:   server,
		client:   client,
		users:    users,
		posts:    posts,
		sessions: sessions,
	}
}

func (a *testApp) get(t *testing.T, path string) *stdhttp.Response {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *stdhttp.Response {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (a *testApp) register(t *testing.T, name, email, password string) {
	t.Helper()
	resp := a.postForm(t, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, stdhttp.StatusSeeOther)
	}
}

func (a *testApp) login(t *testing.T, email, password string) {
	t.Helper()
	resp := a.postForm(t, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("login status = %d location = %q, want 303 to /", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func decodeJSON[T any](t *testing.T, resp *stdhttp.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// ============================================================================
// Tests
// ============================================================================

func TestHome_RedirectsWhenLoggedOut(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/")
	resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, stdhttp.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}

	// The guard queued an informational flash for the login page
	view := decodeJSON[struct {
		Flashes []model.Flash `json:"flashes"`
	}](t, app.get(t, "/login"))
	if len(view.Flashes) != 1 || view.Flashes[0].Message != "Please login to see the main page." {
		t.Errorf("flashes = %v, want login prompt", view.Flashes)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "New User", "new@example.com", "password123")
	app.login(t, "new@example.com", "password123")

	resp := app.get(t, "/")
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("home after login status = %d, want 200", resp.StatusCode)
	}
	view := decodeJSON[model.HomeView](t, resp)
	if len(view.Flashes) != 1 || view.Flashes[0].Message != "Login completed successfully." {
		t.Errorf("flashes = %v, want login success message", view.Flashes)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "First", "dup@example.com", "password123")

	resp := app.postForm(t, "/register", url.Values{
		"name":     {"Second"},
		"email":    {"dup@example.com"},
		"password": {"otherpassword"},
	})
	resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, stdhttp.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/register" {
		t.Errorf("location = %q, want /register", loc)
	}

	// The User set must be unchanged
	if n := app.users.count(); n != 1 {
		t.Errorf("user count = %d, want 1", n)
	}

	view := decodeJSON[struct {
		Flashes []model.Flash `json:"flashes"`
	}](t, app.get(t, "/register"))
	if len(view.Flashes) != 1 || view.Flashes[0].Message != "Email already registered" {
		t.Errorf("flashes = %v, want duplicate email message", view.Flashes)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "User", "user@example.com", "rightpassword")

	resp := app.postForm(t, "/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"wrongpassword"},
	})
	resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, stdhttp.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}

	// No session was established
	resp = app.get(t, "/")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusFound {
		t.Errorf("home status = %d, want redirect while unauthenticated", resp.StatusCode)
	}
}

func TestAddPost(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Author", "author@example.com", "password123")
	app.login(t, "author@example.com", "password123")

	resp := app.postForm(t, "/profile/posts/add", url.Values{
		"title":   {"Test Post"},
		"content": {"This is a test post content."},
	})
	resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusSeeOther || resp.Header.Get("Location") != "/profile" {
		t.Fatalf("status = %d location = %q, want 303 to /profile", resp.StatusCode, resp.Header.Get("Location"))
	}

	posts, _ := app.posts.ListByAuthor(context.Background(), 1)
	if len(posts) != 1 {
		t.Fatalf("post count = %d, want exactly 1", len(posts))
	}
	if posts[0].Title != "Test Post" || posts[0].Content != "This is a test post content." {
		t.Errorf("post = %+v, want submitted title and content", posts[0])
	}

	view := decodeJSON[model.ProfileView](t, app.get(t, "/profile"))
	if len(view.Posts) != 1 || view.Posts[0].Title != "Test Post" {
		t.Errorf("profile posts = %v, want the new post", view.Posts)
	}
}

func TestAddPost_EmptyFields(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Author", "author@example.com", "password123")
	app.login(t, "author@example.com", "password123")

	resp := app.postForm(t, "/profile/posts/add", url.Values{
		"title":   {""},
		"content": {"body without a title"},
	})
	resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusSeeOther || resp.Header.Get("Location") != "/profile/posts/add" {
		t.Errorf("status = %d location = %q, want 303 back to the form", resp.StatusCode, resp.Header.Get("Location"))
	}

	posts, _ := app.posts.ListByAuthor(context.Background(), 1)
	if len(posts) != 0 {
		t.Errorf("post count = %d, want 0 after rejected submission", len(posts))
	}
}

func TestAddFriend_SecondAddIsNoOp(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Alice", "alice@example.com", "password123")
	app.register(t, "Bob", "bob@example.com", "password123")
	app.login(t, "alice@example.com", "password123")

	// First add creates exactly one edge
	resp := app.get(t, "/profile/friends/add/2")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther || resp.Header.Get("Location") != "/profile" {
		t.Fatalf("status = %d location = %q, want 303 to /profile", resp.StatusCode, resp.Header.Get("Location"))
	}

	view := decodeJSON[model.ProfileView](t, app.get(t, "/profile"))
	if len(view.Friends) != 1 || view.Friends[0].Name != "Bob" {
		t.Fatalf("friends = %v, want just Bob", view.Friends)
	}

	// Second add is a no-op, not an error
	resp = app.get(t, "/profile/friends/add/2")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther {
		t.Errorf("repeat add status = %d, want %d", resp.StatusCode, stdhttp.StatusSeeOther)
	}

	view = decodeJSON[model.ProfileView](t, app.get(t, "/profile"))
	if len(view.Friends) != 1 {
		t.Errorf("friend count after repeat add = %d, want 1", len(view.Friends))
	}
}

func TestAddFriend_UnknownUser(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Alice", "alice@example.com", "password123")
	app.login(t, "alice@example.com", "password123")

	resp := app.get(t, "/profile/friends/add/99")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther || resp.Header.Get("Location") != "/profile" {
		t.Errorf("status = %d location = %q, want 303 to /profile", resp.StatusCode, resp.Header.Get("Location"))
	}

	view := decodeJSON[model.ProfileView](t, app.get(t, "/profile"))
	if len(view.Flashes) != 1 || view.Flashes[0].Category != model.FlashDanger {
		t.Errorf("flashes = %v, want a danger message for unknown user", view.Flashes)
	}
}

func TestFriendSearch(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Alice", "alice@example.com", "password123")
	app.register(t, "Bob", "bob@example.com", "password123")
	app.register(t, "Bobby", "bobby@example.com", "password123")
	app.login(t, "alice@example.com", "password123")

	view := decodeJSON[model.SearchView](t, app.postForm(t, "/profile/friends/add", url.Values{
		"search_name": {"bob"},
	}))
	if len(view.PotentialFriends) != 2 {
		t.Fatalf("potential friends = %v, want Bob and Bobby", view.PotentialFriends)
	}

	// Empty query matches everyone but the searcher
	view = decodeJSON[model.SearchView](t, app.postForm(t, "/profile/friends/add", url.Values{
		"search_name": {""},
	}))
	if len(view.PotentialFriends) != 2 {
		t.Errorf("potential friends for empty query = %v, want all non-self users", view.PotentialFriends)
	}
	for _, u := range view.PotentialFriends {
		if u.Name == "Alice" {
			t.Error("search results must exclude the searching user")
		}
	}
}

func TestHomeFeed(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Alice", "alice@example.com", "password123")
	app.register(t, "Bob", "bob@example.com", "password123")
	app.register(t, "Carol", "carol@example.com", "password123")
	app.login(t, "alice@example.com", "password123")

	resp := app.get(t, "/profile/friends/add/2")
	resp.Body.Close()

	// Seed posts directly: one from the friend, seven from a stranger
	ctx := context.Background()
	if err := app.posts.Create(ctx, &model.Post{Title: "Bob's post", Content: "hello", UserID: 2}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 7; i++ {
		if err := app.posts.Create(ctx, &model.Post{Title: fmt.Sprintf("Carol %d", i), Content: "hi", UserID: 3}); err != nil {
			t.Fatal(err)
		}
	}

	view := decodeJSON[model.HomeView](t, app.get(t, "/"))

	if len(view.FriendsPosts) != 1 || view.FriendsPosts[0].Title != "Bob's post" {
		t.Errorf("friends posts = %v, want only Bob's post", view.FriendsPosts)
	}

	if len(view.PopularPosts) != service.RecentPostLimit {
		t.Fatalf("popular posts = %d, want %d most recent", len(view.PopularPosts), service.RecentPostLimit)
	}
	for i := 1; i < len(view.PopularPosts); i++ {
		if view.PopularPosts[i-1].ID < view.PopularPosts[i].ID {
			t.Errorf("popular posts not in descending order: %v", view.PopularPosts)
		}
	}
}

func TestLogout_Idempotent(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "User", "user@example.com", "password123")
	app.login(t, "user@example.com", "password123")

	resp := app.get(t, "/logout")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("logout status = %d location = %q, want 303 to /login", resp.StatusCode, resp.Header.Get("Location"))
	}

	// Session is gone
	resp = app.get(t, "/")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusFound {
		t.Errorf("home after logout status = %d, want redirect", resp.StatusCode)
	}

	// Logging out twice in a row is safe
	resp = app.get(t, "/logout")
	resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusSeeOther {
		t.Errorf("second logout status = %d, want %d", resp.StatusCode, stdhttp.StatusSeeOther)
	}
}

// Interface conformance checks for the fakes
var (
	_ session.Store                   = (*memSessionStore)(nil)
	_ repository.UserRepository       = (*memUserRepo)(nil)
	_ repository.PostRepository       = (*memPostRepo)(nil)
	_ repository.FriendshipRepository = (*memFriendshipRepo)(nil)
)
