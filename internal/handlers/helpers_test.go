package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"microblog-backend/internal/middleware"
	"microblog-backend/internal/models"
	"microblog-backend/internal/repository"
	"microblog-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// Compact in-memory stores backing the real services under test.

type memUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*models.User)}
}

func (m *memUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memFollowStore struct {
	edges map[[2]int64]bool
}

func newMemFollowStore() *memFollowStore {
	return &memFollowStore{edges: make(map[[2]int64]bool)}
}

func (m *memFollowStore) Exists(_ context.Context, a, b int64) (bool, error) {
	return m.edges[[2]int64{a, b}], nil
}

func (m *memFollowStore) Create(_ context.Context, a, b int64) error {
	if m.edges[[2]int64{a, b}] {
		return repository.ErrDuplicate
	}
	m.edges[[2]int64{a, b}] = true
	return nil
}

func (m *memFollowStore) Delete(_ context.Context, a, b int64) error {
	if !m.edges[[2]int64{a, b}] {
		return repository.ErrNotFound
	}
	delete(m.edges, [2]int64{a, b})
	return nil
}

type memTweetStore struct {
	nextID  int64
	tweets  []*models.FeedTweet
	follows *memFollowStore
}

func (m *memTweetStore) CreateWithAttachments(_ context.Context, tweet *models.Tweet, fileURLs []string) error {
	m.nextID++
	tweet.ID = m.nextID
	tweet.CreatedAt = time.Unix(m.nextID, 0)
	urls := []string{}
	urls = append(urls, fileURLs...)
	m.tweets = append(m.tweets, &models.FeedTweet{Tweet: *tweet, FilesURLs: urls})
	return nil
}

func (m *memTweetStore) visible(viewerID int64) []*models.FeedTweet {
	var out []*models.FeedTweet
	for _, t := range m.tweets {
		if t.AuthorID != viewerID && m.follows.edges[[2]int64{viewerID, t.AuthorID}] {
			out = append(out, t)
		}
	}
	return out
}

func (m *memTweetStore) FeedPage(_ context.Context, viewerID int64, limit, offset int) ([]*models.FeedTweet, error) {
	visible := m.visible(viewerID)
	var page []*models.FeedTweet
	for i := len(visible) - 1 - offset; i >= 0 && len(page) < limit; i-- {
		page = append(page, visible[i])
	}
	return page, nil
}

func (m *memTweetStore) FeedCount(_ context.Context, viewerID int64) (int, error) {
	return len(m.visible(viewerID)), nil
}

// testEnv wires real services over the in-memory stores and routes matching
// the server's router. Protected routes run behind an identity-injecting
// middleware instead of the token check, which is covered by the middleware
// tests.
type testEnv struct {
	router *chi.Mux
	users  *memUserStore
	tweets *memTweetStore
	actor  *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserStore()
	follows := newMemFollowStore()
	tweets := &memTweetStore{follows: follows}

	actor := &models.User{Name: "Alice Doe", Username: "alice", Email: "alice@example.com", Password: "x"}
	target := &models.User{Name: "Bob Doe", Username: "bob", Email: "bob@example.com", Password: "x"}
	for _, u := range []*models.User{actor, target} {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	userService := services.NewUserService(users, "test-secret")
	followService := services.NewFollowService(follows, users)
	tweetService := services.NewTweetService(tweets)

	userHandler := NewUserHandler(userService, followService)
	tweetHandler := NewTweetHandler(tweetService, nil)

	actorPublic := actor.Public()
	injectActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), &actorPublic)))
		})
	}

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(injectActor)
			r.Post("/follow/{id}", userHandler.Follow)
			r.Delete("/unfollow/{id}", userHandler.Unfollow)
		})
	})
	r.Route("/tweets", func(r chi.Router) {
		r.Use(injectActor)
		r.Get("/{page}", tweetHandler.GetFeed)
		r.Post("/upload", tweetHandler.Upload)
		r.Post("/", tweetHandler.CreateTweet)
	})

	return &testEnv{router: r, users: users, tweets: tweets, actor: actor}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, rec.Code, rec.Body.String())
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
}
