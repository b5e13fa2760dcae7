package services

import (
	"context"
	"time"

	"microblog-backend/internal/models"
	"microblog-backend/internal/repository"
)

// In-memory stores standing in for the pgx repositories.

type mockUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[int64]*models.User)}
}

func (m *mockUserStore) Create(_ context.Context, user *models.User) error {
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

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type edge struct {
	following int64
	followed  int64
}

type mockFollowStore struct {
	edges map[edge]bool
}

func newMockFollowStore() *mockFollowStore {
	return &mockFollowStore{edges: make(map[edge]bool)}
}

func (m *mockFollowStore) Exists(_ context.Context, followingUserID, followedUserID int64) (bool, error) {
	return m.edges[edge{followingUserID, followedUserID}], nil
}

func (m *mockFollowStore) Create(_ context.Context, followingUserID, followedUserID int64) error {
	e := edge{followingUserID, followedUserID}
	if m.edges[e] {
		return repository.ErrDuplicate
	}
	m.edges[e] = true
	return nil
}

func (m *mockFollowStore) Delete(_ context.Context, followingUserID, followedUserID int64) error {
	e := edge{followingUserID, followedUserID}
	if !m.edges[e] {
		return repository.ErrNotFound
	}
	delete(m.edges, e)
	return nil
}

// mockTweetStore keeps tweets in insertion order and scopes feed reads to
// the follow edges held by the shared mockFollowStore, the same way the SQL
// join does.
type mockTweetStore struct {
	nextID  int64
	tweets  []*models.FeedTweet
	follows *mockFollowStore
}

func newMockTweetStore(follows *mockFollowStore) *mockTweetStore {
	return &mockTweetStore{follows: follows}
}

func (m *mockTweetStore) CreateWithAttachments(_ context.Context, tweet *models.Tweet, fileURLs []string) error {
	m.nextID++
	tweet.ID = m.nextID
	tweet.CreatedAt = time.Unix(m.nextID, 0)

	urls := []string{}
	urls = append(urls, fileURLs...)
	m.tweets = append(m.tweets, &models.FeedTweet{Tweet: *tweet, FilesURLs: urls})
	return nil
}

func (m *mockTweetStore) visible(viewerID int64) []*models.FeedTweet {
	var out []*models.FeedTweet
	for _, t := range m.tweets {
		if t.AuthorID == viewerID {
			continue
		}
		if m.follows.edges[edge{viewerID, t.AuthorID}] {
			out = append(out, t)
		}
	}
	return out
}

func (m *mockTweetStore) FeedPage(_ context.Context, viewerID int64, limit, offset int) ([]*models.FeedTweet, error) {
	// newest first
	visible := m.visible(viewerID)
	var page []*models.FeedTweet
	for i := len(visible) - 1 - offset; i >= 0 && len(page) < limit; i-- {
		page = append(page, visible[i])
	}
	return page, nil
}

func (m *mockTweetStore) FeedCount(_ context.Context, viewerID int64) (int, error) {
	return len(m.visible(viewerID)), nil
}
