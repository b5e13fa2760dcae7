package services

import (
	"context"
	"fmt"
	"math"

	"microblog-backend/internal/models"
)

const (
	pageSize = 10

	// maxPage keeps (page-1)*pageSize from overflowing into a negative
	// offset. Pages this deep are empty anyway.
	maxPage = math.MaxInt / pageSize
)

// TweetStore is the tweet/attachment persistence surface
type TweetStore interface {
	CreateWithAttachments(ctx context.Context, tweet *models.Tweet, fileURLs []string) error
	FeedPage(ctx context.Context, viewerID int64, limit, offset int) ([]*models.FeedTweet, error)
	FeedCount(ctx context.Context, viewerID int64) (int, error)
}

// Feed is one page of a viewer's feed plus the page count for the whole
// result set.
type Feed struct {
	Tweets     []*models.FeedTweet `json:"tweets"`
	TotalPages int                 `json:"totalPages"`
}

// TweetService computes paginated feeds and authors tweets
type TweetService struct {
	tweets TweetStore
}

// NewTweetService creates a new tweet service
func NewTweetService(tweets TweetStore) *TweetService {
	return &TweetService{tweets: tweets}
}

// GetFeed returns page (1-indexed) of the tweets authored by users the
// viewer follows, newest first, 10 per page. TotalPages always reflects the
// full result set, so a page past the end yields an empty list with the true
// page count.
func (s *TweetService) GetFeed(ctx context.Context, viewerID int64, page int) (*Feed, error) {
	if page > maxPage {
		page = maxPage
	}
	offset := (page - 1) * pageSize

	tweets, err := s.tweets.FeedPage(ctx, viewerID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed page: %w", err)
	}
	if tweets == nil {
		tweets = []*models.FeedTweet{}
	}

	total, err := s.tweets.FeedCount(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count feed: %w", err)
	}

	return &Feed{
		Tweets:     tweets,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// CreateTweet creates a tweet and its attachments in one atomic store
// operation.
func (s *TweetService) CreateTweet(ctx context.Context, authorID int64, content string, fileURLs []string) error {
	tweet := &models.Tweet{
		Content:  content,
		AuthorID: authorID,
	}
	if err := s.tweets.CreateWithAttachments(ctx, tweet, fileURLs); err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}
	return nil
}
