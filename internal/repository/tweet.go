package repository

import (
	"context"
	"fmt"

	"microblog-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TweetRepository handles database operations for tweets and attachments
type TweetRepository struct {
	db *pgxpool.Pool
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{db: db}
}

// CreateWithAttachments inserts a tweet and all of its attachments in a
// single transaction, so a partial attachment set can never be observed.
func (r *TweetRepository) CreateWithAttachments(ctx context.Context, tweet *models.Tweet, fileURLs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO posts (content, author_id) VALUES ($1, $2) RETURNING id, created_at`,
		tweet.Content, tweet.AuthorID,
	).Scan(&tweet.ID, &tweet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	for _, url := range fileURLs {
		_, err := tx.Exec(ctx,
			`INSERT INTO attachments (post_id, url) VALUES ($1, $2)`,
			tweet.ID, url,
		)
		if err != nil {
			return fmt.Errorf("failed to create attachment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tweet: %w", err)
	}
	return nil
}

// FeedPage retrieves one page of tweets authored by users the viewer
// follows, newest first, each enriched with its attachment URLs. The
// viewer's own tweets are excluded even if a self-edge existed.
func (r *TweetRepository) FeedPage(ctx context.Context, viewerID int64, limit, offset int) ([]*models.FeedTweet, error) {
	query := `
		SELECT p.id, p.content, p.author_id, p.created_at
		FROM posts p
		INNER JOIN follows f ON f.followed_user_id = p.author_id
		WHERE f.following_user_id = $1 AND p.author_id <> $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	defer rows.Close()

	var tweets []*models.FeedTweet
	var ids []int64
	for rows.Next() {
		tweet := &models.FeedTweet{FilesURLs: []string{}}
		err := rows.Scan(&tweet.ID, &tweet.Content, &tweet.AuthorID, &tweet.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, tweet)
		ids = append(ids, tweet.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed: %w", err)
	}

	if len(tweets) == 0 {
		return tweets, nil
	}

	urls, err := r.attachmentURLs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, tweet := range tweets {
		if u, ok := urls[tweet.ID]; ok {
			tweet.FilesURLs = u
		}
	}
	return tweets, nil
}

// FeedCount counts all tweets matching the viewer's feed query
func (r *TweetRepository) FeedCount(ctx context.Context, viewerID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM posts p
		INNER JOIN follows f ON f.followed_user_id = p.author_id
		WHERE f.following_user_id = $1 AND p.author_id <> $1
	`
	var total int
	if err := r.db.QueryRow(ctx, query, viewerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count feed: %w", err)
	}
	return total, nil
}

func (r *TweetRepository) attachmentURLs(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	query := `
		SELECT post_id, url
		FROM attachments
		WHERE post_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	urls := make(map[int64][]string)
	for rows.Next() {
		var postID int64
		var url string
		if err := rows.Scan(&postID, &url); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		urls[postID] = append(urls[postID], url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}
	return urls, nil
}
