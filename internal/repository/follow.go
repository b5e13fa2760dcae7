package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowRepository handles database operations for follow edges
type FollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{db: db}
}

// Exists checks whether a follow edge exists for the ordered pair
func (r *FollowRepository) Exists(ctx context.Context, followingUserID, followedUserID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM follows
			WHERE following_user_id = $1 AND followed_user_id = $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, followingUserID, followedUserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// Create inserts a follow edge. The unique constraint on the ordered pair is
// the source of truth under concurrent requests; a violation is reported as
// ErrDuplicate.
func (r *FollowRepository) Create(ctx context.Context, followingUserID, followedUserID int64) error {
	query := `
		INSERT INTO follows (following_user_id, followed_user_id)
		VALUES ($1, $2)
	`
	_, err := r.db.Exec(ctx, query, followingUserID, followedUserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete removes a follow edge. Returns ErrNotFound when no edge existed.
func (r *FollowRepository) Delete(ctx context.Context, followingUserID, followedUserID int64) error {
	query := `
		DELETE FROM follows
		WHERE following_user_id = $1 AND followed_user_id = $2
	`
	result, err := r.db.Exec(ctx, query, followingUserID, followedUserID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
