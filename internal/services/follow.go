package services

import (
	"context"
	"errors"
	"fmt"

	"microblog-backend/internal/apperrors"
	"microblog-backend/internal/repository"
)

// FollowStore is the follow-edge persistence surface
type FollowStore interface {
	Exists(ctx context.Context, followingUserID, followedUserID int64) (bool, error)
	Create(ctx context.Context, followingUserID, followedUserID int64) error
	Delete(ctx context.Context, followingUserID, followedUserID int64) error
}

// FollowService enforces the follow/unfollow invariants over the social graph
type FollowService struct {
	follows FollowStore
	users   UserStore
}

// NewFollowService creates a new follow service
func NewFollowService(follows FollowStore, users UserStore) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
	}
}

// Follow creates the edge actor→target. Self-follows and duplicate edges are
// Conflicts; a missing target is NotFound.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID int64) error {
	if err := s.checkTarget(ctx, actorID, targetID); err != nil {
		return err
	}

	exists, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow: %w", err)
	}
	if exists {
		return apperrors.Conflict("already follow this user")
	}

	if err := s.follows.Create(ctx, actorID, targetID); err != nil {
		// Concurrent duplicate inserts lose to the unique constraint and
		// surface as the same Conflict.
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.Conflict("already follow this user")
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Unfollow removes the edge actor→target. Unfollowing someone not followed
// is a Conflict, symmetric with Follow.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID int64) error {
	if err := s.checkTarget(ctx, actorID, targetID); err != nil {
		return err
	}

	exists, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow: %w", err)
	}
	if !exists {
		return apperrors.Conflict("already do not follow this user")
	}

	if err := s.follows.Delete(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Conflict("already do not follow this user")
		}
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (s *FollowService) checkTarget(ctx context.Context, actorID, targetID int64) error {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User does not exist")
		}
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if actorID == targetID {
		return apperrors.Conflict("cannot follow yourself")
	}
	return nil
}
