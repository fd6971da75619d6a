package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timeline/db"
	"timeline/models"

	"gorm.io/gorm"
)

type FollowService struct{}

func NewFollowService() *FollowService {
	return &FollowService{}
}

// Follow подписывает followerID на followeeID
func (fs *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return fmt.Errorf("cannot follow yourself")
	}

	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.User{}).
		Where("id = ?", followeeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	if count == 0 {
		return fmt.Errorf("user %d does not exist", followeeID)
	}

	follow := &models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}
	err = db.GetWriteDB(ctx).Create(follow).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Уже подписан - подписка идемпотентна
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	return nil
}

// Unfollow отписывает followerID от followeeID
func (fs *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	err := db.GetWriteDB(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	return nil
}

// IsFollowing проверяет подписку followerID на followeeID
func (fs *FollowService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	return count > 0, nil
}
