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

type LikeService struct{}

func NewLikeService() *LikeService {
	return &LikeService{}
}

// Toggle переключает лайк пары (userID, tweetID) и возвращает addedLike:
// true - лайк поставлен, false - снят.
//
// Это строгий двухпозиционный переключатель, не счетчик: повторный вызов
// переворачивает состояние обратно, поэтому слепой ретрай недопустим.
// Два конкурентных Toggle могут оба прочитать "лайка нет", но вставка
// пройдет только у одного - второй получит нарушение уникального ключа,
// которое маппится в ErrConflictRetry.
func (ls *LikeService) Toggle(ctx context.Context, userID, tweetID int64) (bool, error) {
	var existing models.Like
	err := db.GetWriteDB(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := ls.addLike(ctx, userID, tweetID); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}

	if err := ls.removeLike(ctx, userID, tweetID); err != nil {
		return false, err
	}
	return false, nil
}

func (ls *LikeService) addLike(ctx context.Context, userID, tweetID int64) error {
	like := &models.Like{
		UserID:    userID,
		TweetID:   tweetID,
		CreatedAt: time.Now(),
	}
	err := db.GetWriteDB(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Проиграли гонку конкурентному лайку той же пары
		return ErrConflictRetry
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	return nil
}

func (ls *LikeService) removeLike(ctx context.Context, userID, tweetID int64) error {
	result := db.GetWriteDB(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&models.Like{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailure, result.Error)
	}
	if result.RowsAffected == 0 {
		// Строку успел удалить конкурентный toggle
		return ErrConflictRetry
	}
	return nil
}

// LikeCount возвращает текущее число лайков твита
func (ls *LikeService) LikeCount(ctx context.Context, tweetID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Like{}).
		Where("tweet_id = ?", tweetID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	return count, nil
}
