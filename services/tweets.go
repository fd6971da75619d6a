package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"timeline/db"
	"timeline/models"
)

type TweetService struct{}

func NewTweetService() *TweetService {
	return &TweetService{}
}

// CreateTweet сохраняет новый твит и асинхронно уведомляет подписчиков.
// Контент после создания не меняется.
func (ts *TweetService) CreateTweet(ctx context.Context, userID int64, content string) (*models.Tweet, error) {
	// created_at всегда в UTC: порядок ленты сравнивает timestamp напрямую,
	// смешение часовых поясов ломало бы keyset-предикат
	now := time.Now().UTC()
	tweet := &models.Tweet{
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := db.GetWriteDB(ctx).Create(tweet).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tweet: %w", err)
	}

	// Список получателей читается еще в рамках запроса, сама рассылка
	// уходит в фон - ответ клиенту ее не ждет
	var followerIDs []int64
	err = db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", tweet.UserID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		log.Printf("ERROR: failed to get followers for user %d: %v", tweet.UserID, err)
		followerIDs = nil
	}

	go ts.notifyTweetCreated(context.Background(), tweet, followerIDs)

	return tweet, nil
}

// notifyTweetCreated помечает профиль автора устаревшим (хук инвалидации
// статических страниц) и публикует событие о новом твите каждому подписчику
// (RabbitMQ, при недоступности - напрямую через WebSocket)
func (ts *TweetService) notifyTweetCreated(ctx context.Context, tweet *models.Tweet, followerIDs []int64) {
	if RedisClient != nil {
		if err := MarkProfileStale(ctx, tweet.UserID); err != nil {
			log.Printf("WARN: failed to mark profile %d stale: %v", tweet.UserID, err)
		}
	}

	// Автор тоже получает событие о собственном твите
	recipients := append(followerIDs, tweet.UserID)
	for _, recipientID := range recipients {
		event := TweetEvent{
			UserID:    recipientID,
			TweetID:   tweet.ID,
			AuthorID:  tweet.UserID,
			Content:   tweet.Content,
			CreatedAt: tweet.CreatedAt,
		}
		if err := PublishTweetEvent(ctx, event); err != nil {
			ts.sendDirectWSEvent(event)
		}
	}
}

// sendDirectWSEvent отправляет событие напрямую через WebSocket
// (fallback, когда RabbitMQ недоступен)
func (ts *TweetService) sendDirectWSEvent(event TweetEvent) {
	payload, err := json.Marshal(struct {
		Event string `json:"event"`
		TweetEvent
	}{Event: "tweet_created", TweetEvent: event})
	if err != nil {
		log.Printf("ERROR: failed to marshal ws event: %v", err)
		return
	}
	GlobalWSConnManager.Send(event.UserID, payload)
}

// GetTweet возвращает твит по id
func (ts *TweetService) GetTweet(ctx context.Context, tweetID int64) (*models.Tweet, error) {
	var tweet models.Tweet
	err := db.GetReadOnlyDB(ctx).First(&tweet, tweetID).Error
	if err != nil {
		return nil, fmt.Errorf("tweet not found: %w", err)
	}
	return &tweet, nil
}
