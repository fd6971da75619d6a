package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"timeline/db"
	"timeline/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

// setupTestDB поднимает чистую in-memory базу для теста.
// cache=shared обязателен: пул соединений gorm иначе получил бы
// по отдельной пустой базе на каждое соединение.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:feedtest_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	db.ORM = gormDB
}

func createTestUser(t *testing.T, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Nickname:  nickname,
		Name:      gofakeit.Name(),
		Password:  "x",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestTweet(t *testing.T, userID int64, content string, createdAt time.Time) *models.Tweet {
	t.Helper()
	tweet := &models.Tweet{
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.ORM.Create(tweet).Error)
	return tweet
}

func createTestLike(t *testing.T, userID, tweetID int64) {
	t.Helper()
	require.NoError(t, db.ORM.Create(&models.Like{
		UserID:    userID,
		TweetID:   tweetID,
		CreatedAt: time.Now(),
	}).Error)
}

func createTestFollow(t *testing.T, followerID, followeeID int64) {
	t.Helper()
	require.NoError(t, db.ORM.Create(&models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}).Error)
}
