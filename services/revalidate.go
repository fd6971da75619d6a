package services

import (
	"context"
	"fmt"
	"time"
)

const (
	STALE_PROFILE_PREFIX = "stale_profile:" // Префикс ключей устаревших профилей
	STALE_PROFILE_TTL    = 24 * time.Hour
)

// Хук инвалидации статических страниц профиля. После создания твита
// закешированная страница профиля автора содержит устаревшее число твитов;
// само ядро ее не перестраивает - помечает ключ в Redis, а внешний
// коллаборатор по метке запускает свежую выборку и снимает ее.

func staleProfileKey(userID int64) string {
	return fmt.Sprintf("%s%d", STALE_PROFILE_PREFIX, userID)
}

// MarkProfileStale помечает страницу профиля пользователя устаревшей
func MarkProfileStale(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}
	return RedisClient.Set(ctx, staleProfileKey(userID), 1, STALE_PROFILE_TTL).Err()
}

// IsProfileStale проверяет метку устаревания профиля
func IsProfileStale(ctx context.Context, userID int64) (bool, error) {
	if RedisClient == nil {
		return false, fmt.Errorf("redis not available")
	}
	n, err := RedisClient.Exists(ctx, staleProfileKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearProfileStale снимает метку после перестройки страницы
func ClearProfileStale(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}
	return RedisClient.Del(ctx, staleProfileKey(userID)).Err()
}
