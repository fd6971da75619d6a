package services

import (
	"context"
	"fmt"

	"timeline/config"
	"timeline/db"
	"timeline/models"
)

const (
	DEFAULT_PAGE_SIZE = 7   // Размер страницы ленты по умолчанию
	MAX_PAGE_SIZE     = 100 // Жесткий потолок размера страницы
)

type FeedService struct{}

func NewFeedService() *FeedService {
	return &FeedService{}
}

func pageLimits() (int, int) {
	pageSize, maxSize := DEFAULT_PAGE_SIZE, MAX_PAGE_SIZE
	if config.AppConfig != nil {
		pageSize = config.AppConfig.Feed.PageSize
		maxSize = config.AppConfig.Feed.MaxPageSize
	}
	return pageSize, maxSize
}

// FetchPage возвращает одну страницу представления ленты начиная строго после
// cursor (или с начала, если курсор не передан).
//
// Твиты упорядочены по (created_at DESC, id DESC). Сортировка только по
// created_at небезопасна: конкурентные вставки могут получить одинаковый
// timestamp, и без тай-брейка по id строки дублировались бы или терялись
// между страницами. Запрашивается limit+1 строк: лишняя строка говорит,
// что дальше есть данные, и не требует отдельного count-запроса.
func (fs *FeedService) FetchPage(ctx context.Context, sel models.ViewSelector, cursor *Cursor, limit int, viewerID *int64) (*models.FeedPage, error) {
	pageSize, maxSize := pageLimits()
	if limit <= 0 || limit > maxSize {
		limit = pageSize
	}

	// Лента подписок без известного viewer закрывается наглухо:
	// пустая страница, а не "все твиты"
	if sel.Kind == models.ViewFollowing && sel.UserID <= 0 {
		return &models.FeedPage{Tweets: []models.FeedTweet{}}, nil
	}

	selectCols := `t.id, t.user_id, u.nickname AS user_name, t.content, t.created_at,
		(SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id) AS like_count`
	selectArgs := make([]interface{}, 0, 1)

	// liked_by_me считается только для авторизованного viewer,
	// анонимный запрос всегда получает false
	if viewerID != nil {
		selectCols += `,
		EXISTS(SELECT 1 FROM likes lm WHERE lm.tweet_id = t.id AND lm.user_id = ?) AS liked_by_me`
		selectArgs = append(selectArgs, *viewerID)
	}

	query := db.GetReadOnlyDB(ctx).
		Table("tweets t").
		Select(selectCols, selectArgs...).
		Joins(`JOIN users u ON u.id = t.user_id`)

	switch sel.Kind {
	case models.ViewFollowing:
		query = query.Joins(`JOIN follows f ON f.followee_id = t.user_id AND f.follower_id = ?`, sel.UserID)
	case models.ViewAuthor:
		query = query.Where("t.user_id = ?", sel.UserID)
	}

	if cursor != nil {
		query = query.Where(
			"(t.created_at < ?) OR (t.created_at = ? AND t.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var tweets []models.FeedTweet
	err := query.
		Order("t.created_at DESC, t.id DESC").
		Limit(limit + 1).
		Scan(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}

	page := &models.FeedPage{Tweets: tweets}
	if len(tweets) > limit {
		// Лишняя строка отбрасывается, курсор строится по последней оставшейся
		page.Tweets = tweets[:limit]
		last := page.Tweets[len(page.Tweets)-1]
		page.NextCursor = EncodeCursor(CursorFromTweet(last))
		page.HasMore = true
	}
	if page.Tweets == nil {
		page.Tweets = []models.FeedTweet{}
	}

	return page, nil
}
