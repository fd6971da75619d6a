package models

import "time"

// Tweet - модель твита пользователя. Контент неизменяемый после создания,
// счетчик лайков хранится отдельно в таблице likes.
type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tweet) TableName() string {
	return "tweets"
}

// FeedTweet - структура для ленты, обогащенная данными автора и лайками
type FeedTweet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	LikeCount int64     `json:"like_count"`
	LikedByMe bool      `json:"liked_by_me"`
}

// FeedPage - одна страница ленты. Пустой NextCursor означает, что на момент
// запроса лента закончилась (но новые твиты могут появиться позже).
type FeedPage struct {
	Tweets     []FeedTweet `json:"tweets"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}
