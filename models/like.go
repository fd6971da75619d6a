package models

import "time"

// Like - факт лайка твита пользователем. Составной первичный ключ
// (user_id, tweet_id) - единственный источник правды о состоянии лайка:
// наличие строки = "лайкнуто", отсутствие = "не лайкнуто". Уникальность
// ключа защищает от двойной вставки при конкурентных toggle-запросах.
type Like struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TweetID   int64     `gorm:"primaryKey;autoIncrement:false;index" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
