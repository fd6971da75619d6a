package models

import "time"

// Follow - подписка follower_id на followee_id. Односторонняя связь,
// в отличие от дружбы: лента "только подписки" фильтруется по follower_id.
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FolloweeID int64     `gorm:"primaryKey;autoIncrement:false;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
