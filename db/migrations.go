package db

import (
	"fmt"
	"timeline/models"

	"gorm.io/gorm"
)

// Migrate создает схему: пользователи, токены, твиты и связи лайков/подписок.
// Составные первичные ключи likes и follows создаются автомиграцией и служат
// ограничениями уникальности на уровне БД.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Migration{},
		&models.UserTokens{},
		&models.Tweet{},
		&models.Like{},
		&models.Follow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Индекс под keyset-пагинацию ленты (created_at DESC, id DESC)
	createIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_tweets_created_at_id ON tweets (created_at DESC, id DESC);
	`
	if err := db.Exec(createIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create feed index: %w", err)
	}

	return nil
}
