package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"timeline/db"
	"timeline/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string, salt []byte) string {
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash)
}

// Register создает пользователя с argon2-хешем пароля
func (us *UserService) Register(ctx context.Context, nickname, name, password string) (*models.User, error) {
	if nickname == "" || password == "" {
		return nil, errors.New("nickname and password are required")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	user := &models.User{
		Nickname:  nickname,
		Name:      name,
		Password:  hashPassword(password, salt),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := db.GetWriteDB(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errors.New("user already exists")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login проверяет пароль и выдает токен сессии
func (us *UserService) Login(ctx context.Context, nickname, password string) (string, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("nickname = ?", nickname).First(&user).Error
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	parts := strings.SplitN(user.Password, "$", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid credentials")
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if hashPassword(password, salt) != user.Password {
		return "", errors.New("invalid credentials")
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	userToken := &models.UserTokens{UserID: user.ID, Token: token}
	if err := db.GetWriteDB(ctx).Create(userToken).Error; err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Logout отзывает токен
func (us *UserService) Logout(ctx context.Context, token string) error {
	return db.GetWriteDB(ctx).Where("token = ?", token).Delete(&models.UserTokens{}).Error
}

// ResolveToken возвращает id пользователя по токену сессии
func (us *UserService) ResolveToken(ctx context.Context, token string) (int64, error) {
	var userToken models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&userToken).Error
	if err != nil {
		return 0, fmt.Errorf("%w: unknown token", ErrUnauthenticated)
	}
	return userToken.UserID, nil
}
