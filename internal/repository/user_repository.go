package repository

import (
	"context"

	"gorm.io/gorm"

	"taskvision/internal/model"
)

// UserRepository handles CRUD for task owners.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return storageErr("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storageErr("get user", err)
	}
	return &user, nil
}

// LinkTelegramChat records the Telegram chat used to deliver the
// owner's notifications.
func (r *UserRepository) LinkTelegramChat(ctx context.Context, userID string, chatID int64) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("telegram_chat_id", chatID).Error
	return storageErr("link telegram chat", err)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}
