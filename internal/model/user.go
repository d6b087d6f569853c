package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a task owner. TelegramChatID is the optional delivery
// channel for the Telegram notification sink; zero means no channel.
type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	TelegramChatID int64     `gorm:"index" json:"telegramChatId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
