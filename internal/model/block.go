package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Block is a named time-of-day interval used to group tasks within a
// day. Order defines display priority, unique per owner.
type Block struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OwnerID   string    `gorm:"index;index:idx_block_owner_order,unique" json:"ownerId"`
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"` // HH:MM
	EndTime   string    `json:"endTime"`   // HH:MM
	Order     int       `gorm:"column:sort_order;index:idx_block_owner_order,unique" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Block) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Validate checks the HH:MM interval fields.
func (b *Block) Validate() error {
	if b.Name == "" {
		return configErr("name", "is required")
	}
	if _, _, err := ParseClock(b.StartTime); err != nil {
		return configErr("startTime", "%v", err)
	}
	if _, _, err := ParseClock(b.EndTime); err != nil {
		return configErr("endTime", "%v", err)
	}
	return nil
}

// StartOn resolves the block's start instant on a given date.
func (b *Block) StartOn(date Date, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(b.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return date.At(h, m, loc), nil
}

// EndOn resolves the block's end instant on a given date.
func (b *Block) EndOn(date Date, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(b.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	return date.At(h, m, loc), nil
}
