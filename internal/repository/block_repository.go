package repository

import (
	"context"

	"gorm.io/gorm"

	"taskvision/internal/model"
)

// BlockRepository manages time-of-day blocks.
type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(ctx context.Context, block *model.Block) error {
	if err := block.Validate(); err != nil {
		return err
	}
	return storageErr("create block", r.db.WithContext(ctx).Create(block).Error)
}

func (r *BlockRepository) GetByID(ctx context.Context, id string) (*model.Block, error) {
	var block model.Block
	if err := r.db.WithContext(ctx).First(&block, "id = ?", id).Error; err != nil {
		return nil, storageErr("get block", err)
	}
	return &block, nil
}

func (r *BlockRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Block, error) {
	var blocks []model.Block
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("sort_order ASC").
		Find(&blocks).Error; err != nil {
		return nil, storageErr("list blocks", err)
	}
	return blocks, nil
}

func (r *BlockRepository) Delete(ctx context.Context, ownerID, blockID string) error {
	return storageErr("delete block", r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, blockID).
		Delete(&model.Block{}).Error)
}
