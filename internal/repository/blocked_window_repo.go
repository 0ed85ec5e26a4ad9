package repository

import (
	"context"

	"github.com/WandevPB/brisagenda-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockedWindowRepository defines the interface for data access of BlockedWindow entities
type BlockedWindowRepository interface {
	Create(ctx context.Context, w *model.BlockedWindow) error
	GetByID(ctx context.Context, id uuid.UUID, filter AccessFilter) (*model.BlockedWindow, error)
	List(ctx context.Context, filter AccessFilter, date string) ([]model.BlockedWindow, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOverlapping returns the first window at (center, date) that
	// intersects [start,end), or nil. HH:MM strings are zero-padded, so
	// the lexicographic comparison in SQL is chronological.
	FindOverlapping(ctx context.Context, center, date, start, end string) (*model.BlockedWindow, error)
}

type blockedWindowRepository struct {
	db *gorm.DB
}

// NewBlockedWindowRepository returns a new instance of BlockedWindowRepository
func NewBlockedWindowRepository(db *gorm.DB) BlockedWindowRepository {
	return &blockedWindowRepository{db: db}
}

func (r *blockedWindowRepository) Create(ctx context.Context, w *model.BlockedWindow) error {
	return GetDB(ctx, r.db).Create(w).Error
}

func (r *blockedWindowRepository) GetByID(ctx context.Context, id uuid.UUID, filter AccessFilter) (*model.BlockedWindow, error) {
	var w model.BlockedWindow
	if err := GetDB(ctx, r.db).Scopes(filter.Scope()).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *blockedWindowRepository) List(ctx context.Context, filter AccessFilter, date string) ([]model.BlockedWindow, error) {
	var windows []model.BlockedWindow
	query := GetDB(ctx, r.db).Scopes(filter.Scope())
	if date != "" {
		query = query.Where("data = ?", date)
	}
	err := query.Order("data, hora_inicio").Find(&windows).Error
	return windows, err
}

func (r *blockedWindowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BlockedWindow{}).Error
}

func (r *blockedWindowRepository) FindOverlapping(ctx context.Context, center, date, start, end string) (*model.BlockedWindow, error) {
	var w model.BlockedWindow
	err := GetDB(ctx, r.db).
		Where("centro_distribuicao = ? AND data = ?", center, date).
		Where("hora_inicio < ? AND hora_fim > ?", end, start).
		First(&w).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}
