package event

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/event-planner/domain/event"
	"gorm.io/gorm"
)

// Repository provides access to event storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new event to the database.
func (r *Repository) Create(ctx context.Context, e *domain.Event) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// FindByID retrieves an event by its ID.
func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Event, error) {
	var e domain.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &e, nil
}

// FindByOwner retrieves the events created by userID, oldest first.
func (r *Repository) FindByOwner(ctx context.Context, userID uint) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	return events, nil
}

// Update writes the editable fields of e. Owner and creation time never change.
func (r *Repository) Update(ctx context.Context, e *domain.Event) error {
	result := r.db.WithContext(ctx).Model(&domain.Event{}).
		Where("id = ?", e.ID).
		Select("title", "description", "location", "starts_at", "category_id").
		Updates(e)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event by ID.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Event{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
