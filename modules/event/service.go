// Package event manages the calendar entries users create.
package event

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/event-planner/domain/event"
	"github.com/example/event-planner/modules/category"
)

// Service implements event CRUD. Ownership is enforced by the caller.
type Service struct {
	repo       *Repository
	categories category.CategoryPort
}

// NewService creates a new event service. A nil categories port skips
// category validation.
func NewService(repo *Repository, categories category.CategoryPort) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
	}
}

// List returns the events owned by userID.
func (s *Service) List(ctx context.Context, userID uint) ([]domain.Event, error) {
	return s.repo.FindByOwner(ctx, userID)
}

// Get returns an event by ID regardless of owner.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new event owned by userID.
func (s *Service) Create(ctx context.Context, userID uint, in domain.Input) (*domain.Event, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	e := &domain.Event{UserID: userID}
	in.Apply(e)
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields of an event.
func (s *Service) Update(ctx context.Context, id uint, in domain.Input) (*domain.Event, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(e)
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes an event and returns the deleted record.
func (s *Service) Delete(ctx context.Context, id uint) (*domain.Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) validate(ctx context.Context, in *domain.Input) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrTitleRequired
	}

	if in.CategoryID == nil || s.categories == nil {
		return nil
	}
	if _, err := s.categories.Get(ctx, *in.CategoryID); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return ErrUnknownCategory
		}
		return fmt.Errorf("failed to check category: %w", err)
	}
	return nil
}
