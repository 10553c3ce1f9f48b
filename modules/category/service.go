// Package category manages the categories events can be filed under.
package category

import (
	"context"
	"log"
	"strconv"
	"strings"

	domain "github.com/example/event-planner/domain/category"
	"github.com/example/event-planner/modules/cache"
	"golang.org/x/sync/singleflight"
)

const cacheKeyList = "list"

func cacheKeyByID(id uint) string {
	return "id:" + strconv.FormatUint(uint64(id), 10)
}

// Service provides category operations with cache-aside reads.
type Service struct {
	repo    *Repository
	cache   cache.CacheService
	sfGroup singleflight.Group
}

// NewService creates a new category service. A nil cache disables caching.
func NewService(repo *Repository, c cache.CacheService) *Service {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	var cached []domain.Category
	found, err := s.cache.Get(ctx, cacheKeyList, &cached)
	if err != nil {
		log.Printf("[category] Cache error for list: %v", err)
	}
	if found {
		return cached, nil
	}

	val, err, _ := s.sfGroup.Do(cacheKeyList, func() (any, error) {
		return s.repo.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	categories := val.([]domain.Category)

	if err := s.cache.Set(ctx, cacheKeyList, categories); err != nil {
		log.Printf("[category] Warning: failed to cache list: %v", err)
	}
	return categories, nil
}

// Get returns a category by ID.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Category, error) {
	key := cacheKeyByID(id)

	var cached domain.Category
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[category] Cache error for ID=%d: %v", id, err)
	}
	if found {
		return &cached, nil
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	c := val.(*domain.Category)

	if err := s.cache.Set(ctx, key, c); err != nil {
		log.Printf("[category] Warning: failed to cache category ID=%d: %v", id, err)
	}
	return c, nil
}

// Create stores a new category and drops the cached list.
func (s *Service) Create(ctx context.Context, in domain.Input) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	c := &domain.Category{
		Name:        name,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cacheKeyList); err != nil {
		log.Printf("[category] Warning: failed to invalidate list cache: %v", err)
	}

	log.Printf("[category] Created category ID=%d", c.ID)
	return c, nil
}
