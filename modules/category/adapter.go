package category

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/event-planner/domain/category"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CategoryPort defines the category operations other modules depend on.
type CategoryPort interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id uint) (*domain.Category, error)
	Create(ctx context.Context, in domain.Input) (*domain.Category, error)
}

var _ CategoryPort = (*Service)(nil)
var _ CategoryPort = (*CategoryAdapter)(nil)

// CategoryAdapter implements CategoryPort using the service container.
type CategoryAdapter struct {
	container mono.ServiceContainer
}

// NewCategoryAdapter creates a new CategoryAdapter.
func NewCategoryAdapter(container mono.ServiceContainer) *CategoryAdapter {
	return &CategoryAdapter{container: container}
}

// List returns all categories.
func (a *CategoryAdapter) List(ctx context.Context) ([]domain.Category, error) {
	req := ListCategoriesRequest{}
	var resp ListCategoriesResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	if resp.Categories == nil {
		resp.Categories = []domain.Category{}
	}
	return resp.Categories, nil
}

// Get returns one category.
func (a *CategoryAdapter) Get(ctx context.Context, id uint) (*domain.Category, error) {
	req := GetCategoryRequest{ID: id}
	var resp CategoryResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	if err := replyError(resp.Error); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

// Create stores a new category.
func (a *CategoryAdapter) Create(ctx context.Context, in domain.Input) (*domain.Category, error) {
	req := CreateCategoryRequest{Name: in.Name, Description: in.Description}
	var resp CategoryResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	if err := replyError(resp.Error); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

func replyError(code string) error {
	if code == "" {
		return nil
	}
	if err := errorFromCode(code); err != nil {
		return err
	}
	return fmt.Errorf("category: unexpected reply code %q", code)
}
