package category

import (
	domain "github.com/example/event-planner/domain/category"
)

// ListCategoriesRequest represents a list request.
type ListCategoriesRequest struct{}

// ListCategoriesResponse represents a list response.
type ListCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
	Total      int               `json:"total"`
}

// GetCategoryRequest represents a get request.
type GetCategoryRequest struct {
	ID uint `json:"id"`
}

// CreateCategoryRequest represents a create request.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse carries a single category or an error code.
type CategoryResponse struct {
	Category domain.Category `json:"category"`
	Error    string          `json:"error,omitempty"`
}
