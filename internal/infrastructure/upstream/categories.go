package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// CategoryInput is the create/update payload for an event category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.doJSON(ctx, http.MethodPost, "/categories/", in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), in, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
