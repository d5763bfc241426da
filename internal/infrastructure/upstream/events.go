package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// EventInput is the create/update payload for an event.
type EventInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	Price           float64   `json:"price"`
	MaxParticipants int       `json:"max_participants"`
	CategoryID      int64     `json:"category_id,omitempty"`
	OrganizerName   string    `json:"organizer_name,omitempty"`
}

// EventFilter narrows event listings. Zero values mean no filtering.
type EventFilter struct {
	Search     string
	CategoryID int64
}

func (f EventFilter) query() string {
	values := url.Values{}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.CategoryID != 0 {
		values.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func (c *Client) Events(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.doJSON(ctx, http.MethodGet, "/events/"+filter.query(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) Event(ctx context.Context, id int64) (*domain.Event, error) {
	var event domain.Event
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*domain.Event, error) {
	var event domain.Event
	if err := c.doJSON(ctx, http.MethodPost, "/events/", in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, in EventInput) (*domain.Event, error) {
	var event domain.Event
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/events/%d", id), in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), nil, nil)
}

// EventGroups lists the groups attached to an event.
func (c *Client) EventGroups(ctx context.Context, eventID int64) ([]domain.Group, error) {
	var groups []domain.Group
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d/groups", eventID), nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
