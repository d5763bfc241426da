package domain

import "time"

// Event mirrors the upstream event representation.
type Event struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Date                time.Time `json:"date"`
	Location            string    `json:"location"`
	Price               float64   `json:"price"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	CategoryID          int64     `json:"category_id,omitempty"`
	CategoryName        string    `json:"category_name,omitempty"`
	OrganizerName       string    `json:"organizer_name,omitempty"`
}

// Upcoming reports whether the event is still in the future.
func (e Event) Upcoming() bool {
	return e.Date.After(time.Now())
}

// Category is an event category managed from the admin panel.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
