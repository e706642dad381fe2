package entities

import (
	"time"
)

// Review represents a rating plus text left by a customer against a tour.
// UserID and TourID are immutable after creation.
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TourID    string    `json:"tour_id" db:"tour_id"`
	Text      string    `json:"review" db:"review_text"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
