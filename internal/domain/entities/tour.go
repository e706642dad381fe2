package entities

import (
	"time"
)

// Difficulty grades how demanding a tour is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TourImage is an uploaded tour picture. StorageID is the deletable handle in
// the image store; it is empty for the default cover image.
type TourImage struct {
	Link      string `json:"link"`
	StorageID string `json:"storage_id,omitempty"`
}

// Location is a stop on a tour's itinerary.
type Location struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Tour represents a bookable guided-travel product.
//
// Rating is derived: it must equal the mean of the ratings of the reviews
// currently listed in Reviews, rounded to 2 decimals, and 0 when Reviews is
// empty. Guides and Reviews are back-reference id lists maintained by the
// tour and review services.
type Tour struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Difficulty  Difficulty  `json:"difficulty" db:"difficulty"`
	Duration    string      `json:"duration" db:"duration"`
	Capacity    int         `json:"capacity" db:"capacity"`
	Price       float64     `json:"price" db:"price"`
	Rating      float64     `json:"rating" db:"rating"`
	Images      []TourImage `json:"images" db:"images"`
	Locations   []Location  `json:"locations" db:"locations"`
	Dates       []time.Time `json:"dates" db:"dates"`
	Guides      []string    `json:"guides" db:"guides"`
	Reviews     []string    `json:"reviews" db:"reviews"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
