package entities

import (
	"time"
)

// Gender of a tour participant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether the gender is one of the accepted values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Participant is one traveller covered by a booking.
type Participant struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Gender      Gender `json:"gender" validate:"required,oneof=male female"`
	Age         int    `json:"age" validate:"required,gt=0,lt=130"`
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
	Address     string `json:"address" validate:"required"`
}

// Booking represents a customer's reservation against a tour.
//
// TourCompleted is derived from BookingDate: it becomes true once the current
// UTC calendar day is strictly past the booking's calendar day, and never
// transitions back.
type Booking struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	TourID        string        `json:"tour_id" db:"tour_id"`
	Participants  []Participant `json:"participants" db:"participants"`
	BookingDate   time.Time     `json:"booking_date" db:"booking_date"`
	TourCompleted bool          `json:"tour_completed" db:"tour_completed"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// CompletedBy reports whether the booking's calendar day is strictly before
// now's, both compared in UTC.
func (b *Booking) CompletedBy(now time.Time) bool {
	bookingDay := b.BookingDate.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	return bookingDay.Before(today)
}
