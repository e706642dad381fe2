package entities

import (
	"time"
)

// Role determines what a user is allowed to do.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleGuide    Role = "guide"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuide, RoleCustomer:
		return true
	}
	return false
}

// User represents a user in the system. ToursBooked is a denormalized
// back-reference list of booking ids owned by this user; it is mutated only by
// the booking service.
type User struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Password       string    `json:"-" db:"password"`
	Address        string    `json:"address" db:"address"`
	PhoneNumber    string    `json:"phone_number" db:"phone_number"`
	Age            int       `json:"age" db:"age"`
	Salary         *float64  `json:"salary,omitempty" db:"salary"` // guides only
	Image          string    `json:"image" db:"image"`
	ImageStorageID string    `json:"-" db:"image_storage_id"`
	Role           Role      `json:"role" db:"role"`
	ToursBooked    []string  `json:"tours_booked" db:"tours_booked"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// SignupToken holds the hashed verification token mailed to an address during
// the two-step registration flow.
type SignupToken struct {
	Email     string    `json:"email" db:"email"`
	TokenHash string    `json:"-" db:"token_hash"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
