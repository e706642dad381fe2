package entities

import (
	"time"
)

// Query captures a contact-form question from a visitor. Replied flips when an
// admin dispatches an answer by mail.
type Query struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"query" db:"message"`
	Replied   bool      `json:"replied" db:"replied"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
