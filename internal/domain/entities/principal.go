package entities

// Principal is the verified identity an operation runs on behalf of. It is
// threaded explicitly through every service call; nothing reads ambient
// request state.
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsStaff reports whether the principal may manage tours and bookings.
func (p Principal) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleGuide
}
