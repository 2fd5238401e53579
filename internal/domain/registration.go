package domain

import "time"

type RegistrationStatus string

const (
	RegistrationActive    RegistrationStatus = "active"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationCompleted RegistrationStatus = "completed"
)

// Valid returns true when the status is a supported value.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationActive, RegistrationCancelled, RegistrationCompleted:
		return true
	default:
		return false
	}
}

// Registration binds a user to a package for an explicit coverage window.
// A user may hold several registrations at once, including overlapping ones.
type Registration struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"user_id"`
	PackageID uint               `json:"package_id"`
	Package   Package            `json:"package"`
	User      User               `json:"user,omitempty"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Covers reports whether the registration grants coverage on the given day.
func (r Registration) Covers(on time.Time) bool {
	if r.Status != RegistrationActive {
		return false
	}
	day := on.Truncate(24 * time.Hour)
	return !day.Before(r.StartDate.Truncate(24*time.Hour)) && !day.After(r.EndDate.Truncate(24*time.Hour))
}
