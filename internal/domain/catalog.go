package domain

import "time"

type DurationBasis string

const (
	BasisClass DurationBasis = "class"
	BasisWeek  DurationBasis = "week"
)

// Valid returns true when the basis is a supported value.
func (b DurationBasis) Valid() bool {
	switch b {
	case BasisClass, BasisWeek:
		return true
	default:
		return false
	}
}

type ClassType struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Package struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Basis       DurationBasis `json:"duration_basis"`
	NumClasses  *int          `json:"num_classes,omitempty"`
	NumWeeks    *int          `json:"num_weeks,omitempty"`
	ClassTypeID *uint         `json:"class_type_id,omitempty"`
	ClassType   *ClassType    `json:"class_type,omitempty"`
	Options     []PackageOption `json:"options,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// PackageOption is a purchasable date window of a package,
// e.g. "Week of June 10, 2024".
type PackageOption struct {
	ID        uint      `json:"id"`
	PackageID uint      `json:"package_id"`
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Class struct {
	ID          uint       `json:"id"`
	PackageID   uint       `json:"package_id"`
	ClassTypeID uint       `json:"class_type_id"`
	ClassType   *ClassType `json:"class_type,omitempty"`
	Date        time.Time  `json:"date"`
	StartTime   string     `json:"start_time,omitempty"`
	EndTime     string     `json:"end_time,omitempty"`
	Location    string     `json:"location,omitempty"`
	Cancelled   bool       `json:"cancelled"`
}
