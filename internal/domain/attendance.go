package domain

import "time"

// AttendanceStatus is the recorded status on an attendance row.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusMissing AttendanceStatus = "missing"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusMissing:
		return true
	default:
		return false
	}
}

// CheckedIn reports whether the status counts as an arrival. Repeated marks
// for a checked-in user are no-ops rather than timestamp refreshes.
func (s AttendanceStatus) CheckedIn() bool {
	return s == StatusPresent || s == StatusLate
}

// AttendanceState is the answer to "where is this user for this class".
// Unlike AttendanceStatus it includes the implicit state of having no row
// at all, so callers never have to infer "absent" from a missing record.
type AttendanceState string

const (
	StateAbsent  AttendanceState = "absent"
	StatePresent AttendanceState = "present"
	StateLate    AttendanceState = "late"
	StateMissing AttendanceState = "missing"
)

// StateOf lifts a recorded status into an attendance state.
func StateOf(s AttendanceStatus) AttendanceState {
	switch s {
	case StatusPresent:
		return StatePresent
	case StatusLate:
		return StateLate
	case StatusMissing:
		return StateMissing
	default:
		return StateAbsent
	}
}

// Attendance is one row per (class, user). Absence of a row means the user
// has not interacted with the class yet, which is distinct from an explicit
// "missing" status.
type Attendance struct {
	ID          uint             `json:"id"`
	ClassID     uint             `json:"class_id"`
	UserID      uint             `json:"user_id"`
	User        User             `json:"user,omitempty"`
	Status      AttendanceStatus `json:"status"`
	CheckedInAt time.Time        `json:"checked_in_at"`
}

// MarkResult reports what a mark call did. AlreadyMarked is set when the
// idempotence guard suppressed a repeat scan.
type MarkResult struct {
	Attendance    Attendance `json:"attendance"`
	AlreadyMarked bool       `json:"already_marked"`
	Message       string     `json:"message"`
}

// Eligibility is the coverage resolver's verdict for a (user, class, date)
// triple. A negative verdict is a routine outcome, not an error.
type Eligibility struct {
	Eligible    bool   `json:"eligible"`
	Explanation string `json:"explanation"`
}

// AttendanceEntry annotates a user with their recorded attendance.
type AttendanceEntry struct {
	User        User             `json:"user"`
	Status      AttendanceStatus `json:"status"`
	CheckedInAt time.Time        `json:"checked_in_at"`
}

// ClassRoster is the comprehensive attendance view for one class. The three
// lists are disjoint by construction: a user with any row, including an
// explicit "missing" one, never appears under Unchecked.
type ClassRoster struct {
	ClassID   uint              `json:"class_id"`
	CheckedIn []AttendanceEntry `json:"checked_in"`
	Unchecked []User            `json:"unchecked"`
	Missing   []AttendanceEntry `json:"missing"`
}
