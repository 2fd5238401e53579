package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

var (
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrClassNotFound      = repository.ErrClassNotFound
	ErrAttendanceNotFound = repository.ErrAttendanceNotFound
	ErrInvalidStatus      = errors.New("invalid attendance status")
)

type AttendanceRepository interface {
	Upsert(ctx context.Context, attendance domain.Attendance) (domain.Attendance, error)
	FindByClassAndUser(ctx context.Context, classID, userID uint) (domain.Attendance, error)
	FindByClass(ctx context.Context, classID uint) ([]domain.Attendance, error)
	FindByUserBetween(ctx context.Context, userID uint, from, to *time.Time) ([]domain.Attendance, error)
	Delete(ctx context.Context, classID, userID uint) error
}

type AttendanceUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type RosterRegistrationRepository interface {
	FindActiveByClassTypeOnDate(ctx context.Context, classTypeID uint, on time.Time) ([]domain.Registration, error)
}

type EligibilityResolver interface {
	CoversClassType(ctx context.Context, userID, classID uint, on time.Time) (domain.Eligibility, error)
}

// ScanResult is what a validation-aware mark returns: the mark outcome plus
// the coverage verdict. Ineligibility never blocks the mark; the business
// admits unregistered attendees and flags them.
type ScanResult struct {
	Mark        domain.MarkResult  `json:"mark"`
	Eligibility domain.Eligibility `json:"eligibility"`
}

// AttendanceService reconciles per-(class, user) attendance state. Within one
// class at most one row exists per user; every write is an upsert by that
// natural key.
type AttendanceService struct {
	repo          AttendanceRepository
	users         AttendanceUserRepository
	classes       CoverageClassRepository
	registrations RosterRegistrationRepository
	coverage      EligibilityResolver

	now func() time.Time
}

func NewAttendanceService(
	repo AttendanceRepository,
	users AttendanceUserRepository,
	classes CoverageClassRepository,
	registrations RosterRegistrationRepository,
	coverage EligibilityResolver,
) *AttendanceService {
	return &AttendanceService{
		repo:          repo,
		users:         users,
		classes:       classes,
		registrations: registrations,
		coverage:      coverage,
		now:           time.Now,
	}
}

// Mark records the status for (class, user), creating the row or overwriting
// an existing one. If the user is already checked in (present or late), a
// repeat mark is a no-op that keeps the original timestamp, so a duplicate
// QR scan cannot re-timestamp a check-in.
func (s *AttendanceService) Mark(ctx context.Context, classID, userID uint, status domain.AttendanceStatus) (domain.MarkResult, error) {
	if !status.Valid() {
		return domain.MarkResult{}, ErrInvalidStatus
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.MarkResult{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		return domain.MarkResult{}, fmt.Errorf("s.classes.FindByID -> %w", err)
	}

	existing, err := s.repo.FindByClassAndUser(ctx, classID, userID)
	if err == nil && existing.Status.CheckedIn() {
		return domain.MarkResult{
			Attendance:    existing,
			AlreadyMarked: true,
			Message:       fmt.Sprintf("already marked %s", existing.Status),
		}, nil
	}
	if err != nil && !errors.Is(err, repository.ErrAttendanceNotFound) {
		return domain.MarkResult{}, fmt.Errorf("s.repo.FindByClassAndUser -> %w", err)
	}

	marked, err := s.repo.Upsert(ctx, domain.Attendance{
		ClassID:     classID,
		UserID:      userID,
		Status:      status,
		CheckedInAt: s.now(),
	})
	if err != nil {
		return domain.MarkResult{}, fmt.Errorf("s.repo.Upsert -> %w", err)
	}

	return domain.MarkResult{
		Attendance: marked,
		Message:    "attendance marked successfully",
	}, nil
}

// MarkWithValidation marks attendance and reports the coverage verdict in
// one call. The mark always happens; the verdict is a warning the caller can
// surface without blocking check-in.
func (s *AttendanceService) MarkWithValidation(ctx context.Context, classID, userID uint, status domain.AttendanceStatus) (ScanResult, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("s.classes.FindByID -> %w", err)
	}

	eligibility, err := s.coverage.CoversClassType(ctx, userID, classID, class.Date)
	if err != nil {
		return ScanResult{}, fmt.Errorf("s.coverage.CoversClassType -> %w", err)
	}

	mark, err := s.Mark(ctx, classID, userID, status)
	if err != nil {
		return ScanResult{}, err
	}

	return ScanResult{
		Mark:        mark,
		Eligibility: eligibility,
	}, nil
}

// Unmark deletes the (class, user) row, returning the pair to the implicit
// absent state. Unmarked pairs are indistinguishable from never-marked ones.
func (s *AttendanceService) Unmark(ctx context.Context, classID, userID uint) error {
	if err := s.repo.Delete(ctx, classID, userID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// StateFor answers "where is this user for this class" as an explicit
// variant, so callers never infer absent from a missing row.
func (s *AttendanceService) StateFor(ctx context.Context, classID, userID uint) (domain.AttendanceState, error) {
	attendance, err := s.repo.FindByClassAndUser(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return domain.StateAbsent, nil
		}

		return domain.StateAbsent, fmt.Errorf("s.repo.FindByClassAndUser -> %w", err)
	}

	return domain.StateOf(attendance.Status), nil
}

// Roster builds the comprehensive attendance view for a class.
//
// CheckedIn holds every user with a row; Unchecked holds users covered for
// the class's date and type who have no row; Missing is the subset of
// CheckedIn explicitly flagged missing. A user with any row, even a
// "missing" one, never lands in Unchecked: unchecked means "no interaction
// yet", and the coach UI polls it to prompt manual entry.
func (s *AttendanceService) Roster(ctx context.Context, classID uint) (domain.ClassRoster, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return domain.ClassRoster{}, fmt.Errorf("s.classes.FindByID -> %w", err)
	}

	rows, err := s.repo.FindByClass(ctx, classID)
	if err != nil {
		return domain.ClassRoster{}, fmt.Errorf("s.repo.FindByClass -> %w", err)
	}

	covering, err := s.registrations.FindActiveByClassTypeOnDate(ctx, class.ClassTypeID, class.Date)
	if err != nil {
		return domain.ClassRoster{}, fmt.Errorf("s.registrations.FindActiveByClassTypeOnDate -> %w", err)
	}

	roster := domain.ClassRoster{
		ClassID:   classID,
		CheckedIn: make([]domain.AttendanceEntry, 0, len(rows)),
		Unchecked: make([]domain.User, 0),
		Missing:   make([]domain.AttendanceEntry, 0),
	}

	interacted := make(map[uint]bool, len(rows))
	for _, row := range rows {
		interacted[row.UserID] = true

		entry := domain.AttendanceEntry{
			User:        row.User,
			Status:      row.Status,
			CheckedInAt: row.CheckedInAt,
		}
		roster.CheckedIn = append(roster.CheckedIn, entry)
		if row.Status == domain.StatusMissing {
			roster.Missing = append(roster.Missing, entry)
		}
	}

	seen := make(map[uint]bool, len(covering))
	for _, registration := range covering {
		if interacted[registration.UserID] || seen[registration.UserID] {
			continue
		}
		seen[registration.UserID] = true
		roster.Unchecked = append(roster.Unchecked, registration.User)
	}

	return roster, nil
}

// History returns the user's attendance rows, optionally bounded by class
// date.
func (s *AttendanceService) History(ctx context.Context, userID uint, from, to *time.Time) ([]domain.Attendance, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	attendances, err := s.repo.FindByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserBetween -> %w", err)
	}

	return attendances, nil
}
