package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

const (
	explanationClassNotFound = "class not found"
	explanationNoCoverage    = "no active registrations found"
)

type CoverageRegistrationRepository interface {
	FindActiveByUserOnDate(ctx context.Context, userID uint, on time.Time) ([]domain.Registration, error)
}

type CoverageClassRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Class, error)
}

// CoverageService resolves which registrations entitle a user to attend on a
// given date. The attendance reconciler, the roster builder and the billing
// calculator all go through this one contract so eligibility rules cannot
// diverge between them.
type CoverageService struct {
	registrations CoverageRegistrationRepository
	classes       CoverageClassRepository
}

func NewCoverageService(registrations CoverageRegistrationRepository, classes CoverageClassRepository) *CoverageService {
	return &CoverageService{
		registrations: registrations,
		classes:       classes,
	}
}

// ResolveCoverage returns the user's active registrations whose coverage
// window contains the given day. An empty result is a routine outcome.
func (s *CoverageService) ResolveCoverage(ctx context.Context, userID uint, on time.Time) ([]domain.Registration, error) {
	registrations, err := s.registrations.FindActiveByUserOnDate(ctx, userID, on)
	if err != nil {
		return nil, fmt.Errorf("s.registrations.FindActiveByUserOnDate -> %w", err)
	}

	return registrations, nil
}

// CoversClassType decides whether the user may attend the given class on the
// given date and explains the verdict. A covering registration whose package
// targets a different class type yields a "registered for X but attending Y"
// explanation rather than a bare failure; coaches rely on that wording.
// A missing class or user is a negative verdict, never an error.
func (s *CoverageService) CoversClassType(ctx context.Context, userID, classID uint, on time.Time) (domain.Eligibility, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			return domain.Eligibility{Eligible: false, Explanation: explanationClassNotFound}, nil
		}

		return domain.Eligibility{}, fmt.Errorf("s.classes.FindByID -> %w", err)
	}

	registrations, err := s.ResolveCoverage(ctx, userID, on)
	if err != nil {
		return domain.Eligibility{}, err
	}

	if len(registrations) == 0 {
		return domain.Eligibility{Eligible: false, Explanation: explanationNoCoverage}, nil
	}

	var mismatched *domain.Registration
	for i, registration := range registrations {
		// A package without a class-type association is type-agnostic:
		// date coverage alone grants eligibility.
		if registration.Package.ClassTypeID == nil || *registration.Package.ClassTypeID == class.ClassTypeID {
			return domain.Eligibility{
				Eligible:    true,
				Explanation: fmt.Sprintf("covered by %s", registration.Package.Name),
			}, nil
		}
		if mismatched == nil {
			mismatched = &registrations[i]
		}
	}

	return domain.Eligibility{
		Eligible: false,
		Explanation: fmt.Sprintf("registered for %s but attending %s",
			registeredTypeName(*mismatched), attendingTypeName(class)),
	}, nil
}

func registeredTypeName(registration domain.Registration) string {
	if registration.Package.ClassType != nil {
		return registration.Package.ClassType.Name
	}

	return registration.Package.Name
}

func attendingTypeName(class domain.Class) string {
	if class.ClassType != nil {
		return class.ClassType.Name
	}

	return fmt.Sprintf("class type %d", class.ClassTypeID)
}
