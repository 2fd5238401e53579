package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-api/internal/domain"
)

func uintPtr(v uint) *uint {
	return &v
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCoverageService_CoversClassType(t *testing.T) {
	tennis := domain.ClassType{ID: 1, Name: "Tennis"}
	pickleball := domain.ClassType{ID: 2, Name: "Pickleball"}

	class := domain.Class{
		ID:          10,
		PackageID:   5,
		ClassTypeID: tennis.ID,
		ClassType:   &tennis,
		Date:        date(2024, time.June, 10),
	}

	window := func(pkg domain.Package) domain.Registration {
		return domain.Registration{
			ID:        1,
			UserID:    7,
			PackageID: pkg.ID,
			Package:   pkg,
			StartDate: date(2024, time.June, 1),
			EndDate:   date(2024, time.June, 30),
			Status:    domain.RegistrationActive,
		}
	}

	tests := []struct {
		name            string
		classID         uint
		registrations   []domain.Registration
		wantEligible    bool
		wantExplanation string
	}{
		{
			name:            "class does not exist",
			classID:         999,
			wantEligible:    false,
			wantExplanation: "class not found",
		},
		{
			name:            "no active registrations",
			classID:         class.ID,
			wantEligible:    false,
			wantExplanation: "no active registrations found",
		},
		{
			name:    "registration for another class type",
			classID: class.ID,
			registrations: []domain.Registration{
				window(domain.Package{
					ID: 5, Name: "Pickleball Pass",
					ClassTypeID: uintPtr(pickleball.ID), ClassType: &pickleball,
				}),
			},
			wantEligible:    false,
			wantExplanation: "registered for Pickleball but attending Tennis",
		},
		{
			name:    "matching class type",
			classID: class.ID,
			registrations: []domain.Registration{
				window(domain.Package{
					ID: 5, Name: "Tennis Pass",
					ClassTypeID: uintPtr(tennis.ID), ClassType: &tennis,
				}),
			},
			wantEligible:    true,
			wantExplanation: "covered by Tennis Pass",
		},
		{
			name:    "type-agnostic package covers any class",
			classID: class.ID,
			registrations: []domain.Registration{
				window(domain.Package{ID: 5, Name: "All Access"}),
			},
			wantEligible:    true,
			wantExplanation: "covered by All Access",
		},
		{
			name:    "mismatch wins only when nothing matches",
			classID: class.ID,
			registrations: []domain.Registration{
				window(domain.Package{
					ID: 5, Name: "Pickleball Pass",
					ClassTypeID: uintPtr(pickleball.ID), ClassType: &pickleball,
				}),
				window(domain.Package{
					ID: 6, Name: "Tennis Pass",
					ClassTypeID: uintPtr(tennis.ID), ClassType: &tennis,
				}),
			},
			wantEligible:    true,
			wantExplanation: "covered by Tennis Pass",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCoverageService(
				&fakeRegistrationRepo{registrations: tt.registrations},
				newFakeClassRepo(class),
			)

			eligibility, err := svc.CoversClassType(context.Background(), 7, tt.classID, class.Date)

			require.NoError(t, err)
			assert.Equal(t, tt.wantEligible, eligibility.Eligible)
			assert.Equal(t, tt.wantExplanation, eligibility.Explanation)
		})
	}
}

func TestCoverageService_ResolveCoverage_OutsideWindow(t *testing.T) {
	registration := domain.Registration{
		ID:        1,
		UserID:    7,
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 30),
		Status:    domain.RegistrationActive,
	}
	svc := NewCoverageService(
		&fakeRegistrationRepo{registrations: []domain.Registration{registration}},
		newFakeClassRepo(),
	)

	covered, err := svc.ResolveCoverage(context.Background(), 7, date(2024, time.July, 1))
	require.NoError(t, err)
	assert.Empty(t, covered)

	covered, err = svc.ResolveCoverage(context.Background(), 7, date(2024, time.June, 30))
	require.NoError(t, err)
	assert.Len(t, covered, 1)
}

func TestCoverageService_CancelledRegistrationDoesNotCover(t *testing.T) {
	class := domain.Class{ID: 10, ClassTypeID: 1, Date: date(2024, time.June, 10)}
	registration := domain.Registration{
		ID:        1,
		UserID:    7,
		Package:   domain.Package{ID: 5, Name: "Tennis Pass"},
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 30),
		Status:    domain.RegistrationCancelled,
	}
	svc := NewCoverageService(
		&fakeRegistrationRepo{registrations: []domain.Registration{registration}},
		newFakeClassRepo(class),
	)

	eligibility, err := svc.CoversClassType(context.Background(), 7, class.ID, class.Date)

	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, "no active registrations found", eligibility.Explanation)
}
