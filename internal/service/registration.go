package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

var (
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrInvalidDateRange     = errors.New("end date precedes start date")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
	UpdateStatus(ctx context.Context, id uint, status domain.RegistrationStatus) (domain.Registration, error)
}

type RegistrationService struct {
	repo     RegistrationRepository
	users    AttendanceUserRepository
	catalog  CatalogRepository
	notifier Notifier
}

func NewRegistrationService(
	repo RegistrationRepository,
	users AttendanceUserRepository,
	catalog CatalogRepository,
	notifier Notifier,
) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		users:    users,
		catalog:  catalog,
		notifier: notifier,
	}
}

// Register enrolls a user in a package for an explicit coverage window and
// sends a confirmation email. Overlapping registrations are allowed; the
// coverage resolver handles them.
func (s *RegistrationService) Register(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	user, err := s.users.FindByID(ctx, registration.UserID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	pkg, err := s.catalog.FindPackageByID(ctx, registration.PackageID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.catalog.FindPackageByID -> %w", err)
	}

	if registration.EndDate.Before(registration.StartDate) {
		return domain.Registration{}, fmt.Errorf("%w: %s before %s", ErrInvalidDateRange,
			registration.EndDate.Format(time.DateOnly), registration.StartDate.Format(time.DateOnly))
	}

	registration.Status = domain.RegistrationActive
	created, err := s.repo.Create(ctx, registration)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	subject := fmt.Sprintf("Registration confirmed - %s", pkg.Name)
	body := fmt.Sprintf("Hi %s,\n\nYou are registered for %s from %s to %s.\n",
		user.Name, pkg.Name,
		created.StartDate.Format(time.DateOnly), created.EndDate.Format(time.DateOnly))
	if !s.notifier.Send(user, subject, body) {
		zap.L().Warn("registration email not delivered",
			zap.Uint("user_id", user.ID),
			zap.Uint("registration_id", created.ID))
	}

	return created, nil
}

func (s *RegistrationService) GetRegistration(ctx context.Context, id uint) (domain.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return registration, nil
}

func (s *RegistrationService) ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	registrations, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return registrations, nil
}

func (s *RegistrationService) CancelRegistration(ctx context.Context, id uint) (domain.Registration, error) {
	cancelled, err := s.repo.UpdateStatus(ctx, id, domain.RegistrationCancelled)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return cancelled, nil
}
