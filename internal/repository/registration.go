package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository/dao"
)

var ErrRegistrationNotFound = dao.ErrRegistrationNotFound

type RegistrationDAO interface {
	Insert(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.Registration, error)
	FindActiveByUser(ctx context.Context, userID uint) ([]dao.Registration, error)
	FindActiveByUserOnDate(ctx context.Context, userID uint, on time.Time) ([]dao.Registration, error)
	FindActiveByClassTypeOnDate(ctx context.Context, classTypeID uint, on time.Time) ([]dao.Registration, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dao.Registration, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, dao.Registration{
		UserID:    registration.UserID,
		PackageID: registration.PackageID,
		StartDate: registration.StartDate,
		EndDate:   registration.EndDate,
		Status:    string(registration.Status),
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return registrationDaoToDomain(created), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return registrationDaoToDomain(found), nil
}

func (r *RegistrationRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) FindActiveByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByUser -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) FindActiveByUserOnDate(ctx context.Context, userID uint, on time.Time) ([]domain.Registration, error) {
	found, err := r.dao.FindActiveByUserOnDate(ctx, userID, on)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByUserOnDate -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) FindActiveByClassTypeOnDate(ctx context.Context, classTypeID uint, on time.Time) ([]domain.Registration, error) {
	found, err := r.dao.FindActiveByClassTypeOnDate(ctx, classTypeID, on)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByClassTypeOnDate -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id uint, status domain.RegistrationStatus) (domain.Registration, error) {
	updated, err := r.dao.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return registrationDaoToDomain(updated), nil
}

func registrationsDaoToDomain(found []dao.Registration) []domain.Registration {
	registrations := make([]domain.Registration, 0, len(found))
	for _, reg := range found {
		registrations = append(registrations, registrationDaoToDomain(reg))
	}

	return registrations
}

func registrationDaoToDomain(reg dao.Registration) domain.Registration {
	registration := domain.Registration{
		ID:        reg.ID,
		UserID:    reg.UserID,
		PackageID: reg.PackageID,
		StartDate: reg.StartDate,
		EndDate:   reg.EndDate,
		Status:    domain.RegistrationStatus(reg.Status),
		CreatedAt: reg.CreatedAt,
		UpdatedAt: reg.UpdatedAt,
	}
	if reg.Package != nil {
		registration.Package = packageDaoToDomain(*reg.Package)
	}
	if reg.User != nil {
		registration.User = userDaoToDomain(*reg.User)
	}

	return registration
}
