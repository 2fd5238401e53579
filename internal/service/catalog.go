package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

var (
	ErrPackageNotFound   = repository.ErrPackageNotFound
	ErrClassTypeNotFound = repository.ErrClassTypeNotFound
	ErrInvalidBasis      = errors.New("invalid duration basis")
)

type CatalogRepository interface {
	CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error)
	FindPackageByID(ctx context.Context, id uint) (domain.Package, error)
	FindAllPackages(ctx context.Context) ([]domain.Package, error)
	CreateOption(ctx context.Context, option domain.PackageOption) (domain.PackageOption, error)
	CreateClassType(ctx context.Context, classType domain.ClassType) (domain.ClassType, error)
	FindClassTypeByID(ctx context.Context, id uint) (domain.ClassType, error)
	FindAllClassTypes(ctx context.Context) ([]domain.ClassType, error)
}

type ClassRepository interface {
	Create(ctx context.Context, class domain.Class) (domain.Class, error)
	FindByID(ctx context.Context, id uint) (domain.Class, error)
	FindAll(ctx context.Context) ([]domain.Class, error)
	Cancel(ctx context.Context, id uint) (domain.Class, error)
}

// CatalogService manages packages, class types and scheduled classes.
// Classes are pre-created occurrences, never generated from a recurrence
// rule.
type CatalogService struct {
	catalog       CatalogRepository
	classes       ClassRepository
	registrations RosterRegistrationRepository
	notifier      Notifier
}

func NewCatalogService(
	catalog CatalogRepository,
	classes ClassRepository,
	registrations RosterRegistrationRepository,
	notifier Notifier,
) *CatalogService {
	return &CatalogService{
		catalog:       catalog,
		classes:       classes,
		registrations: registrations,
		notifier:      notifier,
	}
}

func (s *CatalogService) CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	if !pkg.Basis.Valid() {
		return domain.Package{}, ErrInvalidBasis
	}
	if pkg.ClassTypeID != nil {
		if _, err := s.catalog.FindClassTypeByID(ctx, *pkg.ClassTypeID); err != nil {
			return domain.Package{}, fmt.Errorf("s.catalog.FindClassTypeByID -> %w", err)
		}
	}

	created, err := s.catalog.CreatePackage(ctx, pkg)
	if err != nil {
		return domain.Package{}, fmt.Errorf("s.catalog.CreatePackage -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, id uint) (domain.Package, error) {
	pkg, err := s.catalog.FindPackageByID(ctx, id)
	if err != nil {
		return domain.Package{}, fmt.Errorf("s.catalog.FindPackageByID -> %w", err)
	}

	return pkg, nil
}

func (s *CatalogService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	pkgs, err := s.catalog.FindAllPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.catalog.FindAllPackages -> %w", err)
	}

	return pkgs, nil
}

func (s *CatalogService) AddPackageOption(ctx context.Context, option domain.PackageOption) (domain.PackageOption, error) {
	if _, err := s.catalog.FindPackageByID(ctx, option.PackageID); err != nil {
		return domain.PackageOption{}, fmt.Errorf("s.catalog.FindPackageByID -> %w", err)
	}

	created, err := s.catalog.CreateOption(ctx, option)
	if err != nil {
		return domain.PackageOption{}, fmt.Errorf("s.catalog.CreateOption -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) CreateClassType(ctx context.Context, classType domain.ClassType) (domain.ClassType, error) {
	created, err := s.catalog.CreateClassType(ctx, classType)
	if err != nil {
		return domain.ClassType{}, fmt.Errorf("s.catalog.CreateClassType -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) ListClassTypes(ctx context.Context) ([]domain.ClassType, error) {
	classTypes, err := s.catalog.FindAllClassTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.catalog.FindAllClassTypes -> %w", err)
	}

	return classTypes, nil
}

func (s *CatalogService) CreateClass(ctx context.Context, class domain.Class) (domain.Class, error) {
	if _, err := s.catalog.FindPackageByID(ctx, class.PackageID); err != nil {
		return domain.Class{}, fmt.Errorf("s.catalog.FindPackageByID -> %w", err)
	}
	if _, err := s.catalog.FindClassTypeByID(ctx, class.ClassTypeID); err != nil {
		return domain.Class{}, fmt.Errorf("s.catalog.FindClassTypeByID -> %w", err)
	}

	created, err := s.classes.Create(ctx, class)
	if err != nil {
		return domain.Class{}, fmt.Errorf("s.classes.Create -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) GetClass(ctx context.Context, id uint) (domain.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return domain.Class{}, fmt.Errorf("s.classes.FindByID -> %w", err)
	}

	return class, nil
}

func (s *CatalogService) ListClasses(ctx context.Context) ([]domain.Class, error) {
	classes, err := s.classes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.classes.FindAll -> %w", err)
	}

	return classes, nil
}

// CancelClass flags the class cancelled and notifies every covered user.
// Cancelled classes count toward neither billing nor required attendance.
// Notification failures are logged, never propagated.
func (s *CatalogService) CancelClass(ctx context.Context, id uint) (domain.Class, error) {
	cancelled, err := s.classes.Cancel(ctx, id)
	if err != nil {
		return domain.Class{}, fmt.Errorf("s.classes.Cancel -> %w", err)
	}

	covering, err := s.registrations.FindActiveByClassTypeOnDate(ctx, cancelled.ClassTypeID, cancelled.Date)
	if err != nil {
		zap.L().Warn("could not resolve users for cancellation notice",
			zap.Uint("class_id", id), zap.Error(err))
		return cancelled, nil
	}

	date := cancelled.Date.Format("2006-01-02")
	subject := fmt.Sprintf("Class cancelled - %s", date)
	for _, registration := range covering {
		body := fmt.Sprintf("Hi %s,\n\nYour class on %s has been cancelled. It will not be billed.\n",
			registration.User.Name, date)
		if !s.notifier.Send(registration.User, subject, body) {
			zap.L().Warn("cancellation email not delivered",
				zap.Uint("user_id", registration.UserID),
				zap.Uint("class_id", id))
		}
	}

	return cancelled, nil
}
