package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository/dao"
)

var ErrClassNotFound = dao.ErrClassNotFound

type ClassDAO interface {
	Insert(ctx context.Context, class dao.Class) (dao.Class, error)
	FindByID(ctx context.Context, id uint) (dao.Class, error)
	FindAll(ctx context.Context) ([]dao.Class, error)
	FindByPackageBetween(ctx context.Context, packageID uint, from, to time.Time) ([]dao.Class, error)
	Cancel(ctx context.Context, id uint) (dao.Class, error)
}

type ClassRepository struct {
	dao ClassDAO
}

func NewClassRepository(dao ClassDAO) *ClassRepository {
	return &ClassRepository{
		dao: dao,
	}
}

func (r *ClassRepository) Create(ctx context.Context, class domain.Class) (domain.Class, error) {
	created, err := r.dao.Insert(ctx, dao.Class{
		PackageID:   class.PackageID,
		ClassTypeID: class.ClassTypeID,
		Date:        class.Date,
		StartTime:   class.StartTime,
		EndTime:     class.EndTime,
		Location:    class.Location,
	})
	if err != nil {
		return domain.Class{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return classDaoToDomain(created), nil
}

func (r *ClassRepository) FindByID(ctx context.Context, id uint) (domain.Class, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Class{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return classDaoToDomain(found), nil
}

func (r *ClassRepository) FindAll(ctx context.Context) ([]domain.Class, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	classes := make([]domain.Class, 0, len(found))
	for _, c := range found {
		classes = append(classes, classDaoToDomain(c))
	}

	return classes, nil
}

// FindBillableByPackage returns the package's non-cancelled classes inside
// [from, to].
func (r *ClassRepository) FindBillableByPackage(ctx context.Context, packageID uint, from, to time.Time) ([]domain.Class, error) {
	found, err := r.dao.FindByPackageBetween(ctx, packageID, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByPackageBetween -> %w", err)
	}

	classes := make([]domain.Class, 0, len(found))
	for _, c := range found {
		classes = append(classes, classDaoToDomain(c))
	}

	return classes, nil
}

func (r *ClassRepository) Cancel(ctx context.Context, id uint) (domain.Class, error) {
	cancelled, err := r.dao.Cancel(ctx, id)
	if err != nil {
		return domain.Class{}, fmt.Errorf("r.dao.Cancel -> %w", err)
	}

	return classDaoToDomain(cancelled), nil
}

func classDaoToDomain(c dao.Class) domain.Class {
	class := domain.Class{
		ID:          c.ID,
		PackageID:   c.PackageID,
		ClassTypeID: c.ClassTypeID,
		Date:        c.Date,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		Location:    c.Location,
		Cancelled:   c.Cancelled,
	}
	if c.ClassType != nil {
		class.ClassType = &domain.ClassType{ID: c.ClassType.ID, Name: c.ClassType.Name}
	}

	return class
}
