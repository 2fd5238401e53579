package repository

import (
	"context"
	"fmt"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository/dao"
)

var (
	ErrPackageNotFound   = dao.ErrPackageNotFound
	ErrClassTypeNotFound = dao.ErrClassTypeNotFound
)

type CatalogDAO interface {
	InsertPackage(ctx context.Context, pkg dao.Package) (dao.Package, error)
	FindPackageByID(ctx context.Context, id uint) (dao.Package, error)
	FindAllPackages(ctx context.Context) ([]dao.Package, error)
	InsertOption(ctx context.Context, option dao.PackageOption) (dao.PackageOption, error)
	InsertClassType(ctx context.Context, classType dao.ClassType) (dao.ClassType, error)
	FindClassTypeByID(ctx context.Context, id uint) (dao.ClassType, error)
	FindAllClassTypes(ctx context.Context) ([]dao.ClassType, error)
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

func (r *CatalogRepository) CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	created, err := r.dao.InsertPackage(ctx, dao.Package{
		Name:        pkg.Name,
		Description: pkg.Description,
		Price:       pkg.Price,
		Basis:       string(pkg.Basis),
		NumClasses:  pkg.NumClasses,
		NumWeeks:    pkg.NumWeeks,
		ClassTypeID: pkg.ClassTypeID,
	})
	if err != nil {
		return domain.Package{}, fmt.Errorf("r.dao.InsertPackage -> %w", err)
	}

	return packageDaoToDomain(created), nil
}

func (r *CatalogRepository) FindPackageByID(ctx context.Context, id uint) (domain.Package, error) {
	found, err := r.dao.FindPackageByID(ctx, id)
	if err != nil {
		return domain.Package{}, fmt.Errorf("r.dao.FindPackageByID -> %w", err)
	}

	return packageDaoToDomain(found), nil
}

func (r *CatalogRepository) FindAllPackages(ctx context.Context) ([]domain.Package, error) {
	found, err := r.dao.FindAllPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllPackages -> %w", err)
	}

	pkgs := make([]domain.Package, 0, len(found))
	for _, p := range found {
		pkgs = append(pkgs, packageDaoToDomain(p))
	}

	return pkgs, nil
}

func (r *CatalogRepository) CreateOption(ctx context.Context, option domain.PackageOption) (domain.PackageOption, error) {
	created, err := r.dao.InsertOption(ctx, dao.PackageOption{
		PackageID: option.PackageID,
		Label:     option.Label,
		StartDate: option.StartDate,
		EndDate:   option.EndDate,
	})
	if err != nil {
		return domain.PackageOption{}, fmt.Errorf("r.dao.InsertOption -> %w", err)
	}

	return optionDaoToDomain(created), nil
}

func (r *CatalogRepository) CreateClassType(ctx context.Context, classType domain.ClassType) (domain.ClassType, error) {
	created, err := r.dao.InsertClassType(ctx, dao.ClassType{Name: classType.Name})
	if err != nil {
		return domain.ClassType{}, fmt.Errorf("r.dao.InsertClassType -> %w", err)
	}

	return domain.ClassType{ID: created.ID, Name: created.Name}, nil
}

func (r *CatalogRepository) FindClassTypeByID(ctx context.Context, id uint) (domain.ClassType, error) {
	found, err := r.dao.FindClassTypeByID(ctx, id)
	if err != nil {
		return domain.ClassType{}, fmt.Errorf("r.dao.FindClassTypeByID -> %w", err)
	}

	return domain.ClassType{ID: found.ID, Name: found.Name}, nil
}

func (r *CatalogRepository) FindAllClassTypes(ctx context.Context) ([]domain.ClassType, error) {
	found, err := r.dao.FindAllClassTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllClassTypes -> %w", err)
	}

	classTypes := make([]domain.ClassType, 0, len(found))
	for _, ct := range found {
		classTypes = append(classTypes, domain.ClassType{ID: ct.ID, Name: ct.Name})
	}

	return classTypes, nil
}

func packageDaoToDomain(p dao.Package) domain.Package {
	pkg := domain.Package{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Basis:       domain.DurationBasis(p.Basis),
		NumClasses:  p.NumClasses,
		NumWeeks:    p.NumWeeks,
		ClassTypeID: p.ClassTypeID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ClassType != nil {
		pkg.ClassType = &domain.ClassType{ID: p.ClassType.ID, Name: p.ClassType.Name}
	}
	for _, o := range p.Options {
		pkg.Options = append(pkg.Options, optionDaoToDomain(o))
	}

	return pkg
}

func optionDaoToDomain(o dao.PackageOption) domain.PackageOption {
	return domain.PackageOption{
		ID:        o.ID,
		PackageID: o.PackageID,
		Label:     o.Label,
		StartDate: o.StartDate,
		EndDate:   o.EndDate,
	}
}
