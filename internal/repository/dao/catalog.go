package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPackageNotFound   = errors.New("package not found")
	ErrClassTypeNotFound = errors.New("class type not found")
)

type ClassType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
}

type Package struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string
	Price       float64 `gorm:"not null"`
	Basis       string  `gorm:"column:duration_basis;not null"` // "class" or "week"
	NumClasses  *int
	NumWeeks    *int
	ClassTypeID *uint
	ClassType   *ClassType      `gorm:"foreignKey:ClassTypeID"`
	Options     []PackageOption `gorm:"foreignKey:PackageID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PackageOption struct {
	ID        uint   `gorm:"primaryKey"`
	PackageID uint   `gorm:"not null;index"`
	Label     string `gorm:"not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

func (d *CatalogDAO) InsertPackage(ctx context.Context, pkg Package) (Package, error) {
	result := d.db.WithContext(ctx).Create(&pkg)
	if result.Error != nil {
		return Package{}, result.Error
	}

	return pkg, nil
}

func (d *CatalogDAO) FindPackageByID(ctx context.Context, id uint) (Package, error) {
	var pkg Package

	result := d.db.WithContext(ctx).
		Preload("ClassType").
		Preload("Options").
		First(&pkg, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Package{}, ErrPackageNotFound
		}

		return Package{}, result.Error
	}

	return pkg, nil
}

func (d *CatalogDAO) FindAllPackages(ctx context.Context) ([]Package, error) {
	var pkgs []Package

	result := d.db.WithContext(ctx).
		Preload("ClassType").
		Preload("Options").
		Order("id").
		Find(&pkgs)
	if result.Error != nil {
		return nil, result.Error
	}

	return pkgs, nil
}

func (d *CatalogDAO) InsertOption(ctx context.Context, option PackageOption) (PackageOption, error) {
	result := d.db.WithContext(ctx).Create(&option)
	if result.Error != nil {
		return PackageOption{}, result.Error
	}

	return option, nil
}

func (d *CatalogDAO) InsertClassType(ctx context.Context, classType ClassType) (ClassType, error) {
	result := d.db.WithContext(ctx).Create(&classType)
	if result.Error != nil {
		return ClassType{}, result.Error
	}

	return classType, nil
}

func (d *CatalogDAO) FindClassTypeByID(ctx context.Context, id uint) (ClassType, error) {
	var classType ClassType

	result := d.db.WithContext(ctx).First(&classType, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ClassType{}, ErrClassTypeNotFound
		}

		return ClassType{}, result.Error
	}

	return classType, nil
}

func (d *CatalogDAO) FindAllClassTypes(ctx context.Context) ([]ClassType, error) {
	var classTypes []ClassType

	result := d.db.WithContext(ctx).Order("id").Find(&classTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return classTypes, nil
}
