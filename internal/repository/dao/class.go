package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrClassNotFound = errors.New("class not found")

type Class struct {
	ID uint `gorm:"primaryKey"`

	PackageID   uint `gorm:"not null;index"`
	ClassTypeID uint `gorm:"not null;index"`
	ClassType   *ClassType `gorm:"foreignKey:ClassTypeID"`

	Date      time.Time `gorm:"type:date;not null;index"`
	StartTime string
	EndTime   string
	Location  string
	Cancelled bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ClassDAO struct {
	db *gorm.DB
}

func NewClassDAO(db *gorm.DB) *ClassDAO {
	return &ClassDAO{
		db: db,
	}
}

func (d *ClassDAO) Insert(ctx context.Context, class Class) (Class, error) {
	result := d.db.WithContext(ctx).Create(&class)
	if result.Error != nil {
		return Class{}, result.Error
	}

	return class, nil
}

func (d *ClassDAO) FindByID(ctx context.Context, id uint) (Class, error) {
	var class Class

	result := d.db.WithContext(ctx).Preload("ClassType").First(&class, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Class{}, ErrClassNotFound
		}

		return Class{}, result.Error
	}

	return class, nil
}

func (d *ClassDAO) FindAll(ctx context.Context) ([]Class, error) {
	var classes []Class

	result := d.db.WithContext(ctx).Preload("ClassType").Order("date, id").Find(&classes)
	if result.Error != nil {
		return nil, result.Error
	}

	return classes, nil
}

// FindByPackageBetween returns the package's non-cancelled classes whose date
// falls inside [from, to].
func (d *ClassDAO) FindByPackageBetween(ctx context.Context, packageID uint, from, to time.Time) ([]Class, error) {
	var classes []Class

	result := d.db.WithContext(ctx).
		Where("package_id = ? AND cancelled = false AND date >= ? AND date <= ?", packageID, from, to).
		Order("date, id").
		Find(&classes)
	if result.Error != nil {
		return nil, result.Error
	}

	return classes, nil
}

func (d *ClassDAO) Cancel(ctx context.Context, id uint) (Class, error) {
	class, err := d.FindByID(ctx, id)
	if err != nil {
		return Class{}, err
	}

	result := d.db.WithContext(ctx).Model(&class).Update("cancelled", true)
	if result.Error != nil {
		return Class{}, result.Error
	}

	class.Cancelled = true

	return class, nil
}
