package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrRegistrationNotFound = errors.New("registration not found")

type Registration struct {
	ID uint `gorm:"primaryKey"`

	UserID    uint `gorm:"not null;index"`
	User      *User `gorm:"foreignKey:UserID"`
	PackageID uint `gorm:"not null;index"`
	Package   *Package `gorm:"foreignKey:PackageID"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"not null;default:active"` // "active", "cancelled" or "completed"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

func (d *RegistrationDAO) Insert(ctx context.Context, registration Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Create(&registration)
	if result.Error != nil {
		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).
		Preload("Package").
		Preload("Package.ClassType").
		First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByUser(ctx context.Context, userID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Preload("Package").
		Preload("Package.ClassType").
		Where("user_id = ?", userID).
		Order("start_date, id").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

// FindActiveByUser returns every active registration of the user regardless
// of its coverage window.
func (d *RegistrationDAO) FindActiveByUser(ctx context.Context, userID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Preload("Package").
		Preload("Package.ClassType").
		Where("user_id = ? AND status = ?", userID, "active").
		Order("start_date, id").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

// FindActiveByUserOnDate returns the user's active registrations whose
// coverage window contains the given day.
func (d *RegistrationDAO) FindActiveByUserOnDate(ctx context.Context, userID uint, on time.Time) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Preload("Package").
		Preload("Package.ClassType").
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?", userID, "active", on, on).
		Order("start_date, id").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

// FindActiveByClassTypeOnDate returns the active registrations covering the
// given day whose package targets the given class type.
func (d *RegistrationDAO) FindActiveByClassTypeOnDate(ctx context.Context, classTypeID uint, on time.Time) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Preload("User").
		Preload("Package").
		Joins("JOIN packages ON packages.id = registrations.package_id").
		Where("packages.class_type_id = ?", classTypeID).
		Where("registrations.status = ? AND registrations.start_date <= ? AND registrations.end_date >= ?", "active", on, on).
		Order("registrations.user_id").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) UpdateStatus(ctx context.Context, id uint, status string) (Registration, error) {
	registration, err := d.FindByID(ctx, id)
	if err != nil {
		return Registration{}, err
	}

	result := d.db.WithContext(ctx).Model(&Registration{ID: registration.ID}).Update("status", status)
	if result.Error != nil {
		return Registration{}, result.Error
	}

	registration.Status = status

	return registration, nil
}
