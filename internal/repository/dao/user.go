package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrNameMismatch    = errors.New("users do not share the same name")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Name  string `gorm:"not null;index"`
	Email string `gorm:"unique;not null"`
	Role  string `gorm:"not null"` // "student", "parent" or "coach"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_users_email"`) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByName(ctx context.Context, name string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "lower(name) = lower(?)", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) FindByRoles(ctx context.Context, roles []string) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Where("role IN ?", roles).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Merge re-points every row owned by the secondary user to the primary user
// and deletes the secondary user, all inside one transaction. Duplicate
// (class_id, user_id) attendance pairs produced by the re-pointing are
// deduplicated keeping the row with the most recent checked_in_at.
func (d *UserDAO) Merge(ctx context.Context, primaryID, secondaryID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both identities for the duration of the merge so no
		// registration or attendance lands on the loser mid-flight.
		var locked []User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []uint{primaryID, secondaryID}).
			Find(&locked).Error; err != nil {
			return err
		}
		if len(locked) != 2 {
			return ErrUserNotFound
		}

		if err := tx.Model(&Registration{}).
			Where("user_id = ?", secondaryID).
			Update("user_id", primaryID).Error; err != nil {
			return err
		}

		// Drop the older row of every (class, user) pair that would collide
		// once the secondary's attendance is re-pointed.
		var primaryRows, secondaryRows []Attendance
		if err := tx.Where("user_id = ?", primaryID).Find(&primaryRows).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", secondaryID).Find(&secondaryRows).Error; err != nil {
			return err
		}
		byClass := make(map[uint]Attendance, len(primaryRows))
		for _, row := range primaryRows {
			byClass[row.ClassID] = row
		}
		for _, row := range secondaryRows {
			kept, ok := byClass[row.ClassID]
			if !ok {
				continue
			}
			loser := row
			if row.CheckedInAt.After(kept.CheckedInAt) {
				loser = kept
			}
			if err := tx.Delete(&Attendance{}, loser.ID).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&Attendance{}).
			Where("user_id = ?", secondaryID).
			Update("user_id", primaryID).Error; err != nil {
			return err
		}

		if err := tx.Model(&Payment{}).
			Where("user_id = ?", secondaryID).
			Update("user_id", primaryID).Error; err != nil {
			return err
		}

		return tx.Delete(&User{}, secondaryID).Error
	})
}
