package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

type Attendance struct {
	ID uint `gorm:"primaryKey"`

	ClassID uint `gorm:"not null;uniqueIndex:idx_attendance_class_user"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_attendance_class_user"`
	User    *User `gorm:"foreignKey:UserID"`

	Status      string    `gorm:"not null"` // "present", "late" or "missing"
	CheckedInAt time.Time `gorm:"not null"`
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// Upsert writes the row for (class, user), creating it or overwriting the
// existing status and timestamp. The ON CONFLICT clause keeps concurrent
// scans for the same pair from racing into duplicate rows.
func (d *AttendanceDAO) Upsert(ctx context.Context, attendance Attendance) (Attendance, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "checked_in_at"}),
	}).Create(&attendance)
	if result.Error != nil {
		return Attendance{}, result.Error
	}

	return attendance, nil
}

func (d *AttendanceDAO) FindByClassAndUser(ctx context.Context, classID, userID uint) (Attendance, error) {
	var attendance Attendance

	result := d.db.WithContext(ctx).
		First(&attendance, "class_id = ? AND user_id = ?", classID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendance{}, ErrAttendanceNotFound
		}

		return Attendance{}, result.Error
	}

	return attendance, nil
}

func (d *AttendanceDAO) FindByClass(ctx context.Context, classID uint) ([]Attendance, error) {
	var attendances []Attendance

	result := d.db.WithContext(ctx).
		Preload("User").
		Where("class_id = ?", classID).
		Order("user_id").
		Find(&attendances)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendances, nil
}

// FindByUserBetween returns the user's attendance rows, optionally limited
// to classes dated inside [from, to].
func (d *AttendanceDAO) FindByUserBetween(ctx context.Context, userID uint, from, to *time.Time) ([]Attendance, error) {
	var attendances []Attendance

	query := d.db.WithContext(ctx).
		Joins("JOIN classes ON classes.id = attendances.class_id").
		Where("attendances.user_id = ?", userID)
	if from != nil {
		query = query.Where("classes.date >= ?", *from)
	}
	if to != nil {
		query = query.Where("classes.date <= ?", *to)
	}

	result := query.Order("classes.date").Find(&attendances)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendances, nil
}

// Delete removes the row for (class, user), returning the pair to the
// implicit absent state.
func (d *AttendanceDAO) Delete(ctx context.Context, classID, userID uint) error {
	result := d.db.WithContext(ctx).
		Where("class_id = ? AND user_id = ?", classID, userID).
		Delete(&Attendance{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}
