package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository/dao"
)

var ErrAttendanceNotFound = dao.ErrAttendanceNotFound

type AttendanceDAO interface {
	Upsert(ctx context.Context, attendance dao.Attendance) (dao.Attendance, error)
	FindByClassAndUser(ctx context.Context, classID, userID uint) (dao.Attendance, error)
	FindByClass(ctx context.Context, classID uint) ([]dao.Attendance, error)
	FindByUserBetween(ctx context.Context, userID uint, from, to *time.Time) ([]dao.Attendance, error)
	Delete(ctx context.Context, classID, userID uint) error
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) Upsert(ctx context.Context, attendance domain.Attendance) (domain.Attendance, error) {
	upserted, err := r.dao.Upsert(ctx, dao.Attendance{
		ClassID:     attendance.ClassID,
		UserID:      attendance.UserID,
		Status:      string(attendance.Status),
		CheckedInAt: attendance.CheckedInAt,
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return attendanceDaoToDomain(upserted), nil
}

func (r *AttendanceRepository) FindByClassAndUser(ctx context.Context, classID, userID uint) (domain.Attendance, error) {
	found, err := r.dao.FindByClassAndUser(ctx, classID, userID)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByClassAndUser -> %w", err)
	}

	return attendanceDaoToDomain(found), nil
}

func (r *AttendanceRepository) FindByClass(ctx context.Context, classID uint) ([]domain.Attendance, error) {
	found, err := r.dao.FindByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByClass -> %w", err)
	}

	attendances := make([]domain.Attendance, 0, len(found))
	for _, a := range found {
		attendances = append(attendances, attendanceDaoToDomain(a))
	}

	return attendances, nil
}

func (r *AttendanceRepository) FindByUserBetween(ctx context.Context, userID uint, from, to *time.Time) ([]domain.Attendance, error) {
	found, err := r.dao.FindByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserBetween -> %w", err)
	}

	attendances := make([]domain.Attendance, 0, len(found))
	for _, a := range found {
		attendances = append(attendances, attendanceDaoToDomain(a))
	}

	return attendances, nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, classID, userID uint) error {
	if err := r.dao.Delete(ctx, classID, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func attendanceDaoToDomain(a dao.Attendance) domain.Attendance {
	attendance := domain.Attendance{
		ID:          a.ID,
		ClassID:     a.ClassID,
		UserID:      a.UserID,
		Status:      domain.AttendanceStatus(a.Status),
		CheckedInAt: a.CheckedInAt,
	}
	if a.User != nil {
		attendance.User = userDaoToDomain(*a.User)
	}

	return attendance
}
