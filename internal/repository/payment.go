package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository/dao"
)

var (
	ErrPaymentNotFound    = dao.ErrPaymentNotFound
	ErrInvoiceCodeExists  = dao.ErrInvoiceCodeExists
	ErrInvoiceMonthExists = dao.ErrInvoiceMonthExists
)

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	FindByInvoiceCode(ctx context.Context, code string) (dao.Payment, error)
	FindByUserAndMonth(ctx context.Context, userID uint, month string) (dao.Payment, error)
	FindByMonth(ctx context.Context, month string) ([]dao.Payment, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.Payment, error)
	RecordSettlement(ctx context.Context, id uint, amount float64, method string, date time.Time) (dao.Payment, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, dao.Payment{
		UserID:      payment.UserID,
		Month:       payment.Month,
		InvoiceCode: payment.InvoiceCode,
		AmountDue:   payment.AmountDue,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return paymentDaoToDomain(created), nil
}

func (r *PaymentRepository) FindByInvoiceCode(ctx context.Context, code string) (domain.Payment, error) {
	found, err := r.dao.FindByInvoiceCode(ctx, code)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByInvoiceCode -> %w", err)
	}

	return paymentDaoToDomain(found), nil
}

func (r *PaymentRepository) FindByUserAndMonth(ctx context.Context, userID uint, month string) (domain.Payment, error) {
	found, err := r.dao.FindByUserAndMonth(ctx, userID, month)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByUserAndMonth -> %w", err)
	}

	return paymentDaoToDomain(found), nil
}

func (r *PaymentRepository) FindByMonth(ctx context.Context, month string) ([]domain.Payment, error) {
	found, err := r.dao.FindByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByMonth -> %w", err)
	}

	payments := make([]domain.Payment, 0, len(found))
	for _, p := range found {
		payments = append(payments, paymentDaoToDomain(p))
	}

	return payments, nil
}

func (r *PaymentRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Payment, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	payments := make([]domain.Payment, 0, len(found))
	for _, p := range found {
		payments = append(payments, paymentDaoToDomain(p))
	}

	return payments, nil
}

func (r *PaymentRepository) RecordSettlement(ctx context.Context, id uint, amount float64, method string, date time.Time) (domain.Payment, error) {
	updated, err := r.dao.RecordSettlement(ctx, id, amount, method, date)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.RecordSettlement -> %w", err)
	}

	return paymentDaoToDomain(updated), nil
}

func paymentDaoToDomain(p dao.Payment) domain.Payment {
	payment := domain.Payment{
		ID:            p.ID,
		UserID:        p.UserID,
		Month:         p.Month,
		InvoiceCode:   p.InvoiceCode,
		AmountDue:     p.AmountDue,
		AmountPaid:    p.AmountPaid,
		Paid:          p.Paid,
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
	}
	if p.User != nil {
		payment.User = userDaoToDomain(*p.User)
	}

	return payment
}
