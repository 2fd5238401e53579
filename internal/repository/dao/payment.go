package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvoiceCodeExists  = errors.New("invoice code already exists")
	ErrInvoiceMonthExists = errors.New("invoice already exists for this user and month")
)

type Payment struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;uniqueIndex:idx_payments_user_month"`
	User   *User `gorm:"foreignKey:UserID"`
	Month  string `gorm:"not null;uniqueIndex:idx_payments_user_month"` // e.g. "2024-07"

	InvoiceCode   string  `gorm:"unique;not null"`
	AmountDue     float64 `gorm:"not null"`
	AmountPaid    float64 `gorm:"not null;default:0"`
	Paid          bool    `gorm:"not null;default:false"`
	PaymentMethod string
	PaymentDate   *time.Time `gorm:"type:date"`

	CreatedAt time.Time `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			if strings.Contains(err.Message, "idx_payments_user_month") {
				return Payment{}, ErrInvoiceMonthExists
			}

			return Payment{}, ErrInvoiceCodeExists
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByInvoiceCode(ctx context.Context, code string) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, "invoice_code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByUserAndMonth(ctx context.Context, userID uint, month string) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).
		First(&payment, "user_id = ? AND month = ?", userID, month)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByMonth(ctx context.Context, month string) ([]Payment, error) {
	var payments []Payment

	result := d.db.WithContext(ctx).
		Preload("User").
		Where("month = ?", month).
		Order("user_id").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) FindByUser(ctx context.Context, userID uint) ([]Payment, error) {
	var payments []Payment

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

// RecordSettlement applies an out-of-band payment against the invoice.
func (d *PaymentDAO) RecordSettlement(ctx context.Context, id uint, amount float64, method string, date time.Time) (Payment, error) {
	payment, err := d.FindByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}

	updates := map[string]interface{}{
		"amount_paid":    payment.AmountPaid + amount,
		"payment_method": method,
		"payment_date":   date,
	}
	if payment.AmountPaid+amount >= payment.AmountDue {
		updates["paid"] = true
	}

	result := d.db.WithContext(ctx).Model(&Payment{ID: payment.ID}).Updates(updates)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return d.FindByID(ctx, id)
}
