package domain

import "time"

// Payment is one invoice per (user, month). The invoice code is the
// externally visible identifier a payer references when paying out-of-band.
type Payment struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	User          User       `json:"user,omitempty"`
	Month         string     `json:"month"` // e.g. "2024-07"
	InvoiceCode   string     `json:"invoice_code"`
	AmountDue     float64    `json:"amount_due"`
	AmountPaid    float64    `json:"amount_paid"`
	Paid          bool       `json:"paid"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
