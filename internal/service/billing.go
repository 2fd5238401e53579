package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

var (
	ErrPaymentNotFound   = repository.ErrPaymentNotFound
	ErrInvoiceCodeExists = repository.ErrInvoiceCodeExists
	ErrInvalidMonth      = errors.New("invalid month, expected YYYY-MM")
)

var invoiceCodePattern = regexp.MustCompile(`INV-\d{8}-[A-Z0-9]{8}`)

type BillingRegistrationRepository interface {
	FindActiveByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
}

type BillingClassRepository interface {
	FindBillableByPackage(ctx context.Context, packageID uint, from, to time.Time) ([]domain.Class, error)
}

type BillingUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByRoles(ctx context.Context, roles []domain.Role) ([]domain.User, error)
}

type BillingPaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByUserAndMonth(ctx context.Context, userID uint, month string) (domain.Payment, error)
	FindByInvoiceCode(ctx context.Context, code string) (domain.Payment, error)
	FindByMonth(ctx context.Context, month string) ([]domain.Payment, error)
	RecordSettlement(ctx context.Context, id uint, amount float64, method string, date time.Time) (domain.Payment, error)
}

// Notifier delivers fire-and-forget email. A false return means the message
// did not go out; callers log and move on.
type Notifier interface {
	Send(user domain.User, subject, body string) bool
}

// InvoiceRun summarizes one invoice generation batch.
type InvoiceRun struct {
	Month    string           `json:"month"`
	Invoices []domain.Payment `json:"invoices"`
	Skipped  int              `json:"skipped"`
}

// MatchOutcome summarizes one statement reconciliation pass.
type MatchOutcome struct {
	Matched   []domain.Payment `json:"matched"`
	Unmatched []string         `json:"unmatched"`
}

// BillingService computes monthly amounts from registration coverage and
// class-type pricing, and reconciles out-of-band payments against invoices.
type BillingService struct {
	registrations BillingRegistrationRepository
	classes       BillingClassRepository
	users         BillingUserRepository
	payments      BillingPaymentRepository
	notifier      Notifier

	now func() time.Time
}

func NewBillingService(
	registrations BillingRegistrationRepository,
	classes BillingClassRepository,
	users BillingUserRepository,
	payments BillingPaymentRepository,
	notifier Notifier,
) *BillingService {
	return &BillingService{
		registrations: registrations,
		classes:       classes,
		users:         users,
		payments:      payments,
		notifier:      notifier,
		now:           time.Now,
	}
}

// MonthInterval resolves "YYYY-MM" to the month's first and last day. The
// last day is the following month's first day minus one, so December rolls
// over into January correctly.
func MonthInterval(month string) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}

	last := first.AddDate(0, 1, 0).AddDate(0, 0, -1)

	return first, last, nil
}

// CalculateMonthlyBill computes what the user owes for the month. It is a
// pure function of the stored registrations and classes: re-running it with
// unchanged inputs returns the same amount.
//
// Class-basis packages bill per non-cancelled class scheduled in the month.
// Week-basis packages bill floor(days/7)+1 weeks over the registration
// window clamped to the month, a deliberately rough, non-calendar-aligned
// count kept as-is because changing it would silently alter historical
// invoice amounts. Partial-month registration windows are not prorated.
func (s *BillingService) CalculateMonthlyBill(ctx context.Context, userID uint, month string) (float64, error) {
	first, last, err := MonthInterval(month)
	if err != nil {
		return 0, err
	}

	registrations, err := s.registrations.FindActiveByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.registrations.FindActiveByUser -> %w", err)
	}

	var amount float64
	for _, registration := range registrations {
		switch registration.Package.Basis {
		case domain.BasisClass:
			classes, err := s.classes.FindBillableByPackage(ctx, registration.PackageID, first, last)
			if err != nil {
				return 0, fmt.Errorf("s.classes.FindBillableByPackage -> %w", err)
			}
			amount += float64(len(classes)) * registration.Package.Price

		case domain.BasisWeek:
			weeks := billedWeeks(registration, first, last)
			amount += float64(weeks) * registration.Package.Price
		}
	}

	return amount, nil
}

// billedWeeks counts weeks over the registration window clamped to the
// billing month: floor(days/7) + 1. A 17-day overlap bills 3 weeks.
func billedWeeks(registration domain.Registration, first, last time.Time) int {
	start := registration.StartDate
	if start.Before(first) {
		start = first
	}
	end := registration.EndDate
	if end.After(last) {
		end = last
	}
	if end.Before(start) {
		return 0
	}

	days := int(end.Sub(start).Hours() / 24)

	return days/7 + 1
}

// GenerateMonthlyInvoices creates one invoice per billable user with a
// positive amount for the month. Users already invoiced for the month are
// skipped, so re-running a batch cannot double-bill. Invoice emails are
// fire-and-forget.
func (s *BillingService) GenerateMonthlyInvoices(ctx context.Context, month string) (InvoiceRun, error) {
	if _, _, err := MonthInterval(month); err != nil {
		return InvoiceRun{}, err
	}

	billable, err := s.users.FindByRoles(ctx, []domain.Role{domain.RoleStudent, domain.RoleParent})
	if err != nil {
		return InvoiceRun{}, fmt.Errorf("s.users.FindByRoles -> %w", err)
	}

	run := InvoiceRun{Month: month, Invoices: make([]domain.Payment, 0, len(billable))}
	for _, user := range billable {
		amount, err := s.CalculateMonthlyBill(ctx, user.ID, month)
		if err != nil {
			return InvoiceRun{}, err
		}
		if amount <= 0 {
			continue
		}

		_, err = s.payments.FindByUserAndMonth(ctx, user.ID, month)
		if err == nil {
			run.Skipped++
			continue
		}
		if !errors.Is(err, repository.ErrPaymentNotFound) {
			return InvoiceRun{}, fmt.Errorf("s.payments.FindByUserAndMonth -> %w", err)
		}

		payment, err := s.createInvoice(ctx, user.ID, month, amount)
		if err != nil {
			return InvoiceRun{}, err
		}
		run.Invoices = append(run.Invoices, payment)

		subject := fmt.Sprintf("Invoice for %s (Code: %s)", month, payment.InvoiceCode)
		body := fmt.Sprintf("Hi %s,\n\nYour invoice for %s is %.2f.\nPlease reference code %s when paying.\n",
			user.Name, month, amount, payment.InvoiceCode)
		if !s.notifier.Send(user, subject, body) {
			zap.L().Warn("invoice email not delivered",
				zap.Uint("user_id", user.ID),
				zap.String("invoice_code", payment.InvoiceCode))
		}
	}

	return run, nil
}

// createInvoice inserts the payment row, retrying with a fresh code on the
// astronomically unlikely invoice-code collision.
func (s *BillingService) createInvoice(ctx context.Context, userID uint, month string, amount float64) (domain.Payment, error) {
	const maxAttempts = 3

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		payment, err := s.payments.Create(ctx, domain.Payment{
			UserID:      userID,
			Month:       month,
			InvoiceCode: s.newInvoiceCode(),
			AmountDue:   amount,
		})
		if err == nil {
			return payment, nil
		}
		if !errors.Is(err, repository.ErrInvoiceCodeExists) {
			return domain.Payment{}, fmt.Errorf("s.payments.Create -> %w", err)
		}
		lastErr = err
	}

	return domain.Payment{}, fmt.Errorf("s.payments.Create -> %w", lastErr)
}

// newInvoiceCode returns a code like INV-20240601-3F2A9C1B.
func (s *BillingService) newInvoiceCode() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]

	return fmt.Sprintf("INV-%s-%s", s.now().Format("20060102"), random)
}

// MonthlyInvoices lists the invoices generated for a month.
func (s *BillingService) MonthlyInvoices(ctx context.Context, month string) ([]domain.Payment, error) {
	if _, _, err := MonthInterval(month); err != nil {
		return nil, err
	}

	payments, err := s.payments.FindByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("s.payments.FindByMonth -> %w", err)
	}

	return payments, nil
}

// MatchStatement reconciles a CSV export from an external payment service
// (Zelle, Venmo) against open invoices. Each row's subject is scanned for an
// invoice code; matched rows settle the invoice, the rest are reported back
// for manual inspection. Silent loss of a billing record is unacceptable, so
// store failures abort the pass.
func (s *BillingService) MatchStatement(ctx context.Context, statement io.Reader) (MatchOutcome, error) {
	reader := csv.NewReader(statement)

	header, err := reader.Read()
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("csv.Read header -> %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	outcome := MatchOutcome{Matched: make([]domain.Payment, 0), Unmatched: make([]string, 0)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return MatchOutcome{}, fmt.Errorf("csv.Read -> %w", err)
		}

		subject := field(record, columns, "Subject")
		code := invoiceCodePattern.FindString(subject)
		if code == "" {
			outcome.Unmatched = append(outcome.Unmatched, subject)
			continue
		}

		payment, err := s.payments.FindByInvoiceCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				outcome.Unmatched = append(outcome.Unmatched, subject)
				continue
			}

			return MatchOutcome{}, fmt.Errorf("s.payments.FindByInvoiceCode -> %w", err)
		}

		amount, _ := strconv.ParseFloat(field(record, columns, "Amount"), 64)
		method := field(record, columns, "Payment Method")
		if method == "" {
			method = "Zelle/Venmo"
		}
		date := s.now()
		if parsed, err := time.Parse("2006-01-02", field(record, columns, "Date")); err == nil {
			date = parsed
		}

		settled, err := s.payments.RecordSettlement(ctx, payment.ID, amount, method, date)
		if err != nil {
			return MatchOutcome{}, fmt.Errorf("s.payments.RecordSettlement -> %w", err)
		}
		outcome.Matched = append(outcome.Matched, settled)
	}

	return outcome, nil
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}
