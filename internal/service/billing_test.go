package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-api/internal/domain"
)

func newBillingFixture(registrations []domain.Registration, users []domain.User, classes ...domain.Class) (*BillingService, *fakePaymentRepo, *fakeNotifier) {
	payments := newFakePaymentRepo()
	notifier := &fakeNotifier{}
	svc := NewBillingService(
		&fakeRegistrationRepo{registrations: registrations},
		newFakeClassRepo(classes...),
		newFakeUserRepo(users...),
		payments,
		notifier,
	)

	return svc, payments, notifier
}

func TestMonthInterval(t *testing.T) {
	tests := []struct {
		month     string
		wantFirst time.Time
		wantLast  time.Time
		wantErr   bool
	}{
		{month: "2024-06", wantFirst: date(2024, time.June, 1), wantLast: date(2024, time.June, 30)},
		{month: "2024-02", wantFirst: date(2024, time.February, 1), wantLast: date(2024, time.February, 29)},
		{month: "2024-12", wantFirst: date(2024, time.December, 1), wantLast: date(2024, time.December, 31)},
		{month: "2024-7", wantErr: true},
		{month: "June 2024", wantErr: true},
		{month: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.month, func(t *testing.T) {
			first, last, err := MonthInterval(tt.month)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestBillingService_CalculateMonthlyBill_ClassBasis(t *testing.T) {
	perClass := domain.Package{ID: 5, Name: "Drop-in Tennis", Price: 30, Basis: domain.BasisClass}
	registration := domain.Registration{
		UserID:    7,
		PackageID: perClass.ID,
		Package:   perClass,
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 30),
		Status:    domain.RegistrationActive,
	}

	classes := []domain.Class{
		{ID: 1, PackageID: 5, Date: date(2024, time.June, 3)},
		{ID: 2, PackageID: 5, Date: date(2024, time.June, 10)},
		{ID: 3, PackageID: 5, Date: date(2024, time.June, 17)},
		{ID: 4, PackageID: 5, Date: date(2024, time.June, 24), Cancelled: true},
		{ID: 5, PackageID: 5, Date: date(2024, time.July, 1)},
	}

	svc, _, _ := newBillingFixture([]domain.Registration{registration}, nil, classes...)

	// Three billable June classes at $30: the cancelled one and the July
	// one do not count.
	amount, err := svc.CalculateMonthlyBill(context.Background(), 7, "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 90.0, amount)

	// Recalculating with unchanged inputs returns the same amount.
	again, err := svc.CalculateMonthlyBill(context.Background(), 7, "2024-06")
	require.NoError(t, err)
	assert.Equal(t, amount, again)
}

func TestBillingService_CalculateMonthlyBill_WeekBasis(t *testing.T) {
	perWeek := domain.Package{ID: 6, Name: "Weekly Training", Price: 100, Basis: domain.BasisWeek}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{
			name:  "17-day overlap bills 3 weeks",
			start: date(2024, time.June, 10),
			end:   date(2024, time.June, 26),
			want:  300,
		},
		{
			name:  "full June bills 5 weeks",
			start: date(2024, time.June, 1),
			end:   date(2024, time.June, 30),
			want:  500,
		},
		{
			name:  "window straddling the month is clamped",
			start: date(2024, time.May, 20),
			end:   date(2024, time.June, 7),
			want:  100,
		},
		{
			name:  "no overlap bills nothing",
			start: date(2024, time.July, 1),
			end:   date(2024, time.July, 31),
			want:  0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			registration := domain.Registration{
				UserID:    7,
				PackageID: perWeek.ID,
				Package:   perWeek,
				StartDate: tt.start,
				EndDate:   tt.end,
				Status:    domain.RegistrationActive,
			}
			svc, _, _ := newBillingFixture([]domain.Registration{registration}, nil)

			amount, err := svc.CalculateMonthlyBill(context.Background(), 7, "2024-06")

			require.NoError(t, err)
			assert.Equal(t, tt.want, amount)
		})
	}
}

func TestBillingService_GenerateMonthlyInvoices(t *testing.T) {
	student := domain.User{ID: 7, Name: "Ana Costa", Email: "ana@example.com", Role: domain.RoleStudent}
	coach := domain.User{ID: 8, Name: "Coach Kim", Email: "kim@example.com", Role: domain.RoleCoach}
	idle := domain.User{ID: 9, Name: "Ben Ito", Email: "ben@example.com", Role: domain.RoleStudent}

	perClass := domain.Package{ID: 5, Name: "Drop-in Tennis", Price: 30, Basis: domain.BasisClass}
	registration := domain.Registration{
		UserID:    student.ID,
		PackageID: perClass.ID,
		Package:   perClass,
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 30),
		Status:    domain.RegistrationActive,
	}
	class := domain.Class{ID: 1, PackageID: 5, Date: date(2024, time.June, 3)}

	svc, payments, notifier := newBillingFixture(
		[]domain.Registration{registration},
		[]domain.User{student, coach, idle},
		class,
	)
	svc.now = func() time.Time { return time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC) }

	run, err := svc.GenerateMonthlyInvoices(context.Background(), "2024-06")
	require.NoError(t, err)

	// Only the student with coverage owes anything; coaches and users with
	// a zero amount get no invoice.
	require.Len(t, run.Invoices, 1)
	invoice := run.Invoices[0]
	assert.Equal(t, student.ID, invoice.UserID)
	assert.Equal(t, 30.0, invoice.AmountDue)
	assert.Equal(t, "2024-06", invoice.Month)
	assert.Regexp(t, `^INV-20240601-[A-Z0-9]{8}$`, invoice.InvoiceCode)
	assert.Len(t, notifier.sent, 1)

	// Re-running the batch skips the already-invoiced user instead of
	// double-billing.
	rerun, err := svc.GenerateMonthlyInvoices(context.Background(), "2024-06")
	require.NoError(t, err)
	assert.Empty(t, rerun.Invoices)
	assert.Equal(t, 1, rerun.Skipped)

	stored, err := payments.FindByUserAndMonth(context.Background(), student.ID, "2024-06")
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceCode, stored.InvoiceCode)
}

func TestBillingService_GenerateMonthlyInvoices_InvalidMonth(t *testing.T) {
	svc, _, _ := newBillingFixture(nil, nil)

	_, err := svc.GenerateMonthlyInvoices(context.Background(), "junk")

	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestBillingService_MatchStatement(t *testing.T) {
	student := domain.User{ID: 7, Name: "Ana Costa", Role: domain.RoleStudent}
	svc, payments, _ := newBillingFixture(nil, []domain.User{student})

	invoice, err := payments.Create(context.Background(), domain.Payment{
		UserID:      student.ID,
		Month:       "2024-06",
		InvoiceCode: "INV-20240601-ABCD1234",
		AmountDue:   90,
	})
	require.NoError(t, err)

	statement := strings.Join([]string{
		"Date,Subject,Amount,Payment Method",
		"2024-06-05,Tennis INV-20240601-ABCD1234 June,90.00,Zelle",
		"2024-06-06,Utility bill,55.00,Venmo",
	}, "\n")

	outcome, err := svc.MatchStatement(context.Background(), strings.NewReader(statement))
	require.NoError(t, err)

	require.Len(t, outcome.Matched, 1)
	matched := outcome.Matched[0]
	assert.Equal(t, invoice.InvoiceCode, matched.InvoiceCode)
	assert.True(t, matched.Paid)
	assert.Equal(t, 90.0, matched.AmountPaid)
	assert.Equal(t, "Zelle", matched.PaymentMethod)
	require.NotNil(t, matched.PaymentDate)
	assert.Equal(t, date(2024, time.June, 5), *matched.PaymentDate)

	require.Len(t, outcome.Unmatched, 1)
	assert.Equal(t, "Utility bill", outcome.Unmatched[0])
}

func TestBillingService_MatchStatement_UnknownCodeIsUnmatched(t *testing.T) {
	svc, _, _ := newBillingFixture(nil, nil)

	statement := "Date,Subject,Amount\n2024-06-05,INV-20240601-FFFF0000 payment,50.00\n"

	outcome, err := svc.MatchStatement(context.Background(), strings.NewReader(statement))

	require.NoError(t, err)
	assert.Empty(t, outcome.Matched)
	assert.Len(t, outcome.Unmatched, 1)
}

func TestBillingService_CreateInvoice_UniqueCodes(t *testing.T) {
	student := domain.User{ID: 7, Name: "Ana Costa", Role: domain.RoleStudent}
	svc, payments, _ := newBillingFixture(nil, []domain.User{student})

	first, err := svc.createInvoice(context.Background(), student.ID, "2024-06", 30)
	require.NoError(t, err)

	second, err := svc.createInvoice(context.Background(), 8, "2024-06", 30)
	require.NoError(t, err)

	assert.NotEqual(t, first.InvoiceCode, second.InvoiceCode)

	all, err := payments.FindByMonth(context.Background(), "2024-06")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
