package dao

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("dockertest.NewPool -> %v", err)
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=postgres",
		"POSTGRES_DB=academy_test",
	})
	if err != nil {
		log.Fatalf("pool.Run -> %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=postgres dbname=academy_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}
		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres -> %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("InitTables -> %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("pool.Purge -> %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

func seedUser(t *testing.T, name, email string) User {
	t.Helper()

	user, err := NewUserDAO(testDB).Insert(context.Background(), User{
		Name:  name,
		Email: email,
		Role:  "student",
	})
	require.NoError(t, err)

	return user
}

func TestUserDAO_Insert_DuplicateEmail(t *testing.T) {
	requireDB(t)

	seedUser(t, "Dup Email", "dup.email@example.com")

	_, err := NewUserDAO(testDB).Insert(context.Background(), User{
		Name:  "Dup Email Again",
		Email: "dup.email@example.com",
		Role:  "student",
	})

	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAttendanceDAO_UpsertByNaturalKey(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	user := seedUser(t, "Upsert Kid", "upsert.kid@example.com")
	d := NewAttendanceDAO(testDB)

	first, err := d.Upsert(ctx, Attendance{
		ClassID:     501,
		UserID:      user.ID,
		Status:      "missing",
		CheckedInAt: time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	second, err := d.Upsert(ctx, Attendance{
		ClassID:     501,
		UserID:      user.ID,
		Status:      "present",
		CheckedInAt: time.Date(2024, time.June, 10, 9, 5, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// The (class, user) unique index forces an update, never a second row.
	assert.Equal(t, first.ID, second.ID)

	rows, err := d.FindByClass(ctx, 501)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "present", rows[0].Status)
}

func TestAttendanceDAO_Delete(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	user := seedUser(t, "Delete Kid", "delete.kid@example.com")
	d := NewAttendanceDAO(testDB)

	_, err := d.Upsert(ctx, Attendance{
		ClassID:     502,
		UserID:      user.ID,
		Status:      "present",
		CheckedInAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, 502, user.ID))

	_, err = d.FindByClassAndUser(ctx, 502, user.ID)
	assert.ErrorIs(t, err, ErrAttendanceNotFound)

	assert.ErrorIs(t, d.Delete(ctx, 502, user.ID), ErrAttendanceNotFound)
}

func TestPaymentDAO_UniqueViolations(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	user := seedUser(t, "Invoice Kid", "invoice.kid@example.com")
	other := seedUser(t, "Other Kid", "other.kid@example.com")
	d := NewPaymentDAO(testDB)

	_, err := d.Insert(ctx, Payment{
		UserID:      user.ID,
		Month:       "2024-06",
		InvoiceCode: "INV-20240601-TESTAAAA",
		AmountDue:   90,
	})
	require.NoError(t, err)

	_, err = d.Insert(ctx, Payment{
		UserID:      user.ID,
		Month:       "2024-06",
		InvoiceCode: "INV-20240601-TESTBBBB",
		AmountDue:   90,
	})
	assert.ErrorIs(t, err, ErrInvoiceMonthExists)

	_, err = d.Insert(ctx, Payment{
		UserID:      other.ID,
		Month:       "2024-06",
		InvoiceCode: "INV-20240601-TESTAAAA",
		AmountDue:   90,
	})
	assert.ErrorIs(t, err, ErrInvoiceCodeExists)
}

func TestPaymentDAO_RecordSettlement(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	user := seedUser(t, "Settle Kid", "settle.kid@example.com")
	d := NewPaymentDAO(testDB)

	invoice, err := d.Insert(ctx, Payment{
		UserID:      user.ID,
		Month:       "2024-07",
		InvoiceCode: "INV-20240701-TESTCCCC",
		AmountDue:   100,
	})
	require.NoError(t, err)

	partial, err := d.RecordSettlement(ctx, invoice.ID, 40, "Zelle", time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, partial.Paid)
	assert.Equal(t, 40.0, partial.AmountPaid)

	settled, err := d.RecordSettlement(ctx, invoice.ID, 60, "Venmo", time.Date(2024, time.July, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, settled.Paid)
	assert.Equal(t, 100.0, settled.AmountPaid)
}

func TestUserDAO_Merge(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	primary := seedUser(t, "Merge Kid", "merge.primary@example.com")
	secondary := seedUser(t, "Merge Kid", "merge.secondary@example.com")

	attendance := NewAttendanceDAO(testDB)
	earlier := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(10 * time.Minute)

	// Colliding row for the same class on both identities; the merge keeps
	// the most recent check-in.
	_, err := attendance.Upsert(ctx, Attendance{ClassID: 601, UserID: primary.ID, Status: "present", CheckedInAt: earlier})
	require.NoError(t, err)
	_, err = attendance.Upsert(ctx, Attendance{ClassID: 601, UserID: secondary.ID, Status: "late", CheckedInAt: later})
	require.NoError(t, err)

	// A row only the secondary holds; the merge re-points it.
	_, err = attendance.Upsert(ctx, Attendance{ClassID: 602, UserID: secondary.ID, Status: "present", CheckedInAt: later})
	require.NoError(t, err)

	users := NewUserDAO(testDB)
	require.NoError(t, users.Merge(ctx, primary.ID, secondary.ID))

	_, err = users.FindByID(ctx, secondary.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	kept, err := attendance.FindByClassAndUser(ctx, 601, primary.ID)
	require.NoError(t, err)
	assert.Equal(t, "late", kept.Status)
	assert.True(t, kept.CheckedInAt.Equal(later))

	moved, err := attendance.FindByClassAndUser(ctx, 602, primary.ID)
	require.NoError(t, err)
	assert.Equal(t, "present", moved.Status)
}
