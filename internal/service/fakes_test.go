package service

import (
	"context"
	"time"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

type attendanceKey struct {
	classID uint
	userID  uint
}

// fakeAttendanceRepo is an in-memory AttendanceRepository keyed by the
// (class, user) natural key, matching the unique index the real DAO relies
// on. Reads hydrate the User field the way the real DAO preloads it.
type fakeAttendanceRepo struct {
	rows   map[attendanceKey]domain.Attendance
	users  *fakeUserRepo
	nextID uint
}

func newFakeAttendanceRepo(users *fakeUserRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		rows:  make(map[attendanceKey]domain.Attendance),
		users: users,
	}
}

func (f *fakeAttendanceRepo) hydrate(row domain.Attendance) domain.Attendance {
	if f.users != nil {
		row.User = f.users.users[row.UserID]
	}

	return row
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, attendance domain.Attendance) (domain.Attendance, error) {
	key := attendanceKey{attendance.ClassID, attendance.UserID}
	if existing, ok := f.rows[key]; ok {
		attendance.ID = existing.ID
	} else {
		f.nextID++
		attendance.ID = f.nextID
	}
	f.rows[key] = attendance

	return attendance, nil
}

func (f *fakeAttendanceRepo) FindByClassAndUser(_ context.Context, classID, userID uint) (domain.Attendance, error) {
	row, ok := f.rows[attendanceKey{classID, userID}]
	if !ok {
		return domain.Attendance{}, repository.ErrAttendanceNotFound
	}

	return f.hydrate(row), nil
}

func (f *fakeAttendanceRepo) FindByClass(_ context.Context, classID uint) ([]domain.Attendance, error) {
	var rows []domain.Attendance
	for key, row := range f.rows {
		if key.classID == classID {
			rows = append(rows, f.hydrate(row))
		}
	}

	return rows, nil
}

func (f *fakeAttendanceRepo) FindByUserBetween(_ context.Context, userID uint, _, _ *time.Time) ([]domain.Attendance, error) {
	var rows []domain.Attendance
	for key, row := range f.rows {
		if key.userID == userID {
			rows = append(rows, f.hydrate(row))
		}
	}

	return rows, nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, classID, userID uint) error {
	key := attendanceKey{classID, userID}
	if _, ok := f.rows[key]; !ok {
		return repository.ErrAttendanceNotFound
	}
	delete(f.rows, key)

	return nil
}

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint]domain.User)}
	for _, user := range users {
		f.users[user.ID] = user
		if user.ID > f.nextID {
			f.nextID = user.ID
		}
	}

	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByName(_ context.Context, name string) (domain.User, error) {
	for _, user := range f.users {
		if user.Name == name {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, user := range f.users {
		users = append(users, user)
	}

	return users, nil
}

func (f *fakeUserRepo) FindByRoles(_ context.Context, roles []domain.Role) ([]domain.User, error) {
	var users []domain.User
	for _, user := range f.users {
		for _, role := range roles {
			if user.Role == role {
				users = append(users, user)
				break
			}
		}
	}

	return users, nil
}

type fakeClassRepo struct {
	classes map[uint]domain.Class
}

func newFakeClassRepo(classes ...domain.Class) *fakeClassRepo {
	f := &fakeClassRepo{classes: make(map[uint]domain.Class)}
	for _, class := range classes {
		f.classes[class.ID] = class
	}

	return f
}

func (f *fakeClassRepo) FindByID(_ context.Context, id uint) (domain.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return domain.Class{}, repository.ErrClassNotFound
	}

	return class, nil
}

func (f *fakeClassRepo) FindBillableByPackage(_ context.Context, packageID uint, from, to time.Time) ([]domain.Class, error) {
	var classes []domain.Class
	for _, class := range f.classes {
		if class.PackageID != packageID || class.Cancelled {
			continue
		}
		if class.Date.Before(from) || class.Date.After(to) {
			continue
		}
		classes = append(classes, class)
	}

	return classes, nil
}

type fakeRegistrationRepo struct {
	registrations []domain.Registration
}

func (f *fakeRegistrationRepo) FindActiveByUser(_ context.Context, userID uint) ([]domain.Registration, error) {
	var active []domain.Registration
	for _, registration := range f.registrations {
		if registration.UserID == userID && registration.Status == domain.RegistrationActive {
			active = append(active, registration)
		}
	}

	return active, nil
}

func (f *fakeRegistrationRepo) FindActiveByUserOnDate(_ context.Context, userID uint, on time.Time) ([]domain.Registration, error) {
	var covering []domain.Registration
	for _, registration := range f.registrations {
		if registration.UserID == userID && registration.Covers(on) {
			covering = append(covering, registration)
		}
	}

	return covering, nil
}

func (f *fakeRegistrationRepo) FindActiveByClassTypeOnDate(_ context.Context, classTypeID uint, on time.Time) ([]domain.Registration, error) {
	var covering []domain.Registration
	for _, registration := range f.registrations {
		if !registration.Covers(on) {
			continue
		}
		if registration.Package.ClassTypeID != nil && *registration.Package.ClassTypeID != classTypeID {
			continue
		}
		covering = append(covering, registration)
	}

	return covering, nil
}

type fakePaymentRepo struct {
	payments map[uint]domain.Payment
	nextID   uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uint]domain.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	for _, existing := range f.payments {
		if existing.UserID == payment.UserID && existing.Month == payment.Month {
			return domain.Payment{}, repository.ErrInvoiceMonthExists
		}
		if existing.InvoiceCode == payment.InvoiceCode {
			return domain.Payment{}, repository.ErrInvoiceCodeExists
		}
	}
	f.nextID++
	payment.ID = f.nextID
	f.payments[payment.ID] = payment

	return payment, nil
}

func (f *fakePaymentRepo) FindByUserAndMonth(_ context.Context, userID uint, month string) (domain.Payment, error) {
	for _, payment := range f.payments {
		if payment.UserID == userID && payment.Month == month {
			return payment, nil
		}
	}

	return domain.Payment{}, repository.ErrPaymentNotFound
}

func (f *fakePaymentRepo) FindByInvoiceCode(_ context.Context, code string) (domain.Payment, error) {
	for _, payment := range f.payments {
		if payment.InvoiceCode == code {
			return payment, nil
		}
	}

	return domain.Payment{}, repository.ErrPaymentNotFound
}

func (f *fakePaymentRepo) FindByMonth(_ context.Context, month string) ([]domain.Payment, error) {
	var payments []domain.Payment
	for _, payment := range f.payments {
		if payment.Month == month {
			payments = append(payments, payment)
		}
	}

	return payments, nil
}

func (f *fakePaymentRepo) RecordSettlement(_ context.Context, id uint, amount float64, method string, date time.Time) (domain.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}
	payment.AmountPaid += amount
	payment.PaymentMethod = method
	payment.PaymentDate = &date
	payment.Paid = payment.AmountPaid >= payment.AmountDue
	f.payments[id] = payment

	return payment, nil
}

// fakeNotifier records every send and never fails.
type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(_ domain.User, subject, _ string) bool {
	f.sent = append(f.sent, subject)

	return true
}
