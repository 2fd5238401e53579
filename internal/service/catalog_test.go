package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

type fakeClassStore struct {
	classes map[uint]domain.Class
	nextID  uint
}

func newFakeClassStore(classes ...domain.Class) *fakeClassStore {
	f := &fakeClassStore{classes: make(map[uint]domain.Class)}
	for _, class := range classes {
		f.classes[class.ID] = class
		if class.ID > f.nextID {
			f.nextID = class.ID
		}
	}

	return f
}

func (f *fakeClassStore) Create(_ context.Context, class domain.Class) (domain.Class, error) {
	f.nextID++
	class.ID = f.nextID
	f.classes[class.ID] = class

	return class, nil
}

func (f *fakeClassStore) FindByID(_ context.Context, id uint) (domain.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return domain.Class{}, repository.ErrClassNotFound
	}

	return class, nil
}

func (f *fakeClassStore) FindAll(_ context.Context) ([]domain.Class, error) {
	var classes []domain.Class
	for _, class := range f.classes {
		classes = append(classes, class)
	}

	return classes, nil
}

func (f *fakeClassStore) Cancel(_ context.Context, id uint) (domain.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return domain.Class{}, repository.ErrClassNotFound
	}
	class.Cancelled = true
	f.classes[id] = class

	return class, nil
}

func TestCatalogService_CreatePackage(t *testing.T) {
	t.Run("rejects an unknown basis", func(t *testing.T) {
		svc := NewCatalogService(newFakeCatalogRepo(), newFakeClassStore(), &fakeRegistrationRepo{}, &fakeNotifier{})

		_, err := svc.CreatePackage(context.Background(), domain.Package{
			Name:  "Tennis Pass",
			Price: 30,
			Basis: "fortnight",
		})

		assert.ErrorIs(t, err, ErrInvalidBasis)
	})

	t.Run("rejects a missing class type", func(t *testing.T) {
		svc := NewCatalogService(newFakeCatalogRepo(), newFakeClassStore(), &fakeRegistrationRepo{}, &fakeNotifier{})

		_, err := svc.CreatePackage(context.Background(), domain.Package{
			Name:        "Tennis Pass",
			Price:       30,
			Basis:       domain.BasisClass,
			ClassTypeID: uintPtr(999),
		})

		assert.ErrorIs(t, err, ErrClassTypeNotFound)
	})

	t.Run("creates a type-agnostic package", func(t *testing.T) {
		svc := NewCatalogService(newFakeCatalogRepo(), newFakeClassStore(), &fakeRegistrationRepo{}, &fakeNotifier{})

		pkg, err := svc.CreatePackage(context.Background(), domain.Package{
			Name:  "All Access",
			Price: 250,
			Basis: domain.BasisWeek,
		})

		require.NoError(t, err)
		assert.NotZero(t, pkg.ID)
		assert.Nil(t, pkg.ClassTypeID)
	})
}

func TestCatalogService_CancelClass(t *testing.T) {
	student := domain.User{ID: 7, Name: "Ana Costa", Email: "ana@example.com", Role: domain.RoleStudent}
	class := domain.Class{ID: 10, PackageID: 5, ClassTypeID: 1, Date: date(2024, time.June, 10)}
	registration := domain.Registration{
		UserID:    student.ID,
		User:      student,
		PackageID: 5,
		Package:   domain.Package{ID: 5, Name: "Tennis Pass", ClassTypeID: uintPtr(1)},
		StartDate: date(2024, time.June, 1),
		EndDate:   date(2024, time.June, 30),
		Status:    domain.RegistrationActive,
	}

	notifier := &fakeNotifier{}
	svc := NewCatalogService(
		newFakeCatalogRepo(),
		newFakeClassStore(class),
		&fakeRegistrationRepo{registrations: []domain.Registration{registration}},
		notifier,
	)

	cancelled, err := svc.CancelClass(context.Background(), class.ID)

	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled)
	assert.Len(t, notifier.sent, 1)

	_, err = svc.CancelClass(context.Background(), 999)
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestCatalogService_AddPackageOption(t *testing.T) {
	pkg := domain.Package{ID: 5, Name: "Tennis Pass"}
	svc := NewCatalogService(newFakeCatalogRepo(pkg), newFakeClassStore(), &fakeRegistrationRepo{}, &fakeNotifier{})

	option, err := svc.AddPackageOption(context.Background(), domain.PackageOption{
		PackageID: pkg.ID,
		Label:     "Week of June 10, 2024",
		StartDate: date(2024, time.June, 10),
		EndDate:   date(2024, time.June, 16),
	})
	require.NoError(t, err)
	assert.NotZero(t, option.ID)

	_, err = svc.AddPackageOption(context.Background(), domain.PackageOption{PackageID: 999})
	assert.ErrorIs(t, err, ErrPackageNotFound)
}
