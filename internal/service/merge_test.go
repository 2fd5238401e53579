package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/academy-api/internal/domain"
)

type fakeMergeRepo struct {
	*fakeUserRepo
	merged [][2]uint
}

func (f *fakeMergeRepo) Merge(_ context.Context, primaryID, secondaryID uint) error {
	f.merged = append(f.merged, [2]uint{primaryID, secondaryID})
	delete(f.users, secondaryID)

	return nil
}

func TestMergeService_Merge(t *testing.T) {
	primary := domain.User{ID: 1, Name: "Ana Costa", Email: "ana@example.com", Role: domain.RoleStudent}
	duplicate := domain.User{ID: 2, Name: "ana costa", Email: "ana.costa@example.com", Role: domain.RoleStudent}
	stranger := domain.User{ID: 3, Name: "Ben Ito", Email: "ben@example.com", Role: domain.RoleStudent}

	t.Run("folds the duplicate into the primary", func(t *testing.T) {
		repo := &fakeMergeRepo{fakeUserRepo: newFakeUserRepo(primary, duplicate)}
		svc := NewMergeService(repo)

		merged, err := svc.Merge(context.Background(), primary.Email, duplicate.Email)

		require.NoError(t, err)
		assert.Equal(t, primary.ID, merged.ID)
		require.Len(t, repo.merged, 1)
		assert.Equal(t, [2]uint{primary.ID, duplicate.ID}, repo.merged[0])

		// The secondary identity is gone afterwards.
		_, err = repo.FindByEmail(context.Background(), duplicate.Email)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("name comparison ignores case", func(t *testing.T) {
		repo := &fakeMergeRepo{fakeUserRepo: newFakeUserRepo(primary, duplicate)}
		svc := NewMergeService(repo)

		_, err := svc.Merge(context.Background(), primary.Email, duplicate.Email)

		assert.NoError(t, err)
	})

	t.Run("rejects users with different names", func(t *testing.T) {
		repo := &fakeMergeRepo{fakeUserRepo: newFakeUserRepo(primary, stranger)}
		svc := NewMergeService(repo)

		_, err := svc.Merge(context.Background(), primary.Email, stranger.Email)

		assert.ErrorIs(t, err, ErrNameMismatch)
		assert.Empty(t, repo.merged)
	})

	t.Run("rejects merging a user into itself", func(t *testing.T) {
		repo := &fakeMergeRepo{fakeUserRepo: newFakeUserRepo(primary)}
		svc := NewMergeService(repo)

		_, err := svc.Merge(context.Background(), primary.Email, primary.Email)

		assert.ErrorIs(t, err, ErrSameUser)
	})

	t.Run("rejects unknown emails", func(t *testing.T) {
		repo := &fakeMergeRepo{fakeUserRepo: newFakeUserRepo(primary)}
		svc := NewMergeService(repo)

		_, err := svc.Merge(context.Background(), primary.Email, "nobody@example.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
