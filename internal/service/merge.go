package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/courtside/academy-api/internal/domain"
)

var (
	ErrNameMismatch = errors.New("users do not share the same name")
	ErrSameUser     = errors.New("cannot merge a user into itself")
)

type MergeUserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Merge(ctx context.Context, primaryID, secondaryID uint) error
}

// MergeService folds duplicate identities into one. The same-name check is a
// crude anti-footgun, not identity verification; operators are expected to
// have confirmed the duplicate out-of-band.
type MergeService struct {
	users MergeUserRepository
}

func NewMergeService(users MergeUserRepository) *MergeService {
	return &MergeService{
		users: users,
	}
}

// Merge re-points every registration, attendance and payment owned by the
// secondary user to the primary user and deletes the secondary. The whole
// re-pointing runs in one transaction; a partial merge would split a user's
// billing history across two identities with no recovery path. Colliding
// (class, user) attendance pairs keep the most recent check-in.
func (s *MergeService) Merge(ctx context.Context, primaryEmail, secondaryEmail string) (domain.User, error) {
	primary, err := s.users.FindByEmail(ctx, primaryEmail)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	secondary, err := s.users.FindByEmail(ctx, secondaryEmail)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	if primary.ID == secondary.ID {
		return domain.User{}, ErrSameUser
	}
	if !strings.EqualFold(primary.Name, secondary.Name) {
		return domain.User{}, ErrNameMismatch
	}

	if err := s.users.Merge(ctx, primary.ID, secondary.ID); err != nil {
		return domain.User{}, fmt.Errorf("s.users.Merge -> %w", err)
	}

	return primary, nil
}
