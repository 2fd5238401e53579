package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidQRData   = errors.New("invalid QR code format")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByName(ctx context.Context, name string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if !user.Role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// FindOrCreateByIdentity resolves a user from a scanned or typed identity:
// email first, then name, creating a student on the fly when neither hits.
// Front-desk check-in must never stall on a missing row.
func (s *UserService) FindOrCreateByIdentity(ctx context.Context, name, email string) (domain.User, error) {
	if email != "" {
		user, err := s.repo.FindByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
		}
	}

	user, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	if email == "" {
		email = fmt.Sprintf("%s@example.com", strings.ReplaceAll(strings.ToLower(name), " ", "."))
	}

	created, err := s.repo.Create(ctx, domain.User{
		Name:  name,
		Email: email,
		Role:  domain.RoleStudent,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// QRPayload is the string encoded into a user's check-in QR code. Image
// rendering happens client-side; the engine only owns the payload contract.
func QRPayload(user domain.User) string {
	return fmt.Sprintf("%d:%s", user.ID, user.Name)
}

// ResolveQRPayload parses an "<id>:<name>" payload back into the user it
// names.
func (s *UserService) ResolveQRPayload(ctx context.Context, payload string) (domain.User, error) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return domain.User{}, ErrInvalidQRData
	}

	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return domain.User{}, ErrInvalidQRData
	}

	user, err := s.repo.FindByID(ctx, uint(id))
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}
