package repository

import (
	"context"
	"fmt"

	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByName(ctx context.Context, name string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	FindByRoles(ctx context.Context, roles []string) ([]dao.User, error)
	Merge(ctx context.Context, primaryID, secondaryID uint) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userDaoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (domain.User, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return userDaoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, userDaoToDomain(u))
	}

	return users, nil
}

func (r *UserRepository) FindByRoles(ctx context.Context, roles []domain.Role) ([]domain.User, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}

	found, err := r.dao.FindByRoles(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRoles -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, userDaoToDomain(u))
	}

	return users, nil
}

func (r *UserRepository) Merge(ctx context.Context, primaryID, secondaryID uint) error {
	if err := r.dao.Merge(ctx, primaryID, secondaryID); err != nil {
		return fmt.Errorf("r.dao.Merge -> %w", err)
	}

	return nil
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      domain.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
