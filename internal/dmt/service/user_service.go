package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
	"golang.org/x/crypto/bcrypt"
)

// CreateUserInput 创建用户入参
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserInput 更新用户入参，空字段不变
type UpdateUserInput struct {
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService 用户管理，写操作仅限Admin
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Create 创建用户
func (s *UserService) Create(ctx context.Context, actor entity.Principal, in CreateUserInput) (*entity.User, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("create user: %w", entity.ErrForbidden)
	}

	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, &entity.ValidationError{Message: "invalid role", Fields: []string{"role"}}
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, &entity.ValidationError{Message: "missing required fields", Fields: []string{"username"}}
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, repository.ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:       username,
		FullName:       in.FullName,
		Role:           role,
		CredentialHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get 按ID获取用户
func (s *UserService) Get(ctx context.Context, id int) (*entity.User, error) {
	return s.users.FindByID(ctx, id)
}

// List 列出用户，role为空时不过滤
func (s *UserService) List(ctx context.Context, role entity.Role) ([]entity.User, error) {
	return s.users.FindAll(ctx, role)
}

// Update 更新用户
func (s *UserService) Update(ctx context.Context, actor entity.Principal, id int, in UpdateUserInput) (*entity.User, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("update user: %w", entity.ErrForbidden)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Role != "" {
		role := entity.Role(in.Role)
		if !role.Valid() {
			return nil, &entity.ValidationError{Message: "invalid role", Fields: []string{"role"}}
		}
		user.Role = role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.CredentialHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除用户，不允许删除自己
func (s *UserService) Delete(ctx context.Context, actor entity.Principal, id int) error {
	if actor.Role != entity.RoleAdmin {
		return fmt.Errorf("delete user: %w", entity.ErrForbidden)
	}
	if actor.ID == id {
		return &entity.ValidationError{Message: "cannot delete the current user"}
	}
	return s.users.Delete(ctx, id)
}
