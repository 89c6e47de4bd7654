package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
)

// CatalogEntryInput 目录条目入参，创建和更新共用
type CatalogEntryInput struct {
	ItemNumber string `json:"item_number" binding:"required"`
	ItemName   string `json:"item_name" binding:"required"`
}

// CatalogService 目录维护，写操作仅限Admin
type CatalogService struct {
	catalog CatalogStore
}

func NewCatalogService(catalog CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Create 创建目录条目，item_number在同类目录内唯一
func (s *CatalogService) Create(ctx context.Context, actor entity.Principal, kind entity.CatalogKind, in CatalogEntryInput) (*entity.CatalogEntry, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("create %s entry: %w", kind, entity.ErrForbidden)
	}

	number := strings.TrimSpace(in.ItemNumber)
	if number == "" {
		return nil, &entity.ValidationError{Message: "missing required fields", Fields: []string{"item_number"}}
	}

	if _, err := s.catalog.FindByItemNumber(ctx, kind, number); err == nil {
		return nil, repository.ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	entry := &entity.CatalogEntry{ItemNumber: number, ItemName: in.ItemName}
	if err := s.catalog.Create(ctx, kind, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Get 按ID获取目录条目
func (s *CatalogService) Get(ctx context.Context, kind entity.CatalogKind, id int) (*entity.CatalogEntry, error) {
	return s.catalog.FindByID(ctx, kind, id)
}

// List 列出目录条目
func (s *CatalogService) List(ctx context.Context, kind entity.CatalogKind, skip, limit int) ([]entity.CatalogEntry, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	return s.catalog.FindAll(ctx, kind, skip, limit)
}

// Update 更新目录条目
func (s *CatalogService) Update(ctx context.Context, actor entity.Principal, kind entity.CatalogKind, id int, in CatalogEntryInput) (*entity.CatalogEntry, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("update %s entry: %w", kind, entity.ErrForbidden)
	}

	entry, err := s.catalog.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(in.ItemNumber)
	if number == "" {
		return nil, &entity.ValidationError{Message: "missing required fields", Fields: []string{"item_number"}}
	}
	if number != entry.ItemNumber {
		if existing, err := s.catalog.FindByItemNumber(ctx, kind, number); err == nil && existing.ID != id {
			return nil, repository.ErrDuplicate
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	entry.ItemNumber = number
	entry.ItemName = in.ItemName
	if err := s.catalog.Update(ctx, kind, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete 删除目录条目
func (s *CatalogService) Delete(ctx context.Context, actor entity.Principal, kind entity.CatalogKind, id int) error {
	if actor.Role != entity.RoleAdmin {
		return fmt.Errorf("delete %s entry: %w", kind, entity.ErrForbidden)
	}
	return s.catalog.Delete(ctx, kind, id)
}
