package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"gorm.io/gorm"
)

// CatalogRepository 基础资料目录仓库。所有目录表结构相同，
// 表名由 CatalogKind 穷举映射给出，不拼接外部输入。
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) table(ctx context.Context, kind entity.CatalogKind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.TableName())
}

// Create 新增目录条目
func (r *CatalogRepository) Create(ctx context.Context, kind entity.CatalogKind, e *entity.CatalogEntry) error {
	return r.table(ctx, kind).Create(e).Error
}

// FindByID 按ID查找目录条目
func (r *CatalogRepository) FindByID(ctx context.Context, kind entity.CatalogKind, id int) (*entity.CatalogEntry, error) {
	var e entity.CatalogEntry
	err := r.table(ctx, kind).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByItemNumber 按编码查找目录条目
func (r *CatalogRepository) FindByItemNumber(ctx context.Context, kind entity.CatalogKind, number string) (*entity.CatalogEntry, error) {
	var e entity.CatalogEntry
	err := r.table(ctx, kind).Where("item_number = ?", number).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAll 目录条目列表，按编码排序
func (r *CatalogRepository) FindAll(ctx context.Context, kind entity.CatalogKind, skip, limit int) ([]entity.CatalogEntry, error) {
	query := r.table(ctx, kind).Order("item_number ASC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []entity.CatalogEntry
	err := query.Find(&items).Error
	return items, err
}

// Update 保存目录条目
func (r *CatalogRepository) Update(ctx context.Context, kind entity.CatalogKind, e *entity.CatalogEntry) error {
	return r.table(ctx, kind).Where("id = ?", e.ID).Updates(map[string]any{
		"item_number": e.ItemNumber,
		"item_name":   e.ItemName,
	}).Error
}

// Delete 删除目录条目，不存在返回 ErrNotFound
func (r *CatalogRepository) Delete(ctx context.Context, kind entity.CatalogKind, id int) error {
	res := r.table(ctx, kind).Where("id = ?", id).Delete(&entity.CatalogEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
