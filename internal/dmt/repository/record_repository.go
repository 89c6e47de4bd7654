package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"gorm.io/gorm"
)

// RecordRepository DMT记录仓库
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// ListFilter 列表/导出共用的过滤条件。Limit <= 0 表示不分页。
type ListFilter struct {
	IsClosed      *bool
	CreatedByID   *int
	PartNumberID  *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Skip          int
	Limit         int
}

// Create 插入新记录
func (r *RecordRepository) Create(ctx context.Context, rec *entity.DMTRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// FindByID 按ID查找记录
func (r *RecordRepository) FindByID(ctx context.Context, id int) (*entity.DMTRecord, error) {
	var rec entity.DMTRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindAll 按过滤条件查询，created_at 倒序
func (r *RecordRepository) FindAll(ctx context.Context, f ListFilter) ([]entity.DMTRecord, error) {
	query := r.db.WithContext(ctx).Model(&entity.DMTRecord{})

	if f.IsClosed != nil {
		query = query.Where("is_closed = ?", *f.IsClosed)
	}
	if f.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *f.CreatedByID)
	}
	if f.PartNumberID != nil {
		query = query.Where("part_number_id = ?", *f.PartNumberID)
	}
	if f.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *f.CreatedBefore)
	}

	query = query.Order("created_at DESC")
	if f.Skip > 0 {
		query = query.Offset(f.Skip)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var items []entity.DMTRecord
	err := query.Find(&items).Error
	return items, err
}

// Save 整条覆盖保存（合并校验已在lifecycle完成）
func (r *RecordRepository) Save(ctx context.Context, rec *entity.DMTRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete 删除记录，不存在返回 ErrNotFound
func (r *RecordRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&entity.DMTRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByReportPrefix 统计报告编号前缀的数量（编号退回方案用）
func (r *RecordRepository) CountByReportPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DMTRecord{}).
		Where("report_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
