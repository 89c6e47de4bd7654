package repository

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("duplicate entry")
)

// Repositories 仓库集合
type Repositories struct {
	Record   *RecordRepository
	User     *UserRepository
	Catalog  *CatalogRepository
	Sequence *ReportSequence
}

// NewRepositories 创建仓库集合。rdb 可为 nil（报告编号退回计数方案）。
func NewRepositories(db *gorm.DB, rdb *redis.Client) *Repositories {
	record := NewRecordRepository(db)
	return &Repositories{
		Record:   record,
		User:     NewUserRepository(db),
		Catalog:  NewCatalogRepository(db),
		Sequence: NewReportSequence(rdb, record),
	}
}
