package service

import (
	"context"
	"time"

	"github.com/bitfantasy/dmt/internal/config"
	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
)

// RecordStore DMT记录存储
type RecordStore interface {
	Create(ctx context.Context, rec *entity.DMTRecord) error
	FindByID(ctx context.Context, id int) (*entity.DMTRecord, error)
	FindAll(ctx context.Context, f repository.ListFilter) ([]entity.DMTRecord, error)
	Save(ctx context.Context, rec *entity.DMTRecord) error
	Delete(ctx context.Context, id int) error
}

// SequenceAllocator 报告编号分配
type SequenceAllocator interface {
	Next(ctx context.Context, day time.Time) (string, error)
}

// UserStore 用户存储
type UserStore interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context, role entity.Role) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int) error
}

// CatalogStore 目录存储
type CatalogStore interface {
	Create(ctx context.Context, kind entity.CatalogKind, e *entity.CatalogEntry) error
	FindByID(ctx context.Context, kind entity.CatalogKind, id int) (*entity.CatalogEntry, error)
	FindByItemNumber(ctx context.Context, kind entity.CatalogKind, number string) (*entity.CatalogEntry, error)
	FindAll(ctx context.Context, kind entity.CatalogKind, skip, limit int) ([]entity.CatalogEntry, error)
	Update(ctx context.Context, kind entity.CatalogKind, e *entity.CatalogEntry) error
	Delete(ctx context.Context, kind entity.CatalogKind, id int) error
}

// Services 服务集合
type Services struct {
	Auth    *AuthService
	User    *UserService
	Catalog *CatalogService
	DMT     *DMTService
	Export  *ExportService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, cfg.JWT),
		User:    NewUserService(repos.User),
		Catalog: NewCatalogService(repos.Catalog),
		DMT:     NewDMTService(repos.Record, repos.Sequence),
		Export:  NewExportService(repos.Record, repos.User, repos.Catalog),
	}
}
