package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/lifecycle"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
)

// createRequiredFields 创建时必填的字段
var createRequiredFields = []string{
	"part_number_id", "work_center_id", "customer_id", "prepared_by_id",
	"operation", "quantity", "date", "inspection_item_id", "process_code_id",
	"defect_description",
}

// DMTService DMT记录的增删改查编排：RBAC校验和状态机在lifecycle，
// 持久化在store，这里负责把它们串起来。
type DMTService struct {
	records RecordStore
	seq     SequenceAllocator
	engine  *lifecycle.Engine
}

func NewDMTService(records RecordStore, seq SequenceAllocator) *DMTService {
	return &DMTService{
		records: records,
		seq:     seq,
		engine:  lifecycle.NewEngine(),
	}
}

// Create 创建DMT记录。只有Inspector可以创建；必填字段缺失一次性
// 全部报出；报告编号未提供时按 DMT-<日期>-<序号> 生成。
func (s *DMTService) Create(ctx context.Context, p entity.Principal, fields map[string]any, lang entity.Language) (*entity.DMTRecord, error) {
	if p.Role != entity.RoleInspector {
		return nil, fmt.Errorf("%w: only Inspector can create DMT records", entity.ErrForbidden)
	}

	var missing []string
	for _, name := range createRequiredFields {
		v, ok := fields[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if str, isStr := v.(string); isStr && strings.TrimSpace(str) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &entity.ValidationError{Message: "missing required fields", Fields: missing}
	}

	now := time.Now().UTC()
	blank := &entity.DMTRecord{
		IsClosed:    false,
		CreatedByID: p.ID,
		CreatedAt:   now,
	}

	// 创建等价于Inspector对空白记录的一次更新：同一套字段校验、
	// 类型收敛和多语言扇出，不走第二套逻辑。
	rec, err := s.engine.ApplyUpdate(blank, p.Role, fields, lang)
	if err != nil {
		return nil, err
	}

	if rec.ReportNumber == "" {
		number, err := s.seq.Next(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("allocate report number: %w", err)
		}
		rec.ReportNumber = number
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get 按ID获取记录
func (s *DMTService) Get(ctx context.Context, id int) (*entity.DMTRecord, error) {
	return s.records.FindByID(ctx, id)
}

// List 按过滤条件列出记录，created_at 倒序。
// limit 缺省100，上限1000；skip 为普通偏移量。
func (s *DMTService) List(ctx context.Context, f repository.ListFilter) ([]entity.DMTRecord, error) {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 1000 {
		f.Limit = 1000
	}
	return s.records.FindAll(ctx, f)
}

// Update 加载记录，交给lifecycle校验合并，再整体持久化。
// 校验失败时记录保持原样（无部分写入）。
func (s *DMTService) Update(ctx context.Context, id int, p entity.Principal, fields map[string]any, lang entity.Language) (*entity.DMTRecord, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.engine.ApplyUpdate(rec, p.Role, fields, lang)
	if err != nil {
		return nil, err
	}

	if err := s.records.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 删除记录，仅Admin。不存在的ID返回NotFound，重复删除同理。
func (s *DMTService) Delete(ctx context.Context, id int, p entity.Principal) error {
	if p.Role != entity.RoleAdmin {
		return fmt.Errorf("%w: only Admin can delete DMT records", entity.ErrForbidden)
	}
	return s.records.Delete(ctx, id)
}
