package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// reportPrefix 报告编号前缀，格式 DMT-<YYYYMMDD>-<4位序号>
const reportPrefix = "DMT"

// ReportSequence 报告编号分配器。优先用Redis的按日计数器做原子自增，
// 避免并发创建分到同一个编号；Redis不可用时退回"数一遍加一"的老方案。
type ReportSequence struct {
	rdb     *redis.Client
	records *RecordRepository
}

func NewReportSequence(rdb *redis.Client, records *RecordRepository) *ReportSequence {
	return &ReportSequence{rdb: rdb, records: records}
}

// Next 返回指定日期的下一个报告编号
func (s *ReportSequence) Next(ctx context.Context, day time.Time) (string, error) {
	date := day.Format("20060102")
	prefix := fmt.Sprintf("%s-%s-", reportPrefix, date)

	if s.rdb != nil {
		key := "dmt:report_seq:" + date
		n, err := s.rdb.Incr(ctx, key).Result()
		if err == nil {
			// 计数器只在当天有意义，两天后过期
			s.rdb.Expire(ctx, key, 48*time.Hour)
			return fmt.Sprintf("%s%04d", prefix, n), nil
		}
		// Redis挂了退回计数方案，不让创建失败
	}

	count, err := s.records.CountByReportPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("count report numbers: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
