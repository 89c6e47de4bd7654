package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden 当前角色无权执行整个操作
var ErrForbidden = errors.New("forbidden")

// ValidationError 请求体校验失败，一次性列出所有问题字段
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// FieldNotAllowedError 角色试图写入其权限之外的字段
type FieldNotAllowedError struct {
	Field string
	Role  Role
}

func (e *FieldNotAllowedError) Error() string {
	return fmt.Sprintf("field '%s' cannot be edited by role '%s'", e.Field, e.Role)
}

// RecordClosedError 对已关闭记录的任何写入
type RecordClosedError struct {
	ID int
}

func (e *RecordClosedError) Error() string {
	return fmt.Sprintf("DMT record %d is closed and cannot be edited", e.ID)
}

// IncompleteForClosingError 关闭前置条件未满足，指出未完成的分区
type IncompleteForClosingError struct {
	Section Section
	Missing []string
}

func (e *IncompleteForClosingError) Error() string {
	return fmt.Sprintf("cannot close record: %s is incomplete, missing %s",
		e.Section, strings.Join(e.Missing, ", "))
}
