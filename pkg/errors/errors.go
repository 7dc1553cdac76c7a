package errors

import "fmt"

// ValidationError 提案校验失败
// 携带面向用户的拒绝原因（字段缺失、容量不足、教室占用、考试季之外等），
// Handler 层通过 errors.As 识别后以 400 + 原因文本返回，绝不导致进程异常。
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidation 构造 ValidationError
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError 状态冲突
// 非法状态机迁移（重复审批、对已终态记录再操作）以及并发插入竞争失败方
// 均归入此类，Handler 层以 409 返回。
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// NewConflict 构造 ConflictError
func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}
