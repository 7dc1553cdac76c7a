package model

// Exam 考试表 — 对应 exams
// 一场考试可被提交多个场次提案，但最多一个提案处于 approved 状态
type Exam struct {
	ExamID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_id"`
	SubjectID string `gorm:"type:uuid;not null"                             json:"subject_id"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }
