package model

import "time"

// SessionPeriod 考试季时间窗表 — 对应 session_periods
// 任一时刻恰有一对 is_current 记录（main 正考期 + retake 补考期），
// 仅管理员可替换当前配置
type SessionPeriod struct {
	SessionPeriodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_period_id"`
	Kind            string    `gorm:"type:varchar(10);not null"                      json:"kind"` // main | retake
	Semester        string    `gorm:"type:varchar(20);not null"                      json:"semester"` // zimowy | letni
	AcademicYear    string    `gorm:"type:varchar(9);not null"                       json:"academic_year"`
	StartDate       time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate         time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsCurrent       bool      `gorm:"not null;default:false"                         json:"is_current"`
	BaseModel
}

// TableName 指定表名
func (SessionPeriod) TableName() string { return "session_periods" }

// Contains 判断日期是否落在 [StartDate, EndDate] 闭区间内（按天比较）
func (p *SessionPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
