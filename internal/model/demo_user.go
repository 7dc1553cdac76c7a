package model

// DemoUser 演示用户表 — 对应 demo_users
// 前端用户切换器的数据来源；登录后其档案原样进入 Token，业务层视为可信身份
type DemoUser struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(150);not null"                     json:"name"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"` // student | starosta | instructor | admin
	FieldOfStudy *string `gorm:"type:varchar(100)"                              json:"field_of_study,omitempty"`
	StudyType    *string `gorm:"type:varchar(20)"                               json:"study_type,omitempty"`
	Year         *int    `gorm:"type:smallint"                                  json:"year,omitempty"`
	BaseModel
}

// TableName 指定表名
func (DemoUser) TableName() string { return "demo_users" }
