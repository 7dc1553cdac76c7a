package model

// Subject 科目表 — 对应 subjects
// (field_of_study, study_type, year) 组合标识科目所属年级（kierunek/typ studiów/rok）
type Subject struct {
	SubjectID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name           string `gorm:"type:varchar(200);not null"                     json:"name"`
	InstructorName string `gorm:"type:varchar(100);not null"                     json:"instructor_name"`
	FieldOfStudy   string `gorm:"type:varchar(100);not null"                     json:"field_of_study"`
	StudyType      string `gorm:"type:varchar(20);not null"                      json:"study_type"` // stacjonarne | niestacjonarne
	Year           int    `gorm:"type:smallint;not null"                         json:"year"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
