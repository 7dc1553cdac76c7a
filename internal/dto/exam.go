package dto

// ── 科目模块 DTO ──

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name           string `json:"name"            binding:"required,min=1,max=200"`
	InstructorName string `json:"instructor_name" binding:"required,max=100"`
	FieldOfStudy   string `json:"field_of_study"  binding:"required,max=100"`
	StudyType      string `json:"study_type"      binding:"required,oneof=stacjonarne niestacjonarne"`
	Year           int    `json:"year"            binding:"required,min=1,max=6"`
}

// SubjectListRequest 科目列表查询参数
type SubjectListRequest struct {
	FieldOfStudy string `form:"field_of_study"`
	StudyType    string `form:"study_type" binding:"omitempty,oneof=stacjonarne niestacjonarne"`
	Year         int    `form:"year"       binding:"omitempty,min=1,max=6"`
}

// SubjectResponse 科目信息响应
type SubjectResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	InstructorName string `json:"instructor_name"`
	FieldOfStudy   string `json:"field_of_study"`
	StudyType      string `json:"study_type"`
	Year           int    `json:"year"`
}

// ── 考试模块 DTO ──

// CreateExamRequest 创建考试请求
type CreateExamRequest struct {
	SubjectID string `json:"subject_id" binding:"required,uuid"`
}

// ExamListRequest 考试列表查询参数
// 可见范围由调用者角色进一步收窄（教师仅见所授科目、班代表仅见本年级）
type ExamListRequest struct {
	FieldOfStudy   string `form:"field_of_study"`
	StudyType      string `form:"study_type" binding:"omitempty,oneof=stacjonarne niestacjonarne"`
	Year           int    `form:"year"       binding:"omitempty,min=1,max=6"`
	InstructorName string `form:"instructor_name"`
}

// ExamResponse 考试信息响应
type ExamResponse struct {
	ID      string          `json:"id"`
	Subject SubjectResponse `json:"subject"`
}
