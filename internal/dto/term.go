package dto

// ── 考试场次模块 DTO ──

// ProposeTermRequest 场次提案请求
// ProposedByRole / ProposedByName 由 Handler 从 JWT 身份注入，不从请求体读取：
// 考试季检查的管理员绕过以 Token 角色为准，请求体伪造角色无效
type ProposeTermRequest struct {
	ExamID            string `json:"exam_id"            binding:"required"`
	Date              string `json:"date"               binding:"required"` // YYYY-MM-DD
	Time              string `json:"time"               binding:"required"` // HH:MM
	RoomName          string `json:"room_name"          binding:"required"`
	ExpectedHeadcount int    `json:"expected_headcount" binding:"required"`
	ProposedByRole    string `json:"-"`
	ProposedByName    string `json:"-"`
}

// TermListRequest 场次列表查询参数
type TermListRequest struct {
	FieldOfStudy string `form:"field_of_study"`
	StudyType    string `form:"study_type" binding:"omitempty,oneof=stacjonarne niestacjonarne"`
	Year         int    `form:"year"       binding:"omitempty,min=1,max=6"`
	Status       string `form:"status"     binding:"omitempty,oneof=proposed approved rejected"`
}

// UpdateTermStatusRequest 审批请求（approve / reject）
// ActorRole / ActorName 由 Handler 从 JWT 身份注入，不从请求体读取
type UpdateTermStatusRequest struct {
	Status    string `json:"status" binding:"required,oneof=approved rejected"`
	ActorRole string `json:"-"`
	ActorName string `json:"-"`
}

// TermResponse 场次信息响应
type TermResponse struct {
	ID                string        `json:"id"`
	ExamID            string        `json:"exam_id"`
	Date              string        `json:"date"`
	Time              string        `json:"time"`
	RoomName          string        `json:"room_name"`
	ExpectedHeadcount int           `json:"expected_headcount"`
	ProposedByRole    string        `json:"proposed_by_role"`
	ProposedByName    string        `json:"proposed_by_name"`
	ApprovedByRole    *string       `json:"approved_by_role,omitempty"`
	ApprovedByName    *string       `json:"approved_by_name,omitempty"`
	Status            string        `json:"status"`
	CreatedAt         string        `json:"created_at"`
	Exam              *ExamResponse `json:"exam,omitempty"`
}

// ── 校验类 DTO ──

// CheckAvailabilityRequest 教室可用性检查请求（不落库的推演校验）
type CheckAvailabilityRequest struct {
	RoomName          string `json:"room_name"          binding:"required"`
	Date              string `json:"date"               binding:"required"`
	Time              string `json:"time"               binding:"required"`
	ExpectedHeadcount int    `json:"expected_headcount" binding:"required,gt=0"`
	ExcludeTermID     string `json:"exclude_term_id"    binding:"omitempty,uuid"`
}

// CheckRoomQuery 教室占用检查查询参数
type CheckRoomQuery struct {
	RoomName      string `form:"room_name" binding:"required"`
	Date          string `form:"date"      binding:"required"`
	Time          string `form:"time"      binding:"required"`
	ExcludeTermID string `form:"exclude_term_id" binding:"omitempty,uuid"`
}

// CheckStudentsQuery 年级冲突检查查询参数
type CheckStudentsQuery struct {
	Date          string `form:"date"           binding:"required"`
	FieldOfStudy  string `form:"field_of_study" binding:"required"`
	StudyType     string `form:"study_type"     binding:"required,oneof=stacjonarne niestacjonarne"`
	Year          int    `form:"year"           binding:"required,min=1,max=6"`
	ExcludeTermID string `form:"exclude_term_id" binding:"omitempty,uuid"`
}

// CheckSessionDateQuery 考试季日期检查查询参数
type CheckSessionDateQuery struct {
	Date string `form:"date" binding:"required"`
}

// ValidationResponse 校验结果响应
type ValidationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// AvailabilityResponse 教室可用性响应
type AvailabilityResponse struct {
	Available bool          `json:"available"`
	Message   string        `json:"message"`
	Room      *RoomResponse `json:"room,omitempty"`
}

// ── 管理维护 DTO ──

// RemoveDuplicatesResponse 去重结果响应
type RemoveDuplicatesResponse struct {
	Message string           `json:"message"`
	Total   int64            `json:"total"`
	Details map[string]int64 `json:"details"`
}
