package dto

// ── 考试季模块 DTO ──

// CreateSessionPeriodRequest 创建考试季记录请求
type CreateSessionPeriodRequest struct {
	Kind         string `json:"kind"          binding:"required,oneof=main retake"`
	Semester     string `json:"semester"      binding:"required,oneof=zimowy letni"`
	AcademicYear string `json:"academic_year" binding:"required,len=9"` // np. 2025/2026
	StartDate    string `json:"start_date"    binding:"required"`
	EndDate      string `json:"end_date"      binding:"required"`
}

// SetCurrentSessionsRequest 替换当前考试季配置请求（仅管理员）
// main 与 retake 作为一对原子替换，避免读方观察到半更新状态
type SetCurrentSessionsRequest struct {
	Semester     string            `json:"semester"      binding:"required,oneof=zimowy letni"`
	AcademicYear string            `json:"academic_year" binding:"required,len=9"`
	Main         SessionWindowSpec `json:"main"          binding:"required"`
	Retake       SessionWindowSpec `json:"retake"        binding:"required"`
}

// SessionWindowSpec 单个考试季时间窗
type SessionWindowSpec struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

// SessionPeriodResponse 考试季信息响应
type SessionPeriodResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Semester     string `json:"semester"`
	AcademicYear string `json:"academic_year"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
}

// CurrentSessionsResponse 当前考试季响应
type CurrentSessionsResponse struct {
	Main            *SessionPeriodResponse `json:"main,omitempty"`
	Retake          *SessionPeriodResponse `json:"retake,omitempty"`
	IsSessionActive bool                   `json:"is_session_active"`
	Message         string                 `json:"message"`
}
