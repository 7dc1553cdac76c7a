package dto

// ── 演示用户 / 认证模块 DTO ──

// DemoLoginRequest 演示登录请求（按用户切换器选中的用户签发 Token）
type DemoLoginRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// TokenResponse Token 响应
type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int              `json:"expires_in"` // Access Token 有效期（秒）
	User        DemoUserResponse `json:"user"`
}

// DemoUserResponse 演示用户信息响应
type DemoUserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	FieldOfStudy *string `json:"field_of_study,omitempty"`
	StudyType    *string `json:"study_type,omitempty"`
	Year         *int    `json:"year,omitempty"`
}
