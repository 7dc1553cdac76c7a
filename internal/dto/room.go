package dto

// ── 教室模块 DTO ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=50"`
	Building string `json:"building" binding:"required,max=50"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Type     string `json:"type"     binding:"omitempty,oneof=lecture lab other"`
}

// RoomResponse 教室信息响应
type RoomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
}
