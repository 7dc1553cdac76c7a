package model

// Room 教室表 — 对应 rooms（只增不改的参考数据）
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	Building string `gorm:"type:varchar(50);not null"                      json:"building"`
	Capacity int    `gorm:"not null"                                       json:"capacity"`
	Type     string `gorm:"type:varchar(20);not null;default:'lecture'"    json:"type"` // lecture | lab | other
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
