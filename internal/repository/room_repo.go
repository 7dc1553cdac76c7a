package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

// RoomRepository 教室数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByName(ctx context.Context, name string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	RemoveDuplicates(ctx context.Context) (int64, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByName(ctx context.Context, name string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// RemoveDuplicates 删除同名教室，保留最早创建的一条
func (r *roomRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM rooms a USING rooms b
		WHERE a.name = b.name
		  AND (a.created_at > b.created_at
		       OR (a.created_at = b.created_at AND a.room_id > b.room_id))`)
	return res.RowsAffected, res.Error
}
