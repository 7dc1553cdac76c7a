package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

// DemoUserRepository 演示用户数据访问接口
type DemoUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.DemoUser, error)
	List(ctx context.Context) ([]model.DemoUser, error)
	RemoveDuplicates(ctx context.Context) (int64, error)
}

type demoUserRepo struct {
	db *gorm.DB
}

// NewDemoUserRepo 创建 DemoUserRepository 实例
func NewDemoUserRepo(db *gorm.DB) DemoUserRepository {
	return &demoUserRepo{db: db}
}

func (r *demoUserRepo) GetByID(ctx context.Context, id string) (*model.DemoUser, error) {
	var user model.DemoUser
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *demoUserRepo) List(ctx context.Context) ([]model.DemoUser, error) {
	var users []model.DemoUser
	err := r.db.WithContext(ctx).
		Order("role ASC, name ASC").
		Find(&users).Error
	return users, err
}

// RemoveDuplicates 删除 (name, role) 重复的演示用户，保留最早创建的一条
func (r *demoUserRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM demo_users a USING demo_users b
		WHERE a.name = b.name
		  AND a.role = b.role
		  AND (a.created_at > b.created_at
		       OR (a.created_at = b.created_at AND a.user_id > b.user_id))`)
	return res.RowsAffected, res.Error
}
