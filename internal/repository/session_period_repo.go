package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

// SessionPeriodRepository 考试季数据访问接口
type SessionPeriodRepository interface {
	Create(ctx context.Context, period *model.SessionPeriod) error
	List(ctx context.Context) ([]model.SessionPeriod, error)
	// GetCurrentPair 返回当前生效的 (main, retake) 配对；未配置时返回 gorm.ErrRecordNotFound
	GetCurrentPair(ctx context.Context) (*model.SessionPeriod, *model.SessionPeriod, error)
	ClearCurrent(ctx context.Context) error
}

type sessionPeriodRepo struct {
	db *gorm.DB
}

// NewSessionPeriodRepo 创建 SessionPeriodRepository 实例
func NewSessionPeriodRepo(db *gorm.DB) SessionPeriodRepository {
	return &sessionPeriodRepo{db: db}
}

func (r *sessionPeriodRepo) Create(ctx context.Context, period *model.SessionPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *sessionPeriodRepo) List(ctx context.Context) ([]model.SessionPeriod, error) {
	var periods []model.SessionPeriod
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *sessionPeriodRepo) GetCurrentPair(ctx context.Context) (*model.SessionPeriod, *model.SessionPeriod, error) {
	var periods []model.SessionPeriod
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		Find(&periods).Error
	if err != nil {
		return nil, nil, err
	}

	var main, retake *model.SessionPeriod
	for i := range periods {
		switch periods[i].Kind {
		case model.SessionKindMain:
			main = &periods[i]
		case model.SessionKindRetake:
			retake = &periods[i]
		}
	}
	if main == nil || retake == nil {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return main, retake, nil
}

// ClearCurrent 取消所有考试季的 is_current 标记（替换配对前调用，需在事务内）
func (r *sessionPeriodRepo) ClearCurrent(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.SessionPeriod{}).
		Where("is_current = ?", true).
		Update("is_current", false).Error
}
