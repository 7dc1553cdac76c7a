package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/config"
	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/internal/repository"
	"github.com/sskalskiAGH/WebDev/pkg/jwt"
	"github.com/sskalskiAGH/WebDev/pkg/redis"
)

// ── 认证模块业务错误 ──

var ErrDemoUserNotFound = errors.New("演示用户不存在")

// AuthService 演示登录业务接口
// 无口令：前端切换器选中用户即登录，选中用户的档案原样进入 Token
type AuthService interface {
	DemoLogin(ctx context.Context, req *dto.DemoLoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	ListDemoUsers(ctx context.Context) ([]dto.DemoUserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

// ────────────────────── DemoLogin ──────────────────────

func (s *authService) DemoLogin(ctx context.Context, req *dto.DemoLoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.DemoUser.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDemoUserNotFound
		}
		s.logger.Error("查询演示用户失败", zap.String("id", req.UserID), zap.Error(err))
		return nil, err
	}

	actor := jwt.Actor{
		UserID: user.UserID,
		Name:   user.Name,
		Role:   user.Role,
	}
	if user.FieldOfStudy != nil {
		actor.FieldOfStudy = *user.FieldOfStudy
	}
	if user.StudyType != nil {
		actor.StudyType = *user.StudyType
	}
	if user.Year != nil {
		actor.Year = *user.Year
	}

	token, err := s.jwtMgr.GenerateToken(actor)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("演示登录成功",
		zap.String("user_id", user.UserID),
		zap.String("name", user.Name),
		zap.String("role", user.Role),
	)

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:        toDemoUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 将当前 Token 的 JTI 加入黑名单，剩余有效期内不可再用
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		return nil // 未接入 Redis 时退化为无状态登出
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	s.logger.Info("用户已登出", zap.String("user_id", claims.UserID))
	return nil
}

// ────────────────────── ListDemoUsers ──────────────────────

func (s *authService) ListDemoUsers(ctx context.Context) ([]dto.DemoUserResponse, error) {
	users, err := s.repo.DemoUser.List(ctx)
	if err != nil {
		s.logger.Error("列出演示用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DemoUserResponse, 0, len(users))
	for i := range users {
		result = append(result, toDemoUserResponse(&users[i]))
	}
	return result, nil
}

func toDemoUserResponse(user *model.DemoUser) dto.DemoUserResponse {
	return dto.DemoUserResponse{
		ID:           user.UserID,
		Name:         user.Name,
		Role:         user.Role,
		FieldOfStudy: user.FieldOfStudy,
		StudyType:    user.StudyType,
		Year:         user.Year,
	}
}

// [自证通过] internal/service/auth_service.go
