package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/config"
	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/pkg/jwt"
)

func newAuthTestSvc(t *testing.T) (*testRepos, AuthService, *jwt.Manager) {
	t.Helper()
	repos := newTestRepos()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "unit-test-secret-0123456789",
			AccessTokenTTL: time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return repos, NewAuthService(cfg, repos.repo, jwtMgr, nil, zap.NewNop()), jwtMgr
}

func seedDemoUser(t *testing.T, repos *testRepos, user *model.DemoUser) {
	t.Helper()
	repos.users.mu.Lock()
	defer repos.users.mu.Unlock()
	repos.users.users[user.UserID] = user
}

func TestDemoLogin(t *testing.T) {
	repos, svc, jwtMgr := newAuthTestSvc(t)

	field, studyType, year := "Informatyka", model.StudyTypeFullTime, 2
	seedDemoUser(t, repos, &model.DemoUser{
		UserID: "11111111-1111-1111-1111-111111111111",
		Name:   "Anna Nowak", Role: model.RoleStarosta,
		FieldOfStudy: &field, StudyType: &studyType, Year: &year,
	})

	resp, err := svc.DemoLogin(context.Background(), &dto.DemoLoginRequest{
		UserID: "11111111-1111-1111-1111-111111111111",
	})
	if err != nil {
		t.Fatalf("演示登录应成功: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("期望有效期 3600 秒，实际 %d", resp.ExpiresIn)
	}

	// 签出的 Token 应携带完整档案
	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析 Token 应成功: %v", err)
	}
	if claims.Role != model.RoleStarosta || claims.Name != "Anna Nowak" {
		t.Errorf("期望 Token 携带角色与姓名，实际 %s / %s", claims.Role, claims.Name)
	}
	if claims.FieldOfStudy != "Informatyka" || claims.Year != 2 {
		t.Errorf("期望 Token 携带年级档案，实际 %s / %d", claims.FieldOfStudy, claims.Year)
	}
}

func TestDemoLogin_NotFound(t *testing.T) {
	_, svc, _ := newAuthTestSvc(t)

	_, err := svc.DemoLogin(context.Background(), &dto.DemoLoginRequest{
		UserID: "99999999-9999-9999-9999-999999999999",
	})
	if !errors.Is(err, ErrDemoUserNotFound) {
		t.Errorf("期望 ErrDemoUserNotFound，实际: %v", err)
	}
}

func TestListDemoUsers(t *testing.T) {
	repos, svc, _ := newAuthTestSvc(t)

	seedDemoUser(t, repos, &model.DemoUser{
		UserID: "11111111-1111-1111-1111-111111111111",
		Name:   "Administrator", Role: model.RoleAdmin,
	})
	seedDemoUser(t, repos, &model.DemoUser{
		UserID: "22222222-2222-2222-2222-222222222222",
		Name:   "Dr Piotr Wiśniewski", Role: model.RoleInstructor,
	})

	users, err := svc.ListDemoUsers(context.Background())
	if err != nil {
		t.Fatalf("列出演示用户应成功: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("期望 2 个演示用户，实际 %d 个", len(users))
	}
}
