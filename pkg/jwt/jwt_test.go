package jwt

import (
	"testing"
	"time"

	"github.com/sskalskiAGH/WebDev/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 12 * time.Hour,
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken(Actor{
		UserID:       "user-1",
		Name:         "Anna Nowak",
		Role:         "starosta",
		FieldOfStudy: "Informatyka",
		StudyType:    "stacjonarne",
		Year:         2,
	})
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != "starosta" {
		t.Errorf("期望 Role=starosta，实际=%s", claims.Role)
	}
	if claims.FieldOfStudy != "Informatyka" {
		t.Errorf("期望 FieldOfStudy=Informatyka，实际=%s", claims.FieldOfStudy)
	}
	if claims.Year != 2 {
		t.Errorf("期望 Year=2，实际=%d", claims.Year)
	}
	if claims.Issuer != "webdev-exams" {
		t.Errorf("期望 Issuer=webdev-exams，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})

	token, err := m.GenerateToken(Actor{UserID: "user-1", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	token, err := m.GenerateToken(Actor{UserID: "user-1", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-for-testing!",
		AccessTokenTTL: time.Hour,
	})
	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
