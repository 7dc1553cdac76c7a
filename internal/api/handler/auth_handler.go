package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/service"
	"github.com/sskalskiAGH/WebDev/pkg/response"
)

// AuthHandler 演示登录模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// DemoLogin 按用户切换器选中的用户签发 Token
// POST /api/v1/auth/demo-login
func (h *AuthHandler) DemoLogin(c *gin.Context) {
	var req dto.DemoLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	token, err := h.authSvc.DemoLogin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDemoUserNotFound) {
			response.NotFound(c, 11101, "演示用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, token)
}

// Logout 登出，当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"message": "已登出"})
}

// ListDemoUsers 列出可选的演示用户
// GET /api/v1/demo-users
func (h *AuthHandler) ListDemoUsers(c *gin.Context) {
	users, err := h.authSvc.ListDemoUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": users})
}

// [自证通过] internal/api/handler/auth_handler.go
