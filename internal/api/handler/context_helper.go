package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sskalskiAGH/WebDev/internal/service"
	"github.com/sskalskiAGH/WebDev/pkg/jwt"
	"github.com/sskalskiAGH/WebDev/pkg/response"
)

// MustGetActor 从 Gin 上下文中安全提取已认证操作者。
// 如果 JWT 中间件未正确注入 actor，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	v, exists := c.Get("actor")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	if !ok || actor.Name == "" {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	return actor, true
}

// MustGetClaims 从 Gin 上下文中安全提取完整 JWT Claims（登出黑名单用）。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}
