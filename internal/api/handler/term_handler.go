package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/service"
	pkgerrors "github.com/sskalskiAGH/WebDev/pkg/errors"
	"github.com/sskalskiAGH/WebDev/pkg/response"
)

// TermHandler 考试场次 HTTP 处理器
// 校验失败 → 400（携带拒绝原因），状态冲突 → 409，鉴权失败 → 403
type TermHandler struct {
	termSvc    service.TermService
	sessionSvc service.SessionService
}

// NewTermHandler 创建 TermHandler
func NewTermHandler(termSvc service.TermService, sessionSvc service.SessionService) *TermHandler {
	return &TermHandler{termSvc: termSvc, sessionSvc: sessionSvc}
}

// Propose 提交场次提案
// POST /api/v1/exam-terms
func (h *TermHandler) Propose(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ProposeTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	// 提案身份以 Token 为准，不信任请求体
	req.ProposedByRole = actor.Role
	req.ProposedByName = actor.Name

	term, err := h.termSvc.Propose(c.Request.Context(), &req)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.Created(c, term)
}

// List 列出场次（可见范围按角色收窄）
// GET /api/v1/exam-terms
func (h *TermHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.TermListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	terms, err := h.termSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, gin.H{"list": terms})
}

// Get 按 ID 查询场次
// GET /api/v1/exam-terms/:id
func (h *TermHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场次ID不能为空")
		return
	}

	term, err := h.termSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// UpdateStatus 审批场次（approve / reject）
// PUT /api/v1/exam-terms/:id/status
func (h *TermHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场次ID不能为空")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateTermStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	// 审批身份以 Token 为准，不信任请求体
	req.ActorRole = actor.Role
	req.ActorName = actor.Name

	term, err := h.termSvc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// Validate 只读推演完整校验链
// POST /api/v1/exam-terms/validate
func (h *TermHandler) Validate(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ProposeTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	// 与 Propose 一致：推演所用身份同样来自 Token
	req.ProposedByRole = actor.Role
	req.ProposedByName = actor.Name

	result, err := h.termSvc.ValidateProposal(c.Request.Context(), &req)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckAvailability 教室可用性检查（编辑提案时可排除自身）
// POST /api/v1/exam-terms/check-availability
func (h *TermHandler) CheckAvailability(c *gin.Context) {
	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.termSvc.CheckRoomAvailability(c.Request.Context(), &req)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckRoom 教室占用检查
// GET /api/v1/exam-terms/validation/check-room
func (h *TermHandler) CheckRoom(c *gin.Context) {
	var q dto.CheckRoomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.termSvc.CheckRoomOccupancy(c.Request.Context(), &q)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckSessionDate 考试季日期检查
// GET /api/v1/exam-terms/validation/check-session-date
func (h *TermHandler) CheckSessionDate(c *gin.Context) {
	var q dto.CheckSessionDateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sessionSvc.CheckSessionDate(c.Request.Context(), q.Date)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckStudents 年级冲突检查
// GET /api/v1/exam-terms/validation/check-students
func (h *TermHandler) CheckStudents(c *gin.Context) {
	var q dto.CheckStudentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.termSvc.CheckStudentAvailability(c.Request.Context(), &q)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *TermHandler) handleTermError(c *gin.Context, err error) {
	var (
		ve *pkgerrors.ValidationError
		ce *pkgerrors.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, 14201, ve.Reason)
	case errors.As(err, &ce):
		response.Conflict(c, 14301, ce.Reason)
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 14101, "场次不存在")
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 13102, "考试不存在")
	case errors.Is(err, service.ErrApprovalForbidden):
		response.Forbidden(c, 10003, "无权审批该场次")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/term_handler.go
