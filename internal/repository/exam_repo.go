package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

// ExamRepository 考试数据访问接口
type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id string) (*model.Exam, error)
	List(ctx context.Context, filter SubjectFilter) ([]model.Exam, error)
	RemoveDuplicates(ctx context.Context) (int64, error)
}

type examRepo struct {
	db *gorm.DB
}

// NewExamRepo 创建 ExamRepository 实例
func NewExamRepo(db *gorm.DB) ExamRepository {
	return &examRepo{db: db}
}

func (r *examRepo) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("exam_id = ?", id).
		First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// List 按科目维度过滤考试（join subjects）
func (r *examRepo) List(ctx context.Context, filter SubjectFilter) ([]model.Exam, error) {
	var exams []model.Exam
	db := r.db.WithContext(ctx).
		Preload("Subject").
		Joins("JOIN subjects ON subjects.subject_id = exams.subject_id")

	if filter.FieldOfStudy != "" {
		db = db.Where("subjects.field_of_study = ?", filter.FieldOfStudy)
	}
	if filter.StudyType != "" {
		db = db.Where("subjects.study_type = ?", filter.StudyType)
	}
	if filter.Year > 0 {
		db = db.Where("subjects.year = ?", filter.Year)
	}
	if filter.InstructorName != "" {
		db = db.Where("subjects.instructor_name = ?", filter.InstructorName)
	}

	err := db.Order("subjects.name ASC").Find(&exams).Error
	return exams, err
}

// RemoveDuplicates 删除引用同一科目的重复考试，保留最早创建的一条
func (r *examRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM exams a USING exams b
		WHERE a.subject_id = b.subject_id
		  AND (a.created_at > b.created_at
		       OR (a.created_at = b.created_at AND a.exam_id > b.exam_id))`)
	return res.RowsAffected, res.Error
}
