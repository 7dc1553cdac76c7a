package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

// SubjectFilter 科目查询过滤条件（零值字段不参与过滤）
type SubjectFilter struct {
	FieldOfStudy   string
	StudyType      string
	Year           int
	InstructorName string
}

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	List(ctx context.Context, filter SubjectFilter) ([]model.Subject, error)
	RemoveDuplicates(ctx context.Context) (int64, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) List(ctx context.Context, filter SubjectFilter) ([]model.Subject, error) {
	var subjects []model.Subject
	db := r.db.WithContext(ctx)

	if filter.FieldOfStudy != "" {
		db = db.Where("field_of_study = ?", filter.FieldOfStudy)
	}
	if filter.StudyType != "" {
		db = db.Where("study_type = ?", filter.StudyType)
	}
	if filter.Year > 0 {
		db = db.Where("year = ?", filter.Year)
	}
	if filter.InstructorName != "" {
		db = db.Where("instructor_name = ?", filter.InstructorName)
	}

	err := db.Order("name ASC").Find(&subjects).Error
	return subjects, err
}

// RemoveDuplicates 删除 (name, field_of_study, study_type, year) 重复的科目，保留最早创建的一条
func (r *subjectRepo) RemoveDuplicates(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM subjects a USING subjects b
		WHERE a.name = b.name
		  AND a.field_of_study = b.field_of_study
		  AND a.study_type = b.study_type
		  AND a.year = b.year
		  AND (a.created_at > b.created_at
		       OR (a.created_at = b.created_at AND a.subject_id > b.subject_id))`)
	return res.RowsAffected, res.Error
}
