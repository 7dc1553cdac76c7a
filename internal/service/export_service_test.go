package service

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/config"
	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
)

func newExportTestEnv(t *testing.T) (*termTestEnv, ExportService) {
	t.Helper()
	env := newTermTestEnv(t, true)
	cfg := &config.Config{
		Exam:     config.ExamConfig{DurationMinutes: 120},
		Database: config.DatabaseConfig{Timezone: "Europe/Warsaw"},
	}
	svc := NewExportService(cfg, env.repos.repo, zap.NewNop())

	ctx := context.Background()
	if _, err := env.svc.Propose(ctx,
		proposeReq(env.examMath, "2026-02-03", "10:00", "A101", 25, model.RoleStarosta, "Anna Nowak")); err != nil {
		t.Fatalf("提案应成功: %v", err)
	}
	if _, err := env.svc.Propose(ctx,
		proposeReq(env.examEcon, "2026-02-04", "12:00", "B201", 40, model.RoleInstructor, "Prof. Maria Zawadzka")); err != nil {
		t.Fatalf("提案应成功: %v", err)
	}
	return env, svc
}

func TestExportTermsExcel(t *testing.T) {
	_, svc := newExportTestEnv(t)
	admin := Actor{Name: "Administrator", Role: model.RoleAdmin}

	buf, filename, err := svc.ExportTermsExcel(context.Background(), admin, &dto.TermListRequest{})
	if err != nil {
		t.Fatalf("导出 Excel 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("期望文件名以 .xlsx 结尾，实际 %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Egzaminy")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 2 条场次
	if len(rows) != 3 {
		t.Fatalf("期望 3 行，实际 %d 行", len(rows))
	}
	if rows[0][0] != "Przedmiot" {
		t.Errorf("期望首列表头 Przedmiot，实际 %s", rows[0][0])
	}
}

func TestExportTermsExcel_RoleScoped(t *testing.T) {
	_, svc := newExportTestEnv(t)
	instructor := Actor{Name: "Dr Piotr Wiśniewski", Role: model.RoleInstructor}

	buf, _, err := svc.ExportTermsExcel(context.Background(), instructor, &dto.TermListRequest{})
	if err != nil {
		t.Fatalf("导出 Excel 应成功: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Egzaminy")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 教师仅导出所授科目：表头 + 1 条
	if len(rows) != 2 {
		t.Errorf("期望 2 行，实际 %d 行", len(rows))
	}
}

func TestExportTermsICS(t *testing.T) {
	_, svc := newExportTestEnv(t)
	admin := Actor{Name: "Administrator", Role: model.RoleAdmin}

	buf, filename, err := svc.ExportTermsICS(context.Background(), admin, &dto.TermListRequest{})
	if err != nil {
		t.Fatalf("导出 ICS 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("期望文件名以 .ics 结尾，实际 %s", filename)
	}

	out := buf.String()
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Error("期望合法的 VCALENDAR 包裹")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("期望 2 个 VEVENT，实际 %d 个", got)
	}
	if !strings.Contains(out, "Analiza matematyczna") {
		t.Error("期望事件摘要点名科目")
	}
	if !strings.Contains(out, "LOCATION:A101") {
		t.Error("期望事件携带教室位置")
	}
}
