package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/internal/model"
)

func TestRemoveDuplicates_Idempotent(t *testing.T) {
	repos := newTestRepos()
	svc := NewMaintenanceService(repos.repo, zap.NewNop())
	ctx := context.Background()

	subject := &model.Subject{
		Name: "Analiza matematyczna", InstructorName: "Dr Piotr Wiśniewski",
		FieldOfStudy: "Informatyka", StudyType: model.StudyTypeFullTime, Year: 2,
	}
	if err := repos.subjects.Create(ctx, subject); err != nil {
		t.Fatalf("创建科目失败: %v", err)
	}
	exam := &model.Exam{SubjectID: subject.SubjectID}
	if err := repos.exams.Create(ctx, exam); err != nil {
		t.Fatalf("创建考试失败: %v", err)
	}

	// 绕过校验直接写入三条完全相同的提案（模拟历史脏数据）
	for i := 0; i < 3; i++ {
		term := &model.ExamTerm{
			ExamID: exam.ExamID, Date: mustDate("2026-02-03"), Time: "10:00",
			RoomName: "A101", ExpectedHeadcount: 25,
			ProposedByRole: model.RoleStarosta, ProposedByName: "Anna Nowak",
			Status: model.TermStatusProposed,
		}
		if err := repos.terms.Create(ctx, term); err != nil {
			t.Fatalf("写入场次失败: %v", err)
		}
	}

	resp, err := svc.RemoveDuplicates(ctx)
	if err != nil {
		t.Fatalf("去重应成功: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("期望删除 2 条重复记录，实际 %d 条", resp.Total)
	}
	if resp.Details["exam_terms"] != 2 {
		t.Errorf("期望 exam_terms 删除 2 条，实际 %d 条", resp.Details["exam_terms"])
	}
	if n := repos.terms.count(); n != 1 {
		t.Errorf("期望台账剩余 1 条，实际 %d 条", n)
	}

	// 幂等：二次执行删除数为零
	resp, err = svc.RemoveDuplicates(ctx)
	if err != nil {
		t.Fatalf("二次去重应成功: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("期望二次去重删除 0 条，实际 %d 条", resp.Total)
	}

	// 各表均出现在结果明细中
	for _, table := range []string{"exam_terms", "exams", "subjects", "rooms", "demo_users"} {
		if _, ok := resp.Details[table]; !ok {
			t.Errorf("期望明细包含表 %s", table)
		}
	}
}
