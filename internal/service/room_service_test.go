package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/sskalskiAGH/WebDev/internal/dto"
	"github.com/sskalskiAGH/WebDev/internal/model"
)

func newRoomTestSvc(t *testing.T) (*testRepos, RoomService) {
	t.Helper()
	repos := newTestRepos()
	return repos, NewRoomService(repos.repo, zap.NewNop())
}

func TestRoomCreate(t *testing.T) {
	_, svc := newRoomTestSvc(t)
	ctx := context.Background()

	// 未指定类型时默认 lecture
	resp, err := svc.Create(ctx, &dto.CreateRoomRequest{Name: "A101", Building: "A", Capacity: 30})
	if err != nil {
		t.Fatalf("创建教室应成功: %v", err)
	}
	if resp.Type != model.RoomTypeLecture {
		t.Errorf("期望默认类型 lecture，实际 %s", resp.Type)
	}

	// 同名拒绝
	_, err = svc.Create(ctx, &dto.CreateRoomRequest{Name: "A101", Building: "A", Capacity: 50})
	if !errors.Is(err, ErrRoomAlreadyExists) {
		t.Errorf("期望 ErrRoomAlreadyExists，实际: %v", err)
	}

	// 非法容量与类型拒绝
	for _, req := range []*dto.CreateRoomRequest{
		{Name: "B101", Building: "B", Capacity: 0},
		{Name: "B102", Building: "B", Capacity: 20, Type: "auditorium"},
	} {
		if _, err := svc.Create(ctx, req); !errors.Is(err, ErrRoomInvalidSpec) {
			t.Errorf("教室 %s: 期望 ErrRoomInvalidSpec，实际: %v", req.Name, err)
		}
	}
}

func TestRoomGetByName(t *testing.T) {
	_, svc := newRoomTestSvc(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateRoomRequest{Name: "C301", Building: "C", Capacity: 60, Type: model.RoomTypeLab}); err != nil {
		t.Fatalf("创建教室应成功: %v", err)
	}

	resp, err := svc.GetByName(ctx, "C301")
	if err != nil {
		t.Fatalf("查询教室应成功: %v", err)
	}
	if resp.Capacity != 60 || resp.Type != model.RoomTypeLab {
		t.Errorf("期望容量 60 类型 lab，实际 %d %s", resp.Capacity, resp.Type)
	}

	if _, err := svc.GetByName(ctx, "Z999"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomList(t *testing.T) {
	_, svc := newRoomTestSvc(t)
	ctx := context.Background()

	for _, name := range []string{"A101", "A102", "B201"} {
		if _, err := svc.Create(ctx, &dto.CreateRoomRequest{Name: name, Building: "A", Capacity: 30}); err != nil {
			t.Fatalf("创建教室 %s 应成功: %v", name, err)
		}
	}

	rooms, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("列表应成功: %v", err)
	}
	if len(rooms) != 3 {
		t.Errorf("期望 3 间教室，实际 %d 间", len(rooms))
	}
}
