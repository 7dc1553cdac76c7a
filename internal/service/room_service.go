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

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound      = errors.New("教室不存在")
	ErrRoomAlreadyExists = errors.New("同名教室已存在")
	ErrRoomInvalidSpec   = errors.New("教室参数无效：容量必须为正数，类型须为 lecture/lab/other")
)

// RoomService 教室目录（Room Directory）业务接口
// 读多写少的参考数据，读操作无任何副作用
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetByName(ctx context.Context, name string) (*dto.RoomResponse, error)
	List(ctx context.Context) ([]dto.RoomResponse, error)
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	roomType := req.Type
	if roomType == "" {
		roomType = model.RoomTypeLecture
	}
	if req.Capacity <= 0 || !validRoomType(roomType) {
		return nil, ErrRoomInvalidSpec
	}

	exists, err := s.repo.Room.ExistsByName(ctx, req.Name)
	if err != nil {
		s.logger.Error("检查教室名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrRoomAlreadyExists
	}

	room := &model.Room{
		Name:     req.Name,
		Building: req.Building,
		Capacity: req.Capacity,
		Type:     roomType,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

// ────────────────────── GetByName ──────────────────────

func (s *roomService) GetByName(ctx context.Context, name string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *s.toRoomResponse(&rooms[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func validRoomType(t string) bool {
	switch t {
	case model.RoomTypeLecture, model.RoomTypeLab, model.RoomTypeOther:
		return true
	}
	return false
}

func (s *roomService) toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:       room.RoomID,
		Name:     room.Name,
		Building: room.Building,
		Capacity: room.Capacity,
		Type:     room.Type,
	}
}
