package service

import (
	"context"
	"errors"

	"roomly/internal/rooms/repository"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
)

// RoomService manages the meeting room directory. It also backs the booking
// scheduler's read-only room lookups.
type RoomService interface {
	Create(ctx context.Context, room *model.MeetingRoom) (*model.MeetingRoom, error)
	GetByID(ctx context.Context, id string) (*model.MeetingRoom, error)
	List(ctx context.Context, filter model.RoomListFilter, pageNo, pageSize int) ([]*model.MeetingRoom, int64, error)
	Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.MeetingRoom, error)
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*model.MeetingRoom, error)
	FindIDs(ctx context.Context, nameLike, locationLike string) ([]string, error)
	Summaries(ctx context.Context, ids []string) (map[string]*model.RoomSummary, error)
}

type roomService struct {
	repo      repository.RoomRepository
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(repo repository.RoomRepository, roomValidator *validator.RoomValidator, cfg *config.Config) RoomService {
	return &roomService{
		repo:      repo,
		validator: roomValidator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.MeetingRoom) (*model.MeetingRoom, error) {
	room.Name = sanitizer.NormalizeName(room.Name)
	room.Location = sanitizer.TrimAndNormalize(room.Location)
	room.Equipment = sanitizer.TrimAndNormalize(room.Equipment)
	room.Description = sanitizer.TrimAndNormalize(room.Description)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return nil, apperrors.Validation("Invalid meeting room", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByName(ctx, room.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check room name", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("A meeting room with this name already exists").
			WithDetails(map[string]any{"name": room.Name})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, apperrors.Internal("Failed to create meeting room", err)
	}

	s.cfg.Log.Info("Meeting room created",
		"room_id", room.ID,
		"name", room.Name,
		"capacity", room.Capacity,
	)
	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	return s.FindByID(ctx, id)
}

func (s *roomService) List(ctx context.Context, filter model.RoomListFilter, pageNo, pageSize int) ([]*model.MeetingRoom, int64, error) {
	if pageNo < 1 {
		return nil, 0, apperrors.Validation("page_no must be 1 or greater", nil)
	}
	pageSize = s.cfg.NormalizePageSize(pageSize)

	filter.Name = sanitizer.SearchTerm(filter.Name)
	filter.Equipment = sanitizer.SearchTerm(filter.Equipment)

	skip := int64(pageNo-1) * int64(pageSize)

	count, err := s.repo.CountList(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count meeting rooms", err)
	}

	rooms, err := s.repo.List(ctx, filter, skip, int64(pageSize))
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list meeting rooms", err)
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.MeetingRoom, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid meeting room update", map[string]any{"error": err.Error()})
	}

	room, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		name := sanitizer.NormalizeName(update.Name)
		if name != room.Name {
			existing, err := s.repo.FindByName(ctx, name)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.Internal("Failed to check room name", err)
			}
			if existing != nil {
				return nil, apperrors.Conflict("A meeting room with this name already exists").
					WithDetails(map[string]any{"name": name})
			}
		}
		room.Name = name
	}
	if update.Capacity != nil {
		room.Capacity = *update.Capacity
	}
	if update.Equipment != nil {
		room.Equipment = sanitizer.TrimAndNormalize(*update.Equipment)
	}
	if update.Location != "" {
		room.Location = sanitizer.TrimAndNormalize(update.Location)
	}
	if update.Description != nil {
		room.Description = sanitizer.TrimAndNormalize(*update.Description)
	}

	if err := s.repo.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Meeting room", id)
		}
		return nil, apperrors.Internal("Failed to update meeting room", err)
	}

	s.cfg.Log.Info("Meeting room updated", "room_id", room.ID, "name", room.Name)
	return room, nil
}

// Delete removes a room from the directory. Bookings that reference the room
// keep their room_id; lookups for it simply stop resolving.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperrors.NotFoundWithID("Meeting room", id)
		case errors.Is(err, repository.ErrInvalidID):
			return apperrors.InvalidInput("Invalid meeting room ID format")
		default:
			return apperrors.Internal("Failed to delete meeting room", err)
		}
	}

	s.cfg.Log.Info("Meeting room deleted", "room_id", id)
	return nil
}

func (s *roomService) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Meeting room", id)
		case errors.Is(err, repository.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid meeting room ID format")
		default:
			return nil, apperrors.Internal("Failed to find meeting room", err)
		}
	}
	return room, nil
}

func (s *roomService) FindIDs(ctx context.Context, nameLike, locationLike string) ([]string, error) {
	ids, err := s.repo.FindIDs(ctx, sanitizer.SearchTerm(nameLike), sanitizer.SearchTerm(locationLike))
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve room filter", err)
	}
	return ids, nil
}

func (s *roomService) Summaries(ctx context.Context, ids []string) (map[string]*model.RoomSummary, error) {
	if len(ids) == 0 {
		return map[string]*model.RoomSummary{}, nil
	}

	rooms, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to load room summaries", err)
	}

	summaries := make(map[string]*model.RoomSummary, len(rooms))
	for _, room := range rooms {
		summaries[room.ID] = room.Summary()
	}
	return summaries, nil
}
