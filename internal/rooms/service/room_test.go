package service

import (
	"context"
	"testing"

	"roomly/internal/rooms/repository"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Mock repository for testing
type mockRoomRepository struct {
	createFunc     func(ctx context.Context, room *model.MeetingRoom) error
	findByIDFunc   func(ctx context.Context, id string) (*model.MeetingRoom, error)
	findByNameFunc func(ctx context.Context, name string) (*model.MeetingRoom, error)
	findByIDsFunc  func(ctx context.Context, ids []string) ([]*model.MeetingRoom, error)
	findIDsFunc    func(ctx context.Context, namePattern, locationPattern string) ([]string, error)
	listFunc       func(ctx context.Context, filter model.RoomListFilter, skip, limit int64) ([]*model.MeetingRoom, error)
	countListFunc  func(ctx context.Context, filter model.RoomListFilter) (int64, error)
	updateFunc     func(ctx context.Context, room *model.MeetingRoom) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.MeetingRoom) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = "64b5f0a1c2d3e4f5a6b7c8d9"
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockRoomRepository) FindByName(ctx context.Context, name string) (*model.MeetingRoom, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, repository.ErrNotFound
}

func (m *mockRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.MeetingRoom, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return []*model.MeetingRoom{}, nil
}

func (m *mockRoomRepository) FindIDs(ctx context.Context, namePattern, locationPattern string) ([]string, error) {
	if m.findIDsFunc != nil {
		return m.findIDsFunc(ctx, namePattern, locationPattern)
	}
	return []string{}, nil
}

func (m *mockRoomRepository) List(ctx context.Context, filter model.RoomListFilter, skip, limit int64) ([]*model.MeetingRoom, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, skip, limit)
	}
	return []*model.MeetingRoom{}, nil
}

func (m *mockRoomRepository) CountList(ctx context.Context, filter model.RoomListFilter) (int64, error) {
	if m.countListFunc != nil {
		return m.countListFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, room *model.MeetingRoom) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestService(repo *mockRoomRepository) RoomService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewRoomService(repo, validator.NewRoomValidator(cfg.Log), cfg)
}

func TestCreate_DuplicateName(t *testing.T) {
	created := false
	repo := &mockRoomRepository{
		findByNameFunc: func(ctx context.Context, name string) (*model.MeetingRoom, error) {
			return &model.MeetingRoom{ID: "64b5f0a1c2d3e4f5a6b7c8d9", Name: name}, nil
		},
		createFunc: func(ctx context.Context, room *model.MeetingRoom) error {
			created = true
			return nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), &model.MeetingRoom{
		Name:     "War Room",
		Capacity: 8,
		Location: "Floor 3",
	})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
	if created {
		t.Error("no room must be written when the name is taken")
	}
}

func TestCreate_Invalid(t *testing.T) {
	svc := newTestService(&mockRoomRepository{})

	tests := []struct {
		name string
		room *model.MeetingRoom
	}{
		{"missing name", &model.MeetingRoom{Capacity: 8, Location: "Floor 3"}},
		{"zero capacity", &model.MeetingRoom{Name: "War Room", Location: "Floor 3"}},
		{"missing location", &model.MeetingRoom{Name: "War Room", Capacity: 8}},
		{"oversized capacity", &model.MeetingRoom{Name: "War Room", Capacity: 10000, Location: "Floor 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.room)
			if !apperrors.IsCode(err, apperrors.CodeValidation) {
				t.Errorf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestCreate_NormalizesName(t *testing.T) {
	var stored *model.MeetingRoom
	repo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.MeetingRoom) error {
			room.ID = "64b5f0a1c2d3e4f5a6b7c8d9"
			stored = room
			return nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), &model.MeetingRoom{
		Name:     "  War   Room  ",
		Capacity: 8,
		Location: " Floor 3 ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Name != "War Room" {
		t.Errorf("expected normalized name, got %q", stored.Name)
	}
	if stored.Location != "Floor 3" {
		t.Errorf("expected trimmed location, got %q", stored.Location)
	}
}

func TestFindByID_MapsErrors(t *testing.T) {
	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			if id == "bad" {
				return nil, repository.ErrInvalidID
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.FindByID(context.Background(), "64b5f0a1c2d3e4f5a6b7c8ff")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got: %v", err)
	}

	_, err = svc.FindByID(context.Background(), "bad")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input, got: %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	existing := &model.MeetingRoom{
		ID:       "64b5f0a1c2d3e4f5a6b7c8d9",
		Name:     "War Room",
		Capacity: 8,
		Location: "Floor 3",
	}
	var updated *model.MeetingRoom
	repo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			room := *existing
			return &room, nil
		},
		updateFunc: func(ctx context.Context, room *model.MeetingRoom) error {
			updated = room
			return nil
		},
	}
	svc := newTestService(repo)

	capacity := 12
	_, err := svc.Update(context.Background(), existing.ID, &model.RoomUpdate{Capacity: &capacity})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Capacity != 12 {
		t.Errorf("expected capacity 12, got %d", updated.Capacity)
	}
	if updated.Name != "War Room" || updated.Location != "Floor 3" {
		t.Error("untouched fields must survive a partial update")
	}
}

func TestSummaries(t *testing.T) {
	repo := &mockRoomRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) ([]*model.MeetingRoom, error) {
			return []*model.MeetingRoom{
				{ID: "64b5f0a1c2d3e4f5a6b7c8d9", Name: "War Room", Location: "Floor 3", Capacity: 8},
			}, nil
		},
	}
	svc := newTestService(repo)

	summaries, err := svc.Summaries(context.Background(), []string{"64b5f0a1c2d3e4f5a6b7c8d9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, ok := summaries["64b5f0a1c2d3e4f5a6b7c8d9"]
	if !ok {
		t.Fatal("expected summary keyed by room id")
	}
	if summary.Name != "War Room" || summary.Capacity != 8 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	empty, err := svc.Summaries(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty id set must yield an empty map, got %v, %v", empty, err)
	}
}
