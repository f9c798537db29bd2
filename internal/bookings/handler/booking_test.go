package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Mock service for testing
type mockBookingService struct {
	createFunc  func(ctx context.Context, roomID, userID string, start, end time.Time) (*model.Booking, error)
	getByIDFunc func(ctx context.Context, id string) (*model.BookingView, error)
	searchFunc  func(ctx context.Context, filter model.BookingSearchFilter, pageNo, pageSize int) ([]*model.BookingView, int64, error)
	approveFunc func(ctx context.Context, id string) error
	unbindFunc  func(ctx context.Context, id string) error
}

func (m *mockBookingService) Create(ctx context.Context, roomID, userID string, start, end time.Time) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, roomID, userID, start, end)
	}
	return &model.Booking{ID: "64b5f0a1c2d3e4f5a6b7c8db", Status: model.StatusPending}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.BookingView, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) Search(ctx context.Context, filter model.BookingSearchFilter, pageNo, pageSize int) ([]*model.BookingView, int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, pageNo, pageSize)
	}
	return []*model.BookingView{}, 0, nil
}

func (m *mockBookingService) Approve(ctx context.Context, id string) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingService) Reject(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) Unbind(ctx context.Context, id string) error {
	if m.unbindFunc != nil {
		return m.unbindFunc(ctx, id)
	}
	return nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	router := httprouter.New()
	NewBookingHandler(svc, cfg).RegisterRoutes(router)
	return router
}

func TestCreate_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"admitted", nil, http.StatusCreated},
		{"invalid window", apperrors.Validation("Invalid booking window", nil), http.StatusUnprocessableEntity},
		{"unknown room", apperrors.NotFoundWithID("Meeting room", "x"), http.StatusNotFound},
		{"overlap", apperrors.Conflict("Room is already booked for an overlapping window"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFunc: func(ctx context.Context, roomID, userID string, start, end time.Time) (*model.Booking, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &model.Booking{ID: "64b5f0a1c2d3e4f5a6b7c8db", Status: model.StatusPending}, nil
				},
			}
			router := newTestRouter(svc)

			body := `{"room_id":"64b5f0a1c2d3e4f5a6b7c8d9","start_time":"2025-06-02T10:00:00Z","end_time":"2025-06-02T11:00:00Z"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_PassesCallerHeader(t *testing.T) {
	var gotUserID string
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, roomID, userID string, start, end time.Time) (*model.Booking, error) {
			gotUserID = userID
			return &model.Booking{ID: "64b5f0a1c2d3e4f5a6b7c8db", Status: model.StatusPending}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"room_id":"64b5f0a1c2d3e4f5a6b7c8d9","start_time":"2025-06-02T10:00:00Z","end_time":"2025-06-02T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(CallerHeader, "64b5f0a1c2d3e4f5a6b7c8da")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if gotUserID != "64b5f0a1c2d3e4f5a6b7c8da" {
		t.Errorf("expected caller id from %s header, got %q", CallerHeader, gotUserID)
	}
}

func TestSearch_ParsesQuery(t *testing.T) {
	var gotFilter model.BookingSearchFilter
	var gotPageNo, gotPageSize int
	svc := &mockBookingService{
		searchFunc: func(ctx context.Context, filter model.BookingSearchFilter, pageNo, pageSize int) ([]*model.BookingView, int64, error) {
			gotFilter = filter
			gotPageNo = pageNo
			gotPageSize = pageSize
			return []*model.BookingView{}, 0, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/search?owner_name=alice&room_name=war&room_location=floor&range_start=2025-06-02T10:00:00Z&page_no=2&page_size=5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotFilter.OwnerName != "alice" || gotFilter.RoomName != "war" || gotFilter.RoomLocation != "floor" {
		t.Errorf("unexpected filter: %+v", gotFilter)
	}
	if gotFilter.RangeStart == nil || !gotFilter.RangeStart.Equal(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected range start: %v", gotFilter.RangeStart)
	}
	if gotPageNo != 2 || gotPageSize != 5 {
		t.Errorf("expected page 2 size 5, got %d/%d", gotPageNo, gotPageSize)
	}
}

func TestSearch_MalformedTime(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/search?range_start=yesterday", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSearch_PaginatedEnvelope(t *testing.T) {
	svc := &mockBookingService{
		searchFunc: func(ctx context.Context, filter model.BookingSearchFilter, pageNo, pageSize int) ([]*model.BookingView, int64, error) {
			return []*model.BookingView{
				{Booking: model.Booking{ID: "64b5f0a1c2d3e4f5a6b7c8db", Status: model.StatusPending}},
			}, 41, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/search", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	var envelope struct {
		Data       []json.RawMessage `json:"data"`
		TotalCount int64             `json:"total_count"`
		PageNo     int               `json:"page_no"`
		PageSize   int               `json:"page_size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.TotalCount != 41 {
		t.Errorf("expected total_count 41, got %d", envelope.TotalCount)
	}
	if envelope.PageNo != 1 {
		t.Errorf("expected page_no 1, got %d", envelope.PageNo)
	}
	if len(envelope.Data) != 1 {
		t.Errorf("expected 1 result, got %d", len(envelope.Data))
	}
}

func TestTransitionRoutes(t *testing.T) {
	var approved, unbound []string
	svc := &mockBookingService{
		approveFunc: func(ctx context.Context, id string) error {
			approved = append(approved, id)
			return nil
		},
		unbindFunc: func(ctx context.Context, id string) error {
			unbound = append(unbound, id)
			return nil
		},
	}
	router := newTestRouter(svc)

	for _, path := range []string{
		"/api/v1/bookings/id/64b5f0a1c2d3e4f5a6b7c8db/approve",
		"/api/v1/bookings/id/64b5f0a1c2d3e4f5a6b7c8db/unbind",
	} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: expected 204, got %d", path, rec.Code)
		}
	}

	if len(approved) != 1 || len(unbound) != 1 {
		t.Errorf("expected one approve and one unbind, got %d/%d", len(approved), len(unbound))
	}
}

func TestTransition_IllegalMapsToConflict(t *testing.T) {
	svc := &mockBookingService{
		unbindFunc: func(ctx context.Context, id string) error {
			return apperrors.InvalidTransition("Booking", id, "pending", "unbound")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/64b5f0a1c2d3e4f5a6b7c8db/unbind", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var body struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidTransition, body.Code)
	}
	if body.Details["from"] != "pending" || body.Details["to"] != "unbound" {
		t.Errorf("expected transition details, got %v", body.Details)
	}
}
