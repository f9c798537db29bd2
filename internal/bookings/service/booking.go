package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/internal/bookings/events"
	"roomly/internal/bookings/repository"
	"roomly/internal/bookings/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// RoomDirectory is the read-only view of the room registry the scheduler
// depends on. Implemented by the rooms service.
type RoomDirectory interface {
	FindByID(ctx context.Context, id string) (*model.MeetingRoom, error)
	FindIDs(ctx context.Context, nameLike, locationLike string) ([]string, error)
	Summaries(ctx context.Context, ids []string) (map[string]*model.RoomSummary, error)
}

// UserDirectory is the read-only view of the user registry. Summaries carry
// no credential material.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindIDs(ctx context.Context, usernameLike string) ([]string, error)
	Summaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error)
}

// BookingService is the single entry point for booking admission control
// and lifecycle transitions.
type BookingService interface {
	Create(ctx context.Context, roomID, userID string, start, end time.Time) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.BookingView, error)
	Search(ctx context.Context, filter model.BookingSearchFilter, pageNo, pageSize int) ([]*model.BookingView, int64, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Unbind(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	rooms     RoomDirectory
	users     UserDirectory
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	rooms RoomDirectory,
	users UserDirectory,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		users:     users,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create admits a booking for [start, end) on the given room. The conflict
// check and the insert run under a per-room advisory lock and inside one
// transaction, so two concurrent creates for the same room cannot both pass
// the check: one wins, the other sees a conflict.
func (s *bookingService) Create(ctx context.Context, roomID, userID string, start, end time.Time) (*model.Booking, error) {
	if err := s.validator.ValidateWindow(start, end); err != nil {
		s.cfg.Log.Warn("Booking window validation failed", "error", err)
		return nil, apperrors.Validation("Invalid booking window", map[string]any{"error": err.Error()})
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NotFoundWithID("Meeting room", roomID)
		}
		return nil, apperrors.Internal("Failed to resolve meeting room", err)
	}

	booking := &model.Booking{
		RoomID:    room.ID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Status:    model.StatusPending,
	}

	// Owner resolution is best effort: a booking whose requester cannot be
	// resolved is still admitted, just without an owner ref.
	if userID != "" {
		owner, err := s.users.FindByID(ctx, userID)
		switch {
		case err == nil:
			booking.UserID = owner.ID
		case apperrors.IsCode(err, apperrors.CodeNotFound):
			s.cfg.Log.Warn("Booking owner could not be resolved, creating ownerless booking",
				"user_id", userID,
				"room_id", roomID,
			)
		default:
			return nil, apperrors.Internal("Failed to resolve booking owner", err)
		}
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	lockID, err := s.acquireRoomLock(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkAdmission(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeConflict) {
			s.cfg.Log.Error("Failed to create booking", "error", err)
		}
		return nil, err
	}

	s.publish(ctx, events.TypeBookingCreated, booking)

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingView, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	views, err := s.buildViews(ctx, []*model.Booking{booking})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Search filters bookings by owner username, room name, room location, and
// an optional time window, all combined. Name filters resolve to id sets
// through the directories first; a filter that matches no rooms or users
// short-circuits to an empty result. Results are ordered by ascending
// booking id and carry the total match count alongside the page.
func (s *bookingService) Search(ctx context.Context, filter model.BookingSearchFilter, pageNo, pageSize int) ([]*model.BookingView, int64, error) {
	if pageNo < 1 {
		return nil, 0, apperrors.Validation("page_no must be at least 1", nil)
	}
	pageSize = s.cfg.NormalizePageSize(pageSize)

	query, empty, err := s.resolveSearchQuery(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if empty {
		return []*model.BookingView{}, 0, nil
	}

	skip := int64(pageNo-1) * int64(pageSize)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountSearch(ctx, query)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Search(ctx, query, skip, int64(pageSize))
		if errFind != nil {
			s.cfg.Log.Error("Failed to search bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to search bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views, err := s.buildViews(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}

	s.cfg.Log.Debug("Booking search completed",
		"page_no", pageNo,
		"page_size", pageSize,
		"returned", len(views),
		"total_count", count,
	)
	return views, count, nil
}

func (s *bookingService) Approve(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusApproved, events.TypeBookingApproved)
}

func (s *bookingService) Reject(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusRejected, events.TypeBookingRejected)
}

func (s *bookingService) Unbind(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusUnbound, events.TypeBookingUnbound)
}

// transition performs one guarded lifecycle move. The repository write
// requires the booking to be in the transition's source status; a refused
// write is reported as NotFound or InvalidTransition, never as success.
func (s *bookingService) transition(ctx context.Context, id string, target model.BookingStatus, eventType string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	from, ok := model.RequiredFrom(target)
	if !ok {
		return apperrors.InvalidInput(fmt.Sprintf("no transition leads to status %s", target))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, from, target)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusMismatch) {
			current := "unknown"
			if booking, findErr := s.repo.FindByID(ctx, id); findErr == nil {
				current = string(booking.Status)
			}
			s.cfg.Log.Warn("Illegal booking transition refused",
				"id", id,
				"current_status", current,
				"target_status", target,
			)
			return apperrors.InvalidTransition("Booking", id, current, string(target))
		}
		return s.mapLookupError(err, id)
	}

	s.publish(ctx, eventType, updated)

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", from,
		"to", target,
	)
	return nil
}

// --- Helpers ---

// checkAdmission rejects the candidate when any active booking for the room
// overlaps its window. True interval overlap: an existing booking conflicts
// iff existing.start < end && existing.end > start, so a partial overlap is
// just as fatal as full containment and touching windows pass.
func (s *bookingService) checkAdmission(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.RoomID, booking.StartTime, booking.EndTime, booking.ID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if len(existing) > 0 {
		first := existing[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Room is already booked for an overlapping window (%s - %s)",
			first.StartTime.Format(time.RFC3339),
			first.EndTime.Format(time.RFC3339),
		))
	}
	return nil
}

// resolveSearchQuery turns name filters into id sets. The returned empty
// flag is true when a filter matched nothing, in which case no booking can
// match either. A missing range end defaults to one search-range past the
// start.
func (s *bookingService) resolveSearchQuery(ctx context.Context, filter model.BookingSearchFilter) (repository.SearchQuery, bool, error) {
	query := repository.SearchQuery{}

	if filter.OwnerName != "" {
		userIDs, err := s.users.FindIDs(ctx, filter.OwnerName)
		if err != nil {
			return query, false, apperrors.Internal("Failed to resolve owner filter", err)
		}
		if len(userIDs) == 0 {
			return query, true, nil
		}
		query.UserIDs = userIDs
	}

	if filter.RoomName != "" || filter.RoomLocation != "" {
		roomIDs, err := s.rooms.FindIDs(ctx, filter.RoomName, filter.RoomLocation)
		if err != nil {
			return query, false, apperrors.Internal("Failed to resolve room filter", err)
		}
		if len(roomIDs) == 0 {
			return query, true, nil
		}
		query.RoomIDs = roomIDs
	}

	if filter.RangeStart != nil {
		start := *filter.RangeStart
		query.RangeStart = &start

		end := start.Add(s.cfg.DefaultSearchRange)
		if filter.RangeEnd != nil {
			end = *filter.RangeEnd
		}
		if !end.After(start) {
			return query, false, apperrors.Validation("range_end must be after range_start", nil)
		}
		query.RangeEnd = &end
	} else if filter.RangeEnd != nil {
		end := *filter.RangeEnd
		query.RangeEnd = &end
	}

	return query, false, nil
}

// buildViews resolves room and owner refs to redacted summaries. The owner
// projection is a UserSummary, which carries no credential field, so search
// results cannot leak a password hash.
func (s *bookingService) buildViews(ctx context.Context, bookings []*model.Booking) ([]*model.BookingView, error) {
	roomIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, len(bookings))
	seenRooms := make(map[string]struct{})
	seenUsers := make(map[string]struct{})

	for _, b := range bookings {
		if _, ok := seenRooms[b.RoomID]; !ok && b.RoomID != "" {
			seenRooms[b.RoomID] = struct{}{}
			roomIDs = append(roomIDs, b.RoomID)
		}
		if _, ok := seenUsers[b.UserID]; !ok && b.UserID != "" {
			seenUsers[b.UserID] = struct{}{}
			userIDs = append(userIDs, b.UserID)
		}
	}

	roomSummaries := map[string]*model.RoomSummary{}
	if len(roomIDs) > 0 {
		var err error
		roomSummaries, err = s.rooms.Summaries(ctx, roomIDs)
		if err != nil {
			return nil, apperrors.Internal("Failed to resolve room summaries", err)
		}
	}

	userSummaries := map[string]*model.UserSummary{}
	if len(userIDs) > 0 {
		var err error
		userSummaries, err = s.users.Summaries(ctx, userIDs)
		if err != nil {
			return nil, apperrors.Internal("Failed to resolve owner summaries", err)
		}
	}

	views := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, &model.BookingView{
			Booking: *b,
			Room:    roomSummaries[b.RoomID],
			Owner:   userSummaries[b.UserID],
		})
	}
	return views, nil
}

// acquireRoomLock takes the advisory lock serializing creation for a room.
// A duplicate key error means another create holds it; the caller gets a
// conflict and may retry.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.RoomLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking); err != nil {
		// Event publication is advisory; the committed write stands.
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}
