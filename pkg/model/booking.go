package model

import (
	"time"
)

// Booking is a reservation of a meeting room for a half-open time window
// [start_time, end_time). Room and owner are referenced by id only; they are
// resolved through their directories and never embedded, so a booking cannot
// hold a stale copy of either. UserID may be empty when owner resolution
// failed at creation time.
type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID    string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	UserID    string        `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty,mongodb"`
	StartTime time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending approved rejected unbound"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's window intersects [start, end).
// Touching windows (b.EndTime == start) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// BookingSearchFilter narrows a booking search. Name fields are substring
// matches resolved against the room and user directories; the time window is
// half-open and optional.
type BookingSearchFilter struct {
	OwnerName    string
	RoomName     string
	RoomLocation string
	RangeStart   *time.Time
	RangeEnd     *time.Time
}

// BookingView is a booking enriched for read responses: the owner and room
// refs are resolved to redacted summaries at query time.
type BookingView struct {
	Booking
	Owner *UserSummary `json:"owner,omitempty"`
	Room  *RoomSummary `json:"room,omitempty"`
}
