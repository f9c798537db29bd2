package model

import "time"

// MeetingRoom is a bookable room. Name is unique across the directory.
type MeetingRoom struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=50"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=500"`
	Equipment   string    `json:"equipment,omitempty" bson:"equipment,omitempty" validate:"omitempty,max=100"`
	Location    string    `json:"location" bson:"location" validate:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=200"`
	IsBooked    bool      `json:"is_booked" bson:"is_booked"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// RoomUpdate carries a partial update; nil/zero fields are left untouched.
type RoomUpdate struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=500"`
	Equipment   *string `json:"equipment,omitempty" validate:"omitempty,max=100"`
	Location    string  `json:"location,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
}

// RoomListFilter narrows a room listing.
type RoomListFilter struct {
	Name      string
	Equipment string
	Capacity  int
}

// RoomSummary is the projection of a room embedded in booking search results.
type RoomSummary struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Location string `json:"location" bson:"location"`
	Capacity int    `json:"capacity" bson:"capacity"`
}

func (r *MeetingRoom) Summary() *RoomSummary {
	return &RoomSummary{
		ID:       r.ID,
		Name:     r.Name,
		Location: r.Location,
		Capacity: r.Capacity,
	}
}
