package model

import "time"

// RoomLock is an advisory lock document serializing booking creation per
// room. The lock id is derived from the room id, so concurrent creates for
// the same room contend on a unique _id insert; the loser sees a duplicate
// key error. ExpiresAt backs a TTL index so crashed holders cannot wedge a
// room forever.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
