package model

import "time"

// User is an account in the user directory. The booking core only reads
// users: it stamps an owner ref on new bookings and filters searches by
// username. PasswordHash is excluded from every JSON projection; search
// results must never leak it.
type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Username     string    `json:"username" bson:"username" validate:"required,min=2,max=50"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Nickname     string    `json:"nickname,omitempty" bson:"nickname,omitempty" validate:"omitempty,max=50"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	IsAdmin      bool      `json:"is_admin" bson:"is_admin"`
	IsFrozen     bool      `json:"is_frozen" bson:"is_frozen"`
	Roles        []string  `json:"roles,omitempty" bson:"roles,omitempty"`
	Permissions  []string  `json:"permissions,omitempty" bson:"permissions,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// HasPermission is the pure predicate the authorization gate evaluates
// against an operation's capability descriptor before the core is invoked.
func (u *User) HasPermission(code string) bool {
	for _, p := range u.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

// UserSummary is the redacted owner projection embedded in booking search
// results. It deliberately has no credential field.
type UserSummary struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
	Nickname string `json:"nickname,omitempty" bson:"nickname,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
	}
}
