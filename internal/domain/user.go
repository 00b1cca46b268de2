package domain

import "time"

// User is a directory entry mirrored from the auth service. The ID is
// assigned by the auth service and never changes; rows are created and
// removed only in reaction to user lifecycle events.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the public shape returned by directory search.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"userName"`
}

// Summary converts a User to its public search shape.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}
