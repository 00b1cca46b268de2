package domain

import "time"

// Pheme is a short owned text post. OwnerID is the user whose wall the pheme
// lives on; AuthorID is the user who wrote it. They differ only for wall
// posts between friends.
type Pheme struct {
	ID         uint       `json:"id"`
	OwnerID    uint       `json:"userID"`
	AuthorID   uint       `json:"createdBy"`
	Visibility Visibility `json:"visibility"`
	Category   string     `json:"category"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// PhemeRequest is the body of both POST /pheme and PUT /pheme/:id.
// Visibility defaults to private when absent. UserID names the wall owner,
// normally the caller themselves.
type PhemeRequest struct {
	Visibility byte   `json:"visibility"`
	Category   string `json:"category" binding:"required"`
	Text       string `json:"text" binding:"required"`
	UserID     uint   `json:"userID" binding:"required"`
}
