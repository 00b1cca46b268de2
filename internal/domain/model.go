package domain

import "time"

// UserModel is the GORM model for the users table. IDs come from the auth
// service, so the column is a plain primary key without auto-increment.
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to a domain User.
func (m *UserModel) ToDomain() *User {
	return &User{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

// UserToModel converts a domain User to its GORM model.
func UserToModel(u *User) *UserModel {
	return &UserModel{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

// PhemeModel is the GORM model for the phemes table.
type PhemeModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OwnerID    uint      `gorm:"column:owner_id;index;not null"`
	AuthorID   uint      `gorm:"column:author_id;index;not null"`
	Visibility byte      `gorm:"not null"`
	Category   string    `gorm:"type:varchar(100);not null"`
	Text       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (PhemeModel) TableName() string { return "phemes" }

// ToDomain converts PhemeModel to a domain Pheme.
func (m *PhemeModel) ToDomain() *Pheme {
	return &Pheme{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		AuthorID:   m.AuthorID,
		Visibility: Visibility(m.Visibility),
		Category:   m.Category,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// PhemeToModel converts a domain Pheme to its GORM model.
func PhemeToModel(p *Pheme) *PhemeModel {
	return &PhemeModel{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		AuthorID:   p.AuthorID,
		Visibility: byte(p.Visibility),
		Category:   p.Category,
		Text:       p.Text,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// FriendModel is the GORM model for the friendships table. The pair is
// stored canonically with UserAID < UserBID, which makes the edge symmetric
// by construction and lets a single unique index forbid duplicates.
type FriendModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserAID   uint      `gorm:"column:user_a_id;uniqueIndex:uidx_friend_pair;not null"`
	UserBID   uint      `gorm:"column:user_b_id;uniqueIndex:uidx_friend_pair;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FriendModel) TableName() string { return "friendships" }

// FollowerModel is the GORM model for the followships table. FollowerID
// follows FollowedID.
type FollowerModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	FollowerID uint      `gorm:"column:follower_id;uniqueIndex:uidx_follow_pair;not null"`
	FollowedID uint      `gorm:"column:followed_id;uniqueIndex:uidx_follow_pair;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (FollowerModel) TableName() string { return "followships" }
