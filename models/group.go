package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a named community owned by one profile. Private groups are hidden
// from public search regardless of name match.
type Group struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPrivate   bool      `gorm:"not null;default:false" json:"is_private"`
	OwnerID     string    `gorm:"size:36;not null;index" json:"owner_id"`
	Owner       Profile   `gorm:"foreignKey:OwnerID" json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate issues an opaque id when none was provided.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Subscription links a user to a group. The pair is the whole identity; its
// existence is the membership signal used everywhere else.
type Subscription struct {
	UserID  string `gorm:"primaryKey;size:36" json:"user_id"`
	GroupID string `gorm:"primaryKey;size:36" json:"group_id"`
}

// GroupDetail is the composed read model for a single group: the group row
// with its owner resolved, newest-first top-level posts, and the member list.
type GroupDetail struct {
	Group
	Posts   []Post           `json:"posts"`
	Members []ProfileSummary `json:"members"`
}
