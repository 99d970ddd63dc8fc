package models

import "time"

// Profile is the public identity record for a user. Its id matches the auth
// account id; the row is upserted right after registration and on every
// profile update.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Name      string    `gorm:"size:128" json:"name"`
	FirstName string    `gorm:"size:128" json:"first_name"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileSummary is the reduced shape used in member lists and search results.
type ProfileSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Summary reduces a profile to its list shape.
func (p Profile) Summary() ProfileSummary {
	return ProfileSummary{ID: p.ID, Username: p.Username, AvatarURL: p.AvatarURL}
}
