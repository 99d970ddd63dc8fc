package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryKind tags a thread row as a post or a comment. The tag, not the
// presence of a title or parent, is the discriminant.
type EntryKind string

const (
	EntryKindPost    EntryKind = "post"
	EntryKindComment EntryKind = "comment"
)

// ThreadEntry is the storage row shared by posts and comments. Comments carry
// a parent reference to a post; threading never goes deeper than one level.
// The row never leaves the service layer; callers see Post and Comment.
type ThreadEntry struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Kind      EntryKind `gorm:"size:16;not null;index"`
	Title     string    `gorm:"size:255"`
	Content   string    `gorm:"type:text;not null"`
	GroupID   string    `gorm:"size:36;not null;index"`
	UserID    string    `gorm:"size:36;not null;index"`
	ParentID  *string   `gorm:"size:36;index"`
	CreatedAt time.Time
	Author    Profile `gorm:"foreignKey:UserID"`
}

// TableName keeps the shared relation under the original table name.
func (ThreadEntry) TableName() string { return "posts" }

// BeforeCreate issues an opaque id when none was provided.
func (e *ThreadEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Post is a top-level content item within a group.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	GroupID   string    `json:"group_id"`
	Author    Profile   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a first-level reply to a post.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	GroupID   string    `json:"group_id"`
	PostID    string    `json:"post_id"`
	Author    Profile   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// PostDetail is the composed read model for a post: the post with its author
// resolved plus all first-level comments, oldest first.
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
}

// PostFromEntry converts a post-kind row to its public shape.
func PostFromEntry(e ThreadEntry) Post {
	return Post{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		GroupID:   e.GroupID,
		Author:    e.Author,
		CreatedAt: e.CreatedAt,
	}
}

// CommentFromEntry converts a comment-kind row to its public shape.
func CommentFromEntry(e ThreadEntry) Comment {
	c := Comment{
		ID:        e.ID,
		Content:   e.Content,
		GroupID:   e.GroupID,
		Author:    e.Author,
		CreatedAt: e.CreatedAt,
	}
	if e.ParentID != nil {
		c.PostID = *e.ParentID
	}
	return c
}
