package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/commune-net/commune/models"
)

// ThreadService creates, deletes, and composes posts and their first-level
// comments. Both live in the shared posts table, tagged by kind.
type ThreadService struct {
	db *gorm.DB
}

// NewThreadService creates a ThreadService.
func NewThreadService(db *gorm.DB) *ThreadService {
	return &ThreadService{db: db}
}

// CreatePostInput is the payload for CreatePost.
type CreatePostInput struct {
	Title   string
	Content string
	GroupID string
}

// CreateCommentInput is the payload for CreateComment.
type CreateCommentInput struct {
	Content  string
	GroupID  string
	ParentID string
}

// CreatePost persists a new top-level post authored by the caller.
func (s *ThreadService) CreatePost(ident Identity, in CreatePostInput) (*models.Post, error) {
	if err := ident.require(); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, validationErrorf("post title must not be empty")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, validationErrorf("post content must not be empty")
	}

	entry := models.ThreadEntry{
		Kind:    models.EntryKindPost,
		Title:   in.Title,
		Content: in.Content,
		GroupID: in.GroupID,
		UserID:  ident.UserID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, wrapStore("create post", err)
	}
	if err := s.db.Preload("Author").First(&entry, "id = ?", entry.ID).Error; err != nil {
		return nil, wrapStore("load created post", err)
	}

	post := models.PostFromEntry(entry)
	return &post, nil
}

// CreateComment persists a reply to a post. The parent must be an existing
// post; comments never nest under other comments.
func (s *ThreadService) CreateComment(ident Identity, in CreateCommentInput) (*models.Comment, error) {
	if err := ident.require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, validationErrorf("comment content must not be empty")
	}

	var parent models.ThreadEntry
	err := s.db.
		Where("id = ? AND kind = ?", in.ParentID, models.EntryKindPost).
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", in.ParentID, ErrNotFound)
		}
		return nil, wrapStore("fetch parent post", err)
	}

	entry := models.ThreadEntry{
		Kind:     models.EntryKindComment,
		Content:  in.Content,
		GroupID:  in.GroupID,
		UserID:   ident.UserID,
		ParentID: &parent.ID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, wrapStore("create comment", err)
	}
	if err := s.db.Preload("Author").First(&entry, "id = ?", entry.ID).Error; err != nil {
		return nil, wrapStore("load created comment", err)
	}

	comment := models.CommentFromEntry(entry)
	return &comment, nil
}

// DeletePost removes a post by id. Comments are not cascaded; they become
// unreachable through the read paths, which key comments by parent id.
func (s *ThreadService) DeletePost(ident Identity, id string) error {
	return s.deleteEntry(ident, id, models.EntryKindPost)
}

// DeleteComment removes a comment by id.
func (s *ThreadService) DeleteComment(ident Identity, id string) error {
	return s.deleteEntry(ident, id, models.EntryKindComment)
}

func (s *ThreadService) deleteEntry(ident Identity, id string, kind models.EntryKind) error {
	if err := ident.require(); err != nil {
		return err
	}
	err := s.db.
		Where("id = ? AND kind = ?", id, kind).
		Delete(&models.ThreadEntry{}).Error
	if err != nil {
		return wrapStore("delete "+string(kind), err)
	}
	return nil
}

// PostDetail composes a post with its author and all first-level comments,
// oldest first, each with the authoring profile resolved. The post fetch is
// checked before the comment fetch runs.
func (s *ThreadService) PostDetail(id string) (*models.PostDetail, error) {
	var entry models.ThreadEntry
	err := s.db.
		Where("id = ? AND kind = ?", id, models.EntryKindPost).
		Preload("Author").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, wrapStore("fetch post", err)
	}

	var rows []models.ThreadEntry
	err = s.db.
		Where("parent_id = ?", id).
		Order("created_at ASC").
		Preload("Author").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStore("fetch comments", err)
	}

	comments := make([]models.Comment, len(rows))
	for i, r := range rows {
		comments[i] = models.CommentFromEntry(r)
	}

	return &models.PostDetail{Post: models.PostFromEntry(entry), Comments: comments}, nil
}
