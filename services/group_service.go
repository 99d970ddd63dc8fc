package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/commune-net/commune/models"
)

// GroupService is the group directory and membership manager.
type GroupService struct {
	db *gorm.DB
}

// NewGroupService creates a GroupService.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// CreateGroupInput is the payload for Create.
type CreateGroupInput struct {
	Name        string
	Description string
	IsPrivate   bool
}

// ListSubscribed returns every group the caller holds a subscription for,
// owners resolved.
func (s *GroupService) ListSubscribed(ident Identity) ([]models.Group, error) {
	if err := ident.require(); err != nil {
		return nil, err
	}

	var groups []models.Group
	err := s.db.
		Joins("JOIN subscriptions ON subscriptions.group_id = groups.id").
		Where("subscriptions.user_id = ?", ident.UserID).
		Preload("Owner").
		Find(&groups).Error
	if err != nil {
		return nil, wrapStore("list subscribed groups", err)
	}
	return groups, nil
}

// SearchPublic returns public groups whose name starts with the prefix,
// matched case-insensitively. Private groups never appear, whatever the
// prefix. No session is required.
func (s *GroupService) SearchPublic(prefix string) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.
		Where("is_private = ?", false).
		Where("LOWER(name) LIKE ?", strings.ToLower(prefix)+"%").
		Preload("Owner").
		Find(&groups).Error
	if err != nil {
		return nil, wrapStore("search public groups", err)
	}
	return groups, nil
}

// Create persists a new group owned by the caller and subscribes the owner in
// the same transaction, so a group never exists without its first member.
func (s *GroupService) Create(ident Identity, in CreateGroupInput) (*models.Group, error) {
	if err := ident.require(); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, validationErrorf("group name must not be empty")
	}

	group := models.Group{
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		OwnerID:     ident.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		sub := models.Subscription{UserID: ident.UserID, GroupID: group.ID}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, wrapStore("create group", err)
	}

	if err := s.db.Preload("Owner").First(&group, "id = ?", group.ID).Error; err != nil {
		return nil, wrapStore("load created group", err)
	}
	return &group, nil
}

// Detail composes the group row with owner resolved, its newest-first
// top-level posts with authors, and the member list. The group fetch is
// checked first; any later fetch failure aborts the whole operation.
func (s *GroupService) Detail(id string) (*models.GroupDetail, error) {
	var group models.Group
	if err := s.db.Preload("Owner").First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
		}
		return nil, wrapStore("fetch group", err)
	}

	var entries []models.ThreadEntry
	err := s.db.
		Where("group_id = ? AND kind = ?", id, models.EntryKindPost).
		Order("created_at DESC").
		Preload("Author").
		Find(&entries).Error
	if err != nil {
		return nil, wrapStore("fetch group posts", err)
	}

	posts := make([]models.Post, len(entries))
	for i, e := range entries {
		posts[i] = models.PostFromEntry(e)
	}

	var members []models.ProfileSummary
	err = s.db.
		Table("subscriptions").
		Select("profiles.id, profiles.username").
		Joins("JOIN profiles ON profiles.id = subscriptions.user_id").
		Where("subscriptions.group_id = ?", id).
		Scan(&members).Error
	if err != nil {
		return nil, wrapStore("fetch group members", err)
	}

	return &models.GroupDetail{Group: group, Posts: posts, Members: members}, nil
}

// Join subscribes the caller to a group. Joining twice is a no-op.
func (s *GroupService) Join(ident Identity, groupID string) error {
	if err := ident.require(); err != nil {
		return err
	}
	return s.subscribe(ident.UserID, groupID)
}

// Leave removes the caller's subscription. Leaving a group the caller is not
// a member of succeeds without effect.
func (s *GroupService) Leave(ident Identity, groupID string) error {
	if err := ident.require(); err != nil {
		return err
	}
	return s.unsubscribe(ident.UserID, groupID)
}

// AddMember subscribes an arbitrary user to a group. Ownership checks are the
// backing store's policy, not enforced here.
func (s *GroupService) AddMember(ident Identity, groupID, userID string) error {
	if err := ident.require(); err != nil {
		return err
	}
	return s.subscribe(userID, groupID)
}

// RemoveMember deletes an arbitrary user's subscription.
func (s *GroupService) RemoveMember(ident Identity, groupID, userID string) error {
	if err := ident.require(); err != nil {
		return err
	}
	return s.unsubscribe(userID, groupID)
}

func (s *GroupService) subscribe(userID, groupID string) error {
	sub := models.Subscription{UserID: userID, GroupID: groupID}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error
	if err != nil {
		return wrapStore("create subscription", err)
	}
	return nil
}

func (s *GroupService) unsubscribe(userID, groupID string) error {
	err := s.db.
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.Subscription{}).Error
	if err != nil {
		return wrapStore("delete subscription", err)
	}
	return nil
}
