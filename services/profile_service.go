package services

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/commune-net/commune/models"
	"github.com/commune-net/commune/storage"
	"github.com/commune-net/commune/utils"
)

// ProfileService reads and writes profile rows and handles the avatar upload
// side channel.
type ProfileService struct {
	db      *gorm.DB
	avatars storage.BlobStore
}

// NewProfileService creates a ProfileService.
func NewProfileService(db *gorm.DB, avatars storage.BlobStore) *ProfileService {
	return &ProfileService{db: db, avatars: avatars}
}

// ProfileUpdate carries the optional fields of an upsert. Nil fields keep
// whatever the stored profile already has.
type ProfileUpdate struct {
	Username  *string
	Name      *string
	FirstName *string
	Avatar    *storage.Upload
}

// Fetch returns the caller's profile, or nil for anonymous callers. A known
// user with no profile row yet still gets a record carrying the identity id.
func (s *ProfileService) Fetch(ident Identity) (*models.Profile, error) {
	if ident.IsAnonymous() {
		return nil, nil
	}
	var profile models.Profile
	if err := s.db.Where("id = ?", ident.UserID).Limit(1).Find(&profile).Error; err != nil {
		return nil, wrapStore("fetch profile", err)
	}
	profile.ID = ident.UserID
	return &profile, nil
}

// Upsert updates or inserts the caller's profile. Unspecified fields default
// to the previously stored values. An avatar payload is uploaded first and
// replaced by its public URL; with no payload the avatar falls back to the
// deterministic placeholder generated from the username.
func (s *ProfileService) Upsert(ident Identity, upd ProfileUpdate) (*models.Profile, error) {
	if err := ident.require(); err != nil {
		return nil, err
	}

	prev, err := s.Fetch(ident)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(pick(upd.Username, prev.Username))
	if username == "" {
		return nil, validationErrorf("username must not be empty")
	}

	avatarURL := utils.PlaceholderAvatarURL(username)
	if upd.Avatar != nil {
		avatarURL, err = s.UploadAvatar(ident, upd.Avatar)
		if err != nil {
			return nil, err
		}
	}

	profile := models.Profile{
		ID:        ident.UserID,
		Username:  username,
		Name:      pick(upd.Name, prev.Name),
		FirstName: pick(upd.FirstName, prev.FirstName),
		AvatarURL: avatarURL,
		UpdatedAt: time.Now(),
	}

	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&profile).Error; err != nil {
		return nil, wrapStore("upsert profile", err)
	}
	return &profile, nil
}

// UploadAvatar stores an avatar blob at a path keyed by the caller's id and
// the payload's media subtype, overwriting any prior avatar, and returns the
// public URL. Oversized or missing payloads fail before any store mutation.
func (s *ProfileService) UploadAvatar(ident Identity, up *storage.Upload) (string, error) {
	if err := ident.require(); err != nil {
		return "", err
	}
	if up == nil || len(up.Data) == 0 {
		return "", validationErrorf("avatar payload is missing")
	}
	if up.Size() > storage.MaxAvatarBytes {
		return "", validationErrorf("avatar exceeds %d bytes", storage.MaxAvatarBytes)
	}

	url, err := s.avatars.Put(ident.UserID+"."+up.Subtype(), up.Data)
	if err != nil {
		return "", wrapStore("upload avatar", err)
	}
	return url, nil
}

// Search returns profiles whose username contains the query, matched
// case-insensitively, excluding the caller's own profile.
func (s *ProfileService) Search(ident Identity, username string) ([]models.ProfileSummary, error) {
	if err := ident.require(); err != nil {
		return nil, err
	}

	var profiles []models.Profile
	err := s.db.
		Where("id <> ?", ident.UserID).
		Where("LOWER(username) LIKE ?", "%"+strings.ToLower(username)+"%").
		Order("username").
		Find(&profiles).Error
	if err != nil {
		return nil, wrapStore("search profiles", err)
	}

	summaries := make([]models.ProfileSummary, len(profiles))
	for i, p := range profiles {
		summaries[i] = p.Summary()
	}
	return summaries, nil
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
