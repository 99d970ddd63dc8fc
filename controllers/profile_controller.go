package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/commune-net/commune/middleware"
	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/storage"
	"github.com/commune-net/commune/utils"
)

// ProfileController exposes profile reads/writes and the avatar upload.
type ProfileController struct {
	profiles *services.ProfileService
}

// NewProfileController creates a ProfileController.
func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// UpdateProfile upserts the caller's profile. Omitted fields keep their
// stored values. An avatar may be sent as a multipart file alongside the
// form fields.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	upd := services.ProfileUpdate{}
	if v, ok := ctx.GetPostForm("username"); ok {
		clean := utils.SanitizeStrict(v)
		upd.Username = &clean
	}
	if v, ok := ctx.GetPostForm("name"); ok {
		clean := utils.SanitizeStrict(v)
		upd.Name = &clean
	}
	if v, ok := ctx.GetPostForm("first_name"); ok {
		clean := utils.SanitizeStrict(v)
		upd.FirstName = &clean
	}

	if file, header, err := ctx.Request.FormFile("avatar"); err == nil {
		defer file.Close()
		up, readErr := readAvatar(file, header.Header.Get("Content-Type"))
		if readErr != nil {
			utils.Error(ctx, http.StatusBadRequest, 40031, readErr.Error())
			return
		}
		upd.Avatar = up
	}

	profile, err := p.profiles.Upsert(middleware.IdentityFrom(ctx), upd)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"profile": profile})
}

// UploadAvatar stores a new avatar and returns its public URL.
func (p *ProfileController) UploadAvatar(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("avatar")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no avatar uploaded")
		return
	}
	defer file.Close()

	up, err := readAvatar(file, header.Header.Get("Content-Type"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, err.Error())
		return
	}

	url, err := p.profiles.UploadAvatar(middleware.IdentityFrom(ctx), up)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"url": url})
}

// SearchProfiles matches usernames by substring, excluding the caller.
func (p *ProfileController) SearchProfiles(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("username"))
	profiles, err := p.profiles.Search(middleware.IdentityFrom(ctx), query)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"profiles": profiles})
}

// readAvatar buffers the payload. Reading stops just past the ceiling; the
// service rejects oversized payloads before any store write.
func readAvatar(r io.Reader, contentType string) (*storage.Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, storage.MaxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	return &storage.Upload{Data: data, ContentType: contentType}, nil
}
