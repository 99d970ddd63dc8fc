package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/commune-net/commune/models"
	"github.com/commune-net/commune/utils"
)

// StatsController reports community totals.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns overall group, post, comment, and profile counts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var groups, posts, comments, profiles int64

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&groups, s.db.Model(&models.Group{})},
		{&posts, s.db.Model(&models.ThreadEntry{}).Where("kind = ?", models.EntryKindPost)},
		{&comments, s.db.Model(&models.ThreadEntry{}).Where("kind = ?", models.EntryKindComment)},
		{&profiles, s.db.Model(&models.Profile{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to count records")
			return
		}
	}

	utils.Success(ctx, gin.H{
		"groups":   groups,
		"posts":    posts,
		"comments": comments,
		"profiles": profiles,
	})
}
