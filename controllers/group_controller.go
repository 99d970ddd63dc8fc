package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commune-net/commune/middleware"
	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/utils"
)

// GroupController exposes the group directory and membership management.
type GroupController struct {
	groups *services.GroupService
}

// NewGroupController creates a GroupController.
func NewGroupController(groups *services.GroupService) *GroupController {
	return &GroupController{groups: groups}
}

// ListSubscribed returns the caller's groups.
func (g *GroupController) ListSubscribed(ctx *gin.Context) {
	groups, err := g.groups.ListSubscribed(middleware.IdentityFrom(ctx))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// SearchPublic returns public groups whose name starts with the prefix.
func (g *GroupController) SearchPublic(ctx *gin.Context) {
	prefix := strings.TrimSpace(ctx.Query("prefix"))
	groups, err := g.groups.SearchPublic(prefix)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// CreateGroup creates a group owned by the caller.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=1"`
		Description string `json:"description"`
		IsPrivate   bool   `json:"is_private"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	group, err := g.groups.Create(middleware.IdentityFrom(ctx), services.CreateGroupInput{
		Name:        utils.SanitizeStrict(req.Name),
		Description: utils.Sanitize(req.Description),
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"group": group})
}

// GetGroup returns the composed group detail, served through the cache.
func (g *GroupController) GetGroup(ctx *gin.Context) {
	groupID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes("cache:group:detail:" + groupID); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	detail, err := g.groups.Detail(groupID)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	payload := gin.H{"group": detail}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:group:detail:"+groupID, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// Join subscribes the caller to the group.
func (g *GroupController) Join(ctx *gin.Context) {
	groupID := ctx.Param("id")
	if err := g.groups.Join(middleware.IdentityFrom(ctx), groupID); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:group:detail:" + groupID)
	utils.Success(ctx, gin.H{"message": "joined"})
}

// Leave removes the caller's subscription.
func (g *GroupController) Leave(ctx *gin.Context) {
	groupID := ctx.Param("id")
	if err := g.groups.Leave(middleware.IdentityFrom(ctx), groupID); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:group:detail:" + groupID)
	utils.Success(ctx, gin.H{"message": "left"})
}

// AddMember subscribes another user to the group.
func (g *GroupController) AddMember(ctx *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}
	groupID := ctx.Param("id")
	if err := g.groups.AddMember(middleware.IdentityFrom(ctx), groupID, req.UserID); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:group:detail:" + groupID)
	utils.Success(ctx, gin.H{"message": "member added"})
}

// RemoveMember deletes another user's subscription.
func (g *GroupController) RemoveMember(ctx *gin.Context) {
	groupID := ctx.Param("id")
	userID := ctx.Param("userId")
	if err := g.groups.RemoveMember(middleware.IdentityFrom(ctx), groupID, userID); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:group:detail:" + groupID)
	utils.Success(ctx, gin.H{"message": "member removed"})
}
