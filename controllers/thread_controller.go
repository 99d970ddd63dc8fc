package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commune-net/commune/middleware"
	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/utils"
)

// ThreadController exposes posts and their first-level comments.
type ThreadController struct {
	threads *services.ThreadService
}

// NewThreadController creates a ThreadController.
func NewThreadController(threads *services.ThreadService) *ThreadController {
	return &ThreadController{threads: threads}
}

// CreatePost creates a top-level post in a group.
func (t *ThreadController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required,min=1"`
		Content string `json:"content" binding:"required"`
		GroupID string `json:"group_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	post, err := t.threads.CreatePost(middleware.IdentityFrom(ctx), services.CreatePostInput{
		Title:   utils.SanitizeStrict(req.Title),
		Content: utils.Sanitize(req.Content),
		GroupID: req.GroupID,
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:group:detail:" + post.GroupID)
	utils.Success(ctx, gin.H{"post": post})
}

// GetPost returns the composed post detail, served through the cache.
func (t *ThreadController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes("cache:post:detail:" + postID); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	detail, err := t.threads.PostDetail(postID)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	payload := gin.H{"post": detail}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:post:detail:"+postID, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// DeletePost removes a post by id.
func (t *ThreadController) DeletePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	if err := t.threads.DeletePost(middleware.IdentityFrom(ctx), postID); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.InvalidateByPrefix("cache:group:detail:")
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment replies to the post named in the path.
func (t *ThreadController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
		GroupID string `json:"group_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	postID := ctx.Param("id")
	comment, err := t.threads.CreateComment(middleware.IdentityFrom(ctx), services.CreateCommentInput{
		Content:  utils.Sanitize(req.Content),
		GroupID:  req.GroupID,
		ParentID: postID,
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment removes a comment by id.
func (t *ThreadController) DeleteComment(ctx *gin.Context) {
	if err := t.threads.DeleteComment(middleware.IdentityFrom(ctx), ctx.Param("commentId")); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix("cache:post:detail:")
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
