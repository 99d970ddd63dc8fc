package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/commune-net/commune/middleware"
	"github.com/commune-net/commune/models"
	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, password login, and logout.
type AuthController struct {
	db       *gorm.DB
	profiles *services.ProfileService
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, profiles *services.ProfileService) *AuthController {
	return &AuthController{db: db, profiles: profiles}
}

// Register creates an account and immediately upserts the profile row, so a
// registered user always has a profile carrying their username.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = utils.SanitizeStrict(strings.TrimSpace(req.Username))
	if req.Email == "" || req.Password == "" || req.Username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "email, password and username must not be empty")
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{Email: req.Email, PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create account")
		return
	}

	ident := services.Identity{UserID: user.ID, Username: req.Username}
	profile, err := a.profiles.Upsert(ident, services.ProfileUpdate{Username: &req.Username})
	if err != nil {
		serviceError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, profile.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "profile": profile})
}

// Login verifies the password and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	var profile models.Profile
	_ = a.db.Where("id = ?", user.ID).Limit(1).Find(&profile).Error

	token, err := utils.GenerateToken(user.ID, profile.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "profile": profile})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the caller's profile merged with the identity.
func (a *AuthController) Me(ctx *gin.Context) {
	profile, err := a.profiles.Fetch(middleware.IdentityFrom(ctx))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"profile": profile})
}
