package controllers

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/warbler-app/api-go/config"
	"github.com/warbler-app/api-go/middleware"
	"github.com/warbler-app/api-go/models"
	"github.com/warbler-app/api-go/services"
	"github.com/warbler-app/api-go/utils"
)

type AuthController struct {
	DB           *gorm.DB
	Users        *services.UserService
	GoogleConfig *config.GoogleConfig
	Metrics      *middleware.Metrics
}

func NewAuthController(db *gorm.DB, users *services.UserService, metrics *middleware.Metrics) *AuthController {
	return &AuthController{
		DB:           db,
		Users:        users,
		GoogleConfig: config.NewGoogleConfig(),
		Metrics:      metrics,
	}
}

// validateUsernamePattern validates username format and constraints.
func validateUsernamePattern(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(trimmed) > 20 {
		return fmt.Errorf("username must be no more than 20 characters long")
	}

	validPattern, _ := regexp.MatchString(`^[a-zA-Z][a-zA-Z0-9_]*$`, trimmed)
	if !validPattern {
		return fmt.Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}

	reserved := []string{"admin", "root", "api", "www", "test", "demo", "user", "guest", "null", "undefined"}
	for _, reservedWord := range reserved {
		if strings.ToLower(trimmed) == reservedWord {
			return fmt.Errorf("this username is reserved and cannot be used")
		}
	}

	return nil
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		ImageURL string `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := ac.Users.Signup(input.Username, input.Email, input.Password, input.ImageURL)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	ac.Metrics.Signups.Inc()

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Message: "User registered successfully",
		Data: gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"image_url": user.ImageURL,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Users.Authenticate(input.Username, input.Password)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	ac.issueTokens(c, user)
}

// GoogleLogin signs a user in with Google, creating the account on
// first sight of the email. The client may send an authorization code,
// an access token, or an ID token.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	var input struct {
		Code        string `json:"code"`
		AccessToken string `json:"access_token"`
		IDToken     string `json:"id_token"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var info *config.GoogleUserInfo
	var err error

	switch {
	case input.Code != "":
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchangeErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange code for token"})
			return
		}
		info, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	case input.AccessToken != "":
		info, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	case input.IDToken != "":
		info, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either code, access_token, or id_token is required"})
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", info.Email).First(&user).Error; err != nil {
		created, err := ac.Users.Signup(googleUsername(info), info.Email, randomPassword(), info.Picture)
		if err != nil {
			abortDomainError(c, err)
			return
		}
		ac.Metrics.Signups.Inc()
		user = *created
	}

	ac.issueTokens(c, &user)
}

func googleUsername(info *config.GoogleUserInfo) string {
	local := strings.SplitN(info.Email, "@", 2)[0]
	local = regexp.MustCompile(`[^a-zA-Z0-9_]`).ReplaceAllString(local, "_")
	if len(local) < 3 {
		local = "g_" + local
	}
	// Suffix keeps generated names from colliding with existing users.
	return fmt.Sprintf("%s_%s", local, info.ID[:min(6, len(info.ID))])
}

func randomPassword() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), os.Getenv("JWT_SECRET"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (ac *AuthController) issueTokens(c *gin.Context, user *models.User) {
	accessTokenBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(),
	})

	refreshTokenBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	secret := []byte(os.Getenv("JWT_SECRET"))
	accessToken, err := accessTokenBase.SignedString(secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}
	refreshToken, err := refreshTokenBase.SignedString(secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	if err := ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(time.Hour * 24 * 30),
	}).Error; err != nil {
		logrus.WithError(err).Error("Failed to persist refresh token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"image_url": user.ImageURL,
		},
		"success": true,
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		if err := ac.DB.Delete(&refreshToken).Error; err != nil {
			logrus.WithError(err).Error("Failed to delete expired refresh token")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	user, err := ac.Users.ByID(refreshToken.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	// Rotate: the old token must be revoked before a new one is issued,
	// or a failed delete would leave both valid.
	if err := ac.DB.Delete(&refreshToken).Error; err != nil {
		logrus.WithError(err).Error("Failed to revoke refresh token during rotation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not refresh token", "success": false})
		return
	}
	ac.issueTokens(c, user)
}

// Logout revokes every refresh token issued to the user.
func (ac *AuthController) Logout(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if err := ac.DB.Where("user_id = ?", user.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Logged out"})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	user, err := ac.Users.ByID(claims.UserID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	likesGiven, err := ac.Users.LikeCount(user.ID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"email":            user.Email,
			"image_url":        user.ImageURL,
			"header_image_url": user.HeaderImageURL,
			"bio":              user.Bio,
			"location":         user.Location,
			"created_at":       user.CreatedAt,
			"likes_given":      likesGiven,
		},
	})
}

// UpdateProfile edits the profile after re-authenticating with the
// current password.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Password       string `json:"password" binding:"required"`
		Email          string `json:"email"`
		ImageURL       string `json:"image_url"`
		HeaderImageURL string `json:"header_image_url"`
		Bio            string `json:"bio"`
		Location       string `json:"location"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Users.UpdateProfile(claims.UserID, input.Password, services.ProfileUpdate{
		Email:          input.Email,
		ImageURL:       input.ImageURL,
		HeaderImageURL: input.HeaderImageURL,
		Bio:            input.Bio,
		Location:       input.Location,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Profile updated successfully",
		Data: gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"email":            user.Email,
			"image_url":        user.ImageURL,
			"header_image_url": user.HeaderImageURL,
			"bio":              user.Bio,
			"location":         user.Location,
		},
	})
}

// DeleteAccount removes the user and everything they own.
func (ac *AuthController) DeleteAccount(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if err := ac.Users.Delete(claims.UserID); err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Account deleted"})
}

func (ac *AuthController) RegisterUsernameCheck(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "available": false})
		return
	}

	if _, err := ac.Users.ByUsername(input.Username); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "available": true})
		return
	}

	c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Username already taken", "available": false})
}

func (ac *AuthController) RegisterEmailCheck(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "available": true})
		return
	}

	c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already registered", "available": false})
}
