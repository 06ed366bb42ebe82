package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/warbler-app/api-go/services"
	"github.com/warbler-app/api-go/utils"
)

type UserController struct {
	DB      *gorm.DB
	Users   *services.UserService
	Follows *services.FollowService
	Likes   *services.LikeService
}

func NewUserController(db *gorm.DB, users *services.UserService, follows *services.FollowService, likes *services.LikeService) *UserController {
	return &UserController{DB: db, Users: users, Follows: follows, Likes: likes}
}

// ListUsers lists users, filtered by the q username substring when
// present.
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Users.Search(c.Query("q"))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(users))
	for i := range users {
		payload = append(payload, gin.H{
			"id":        users[i].ID,
			"username":  users[i].Username,
			"image_url": users[i].ImageURL,
			"bio":       users[i].Bio,
		})
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: payload})
}

// GetUserProfile shows a user's public profile with graph counts and
// the caller's relationship to them.
func (uc *UserController) GetUserProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	user, err := uc.Users.ByID(userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	followers, err := uc.Follows.Followers(userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	following, err := uc.Follows.Following(userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	likedIDs, err := uc.Likes.LikedMessageIDs(userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	isFollowing := false
	if claims.UserID != userID {
		isFollowing, err = uc.Follows.IsFollowing(claims.UserID, userID)
		if err != nil {
			abortDomainError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"image_url":        user.ImageURL,
			"header_image_url": user.HeaderImageURL,
			"bio":              user.Bio,
			"location":         user.Location,
			"created_at":       user.CreatedAt,
		},
		"stats": gin.H{
			"followers_count": len(followers),
			"following_count": len(following),
			"likes_given":     len(likedIDs),
		},
		"liked_message_ids": likedIDs,
		"is_following":      isFollowing,
		"is_own_profile":    claims.UserID == userID,
	})
}
