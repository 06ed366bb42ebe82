package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/warbler-app/api-go/middleware"
	"github.com/warbler-app/api-go/models"
	"github.com/warbler-app/api-go/services"
	"github.com/warbler-app/api-go/utils"
)

type InteractionController struct {
	DB      *gorm.DB
	Follows *services.FollowService
	Likes   *services.LikeService
	Metrics *middleware.Metrics
}

func NewInteractionController(db *gorm.DB, follows *services.FollowService, likes *services.LikeService, metrics *middleware.Metrics) *InteractionController {
	return &InteractionController{
		DB:      db,
		Follows: follows,
		Likes:   likes,
		Metrics: metrics,
	}
}

// LikeMessage toggles the caller's like on a message.
func (ic *InteractionController) LikeMessage(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	liked, err := ic.Likes.Toggle(claims.UserID, messageID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	ic.Metrics.LikeToggles.Inc()

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (ic *InteractionController) FollowUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	if err := ic.Follows.Follow(claims.UserID, targetID); err != nil {
		abortDomainError(c, err)
		return
	}

	ic.Metrics.FollowRequests.Inc()

	c.JSON(http.StatusOK, gin.H{
		"following": true,
		"message":   "Successfully followed user",
	})
}

func (ic *InteractionController) UnfollowUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	if err := ic.Follows.Unfollow(claims.UserID, targetID); err != nil {
		abortDomainError(c, err)
		return
	}

	ic.Metrics.UnfollowRequests.Inc()

	c.JSON(http.StatusOK, gin.H{
		"following": false,
		"message":   "Successfully unfollowed user",
	})
}

func followListPayload(users []models.User) []gin.H {
	payload := make([]gin.H, 0, len(users))
	for i := range users {
		payload = append(payload, gin.H{
			"id":        users[i].ID,
			"username":  users[i].Username,
			"image_url": users[i].ImageURL,
			"bio":       users[i].Bio,
		})
	}
	return payload
}

func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	followers, err := ic.Follows.Followers(userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followListPayload(followers)})
}

func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	following, err := ic.Follows.Following(userID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": followListPayload(following)})
}
