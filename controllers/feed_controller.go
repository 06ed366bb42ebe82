package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/warbler-app/api-go/services"
	"github.com/warbler-app/api-go/utils"
)

type FeedController struct {
	DB       *gorm.DB
	Messages *services.MessageService
	Likes    *services.LikeService
}

func NewFeedController(db *gorm.DB, messages *services.MessageService, likes *services.LikeService) *FeedController {
	return &FeedController{DB: db, Messages: messages, Likes: likes}
}

// GetUserFeed returns the home timeline: the most recent messages
// authored by the users the caller follows, with the caller's liked
// message ids so the client can mark them.
func (fc *FeedController) GetUserFeed(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	messages, err := fc.Messages.Timeline(claims.UserID, parseLimit(c))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	likedIDs, err := fc.Likes.LikedMessageIDs(claims.UserID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":          messageListPayload(messages),
		"liked_message_ids": likedIDs,
	})
}
