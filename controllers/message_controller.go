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

type MessageController struct {
	DB       *gorm.DB
	Messages *services.MessageService
	Likes    *services.LikeService
	Metrics  *middleware.Metrics
}

func NewMessageController(db *gorm.DB, messages *services.MessageService, likes *services.LikeService, metrics *middleware.Metrics) *MessageController {
	return &MessageController{
		DB:       db,
		Messages: messages,
		Likes:    likes,
		Metrics:  metrics,
	}
}

func messagePayload(m *models.Message) gin.H {
	return gin.H{
		"id":        m.ID,
		"text":      m.Text,
		"timestamp": m.Timestamp,
		"user_id":   m.UserID,
		"username":  m.User.Username,
		"image_url": m.User.ImageURL,
	}
}

func messageListPayload(messages []models.Message) []gin.H {
	payload := make([]gin.H, 0, len(messages))
	for i := range messages {
		payload = append(payload, messagePayload(&messages[i]))
	}
	return payload
}

func (mc *MessageController) CreateMessage(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Text string `json:"text"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := mc.Messages.Post(claims.UserID, input.Text)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	mc.Metrics.MessagesSent.Inc()

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data: gin.H{
			"id":        message.ID,
			"text":      message.Text,
			"timestamp": message.Timestamp,
			"user_id":   message.UserID,
		},
	})
}

func (mc *MessageController) GetMessage(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	message, err := mc.Messages.ByID(messageID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	liked, err := mc.Likes.IsLiked(claims.UserID, messageID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	payload := messagePayload(message)
	payload["liked"] = liked

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: payload})
}

func (mc *MessageController) DeleteMessage(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := mc.Messages.Delete(claims.UserID, messageID); err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Message deleted"})
}

// GetUserMessages returns a single author's recent messages.
func (mc *MessageController) GetUserMessages(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	messages, err := mc.Messages.ByUser(userID, parseLimit(c))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: messageListPayload(messages)})
}

// GetLikedMessages returns messages the user has liked, newest
// message first.
func (mc *MessageController) GetLikedMessages(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	messages, err := mc.Messages.LikedMessages(userID, parseLimit(c))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: messageListPayload(messages)})
}
