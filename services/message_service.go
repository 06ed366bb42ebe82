package services

import (
	"errors"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/warbler-app/api-go/models"
)

// DefaultMessageLimit caps recency queries when the caller passes no
// usable limit.
const DefaultMessageLimit = 100

type MessageService struct {
	DB *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{DB: db}
}

// Post persists a new message for the owner with a server-assigned
// timestamp. Text must be 1..140 characters.
func (s *MessageService) Post(ownerID uint, text string) (*models.Message, error) {
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, &ValidationError{Field: "text", Reason: "must be at most 140 characters"}
	}

	message := models.Message{
		Text:      text,
		Timestamp: time.Now().UTC(),
		UserID:    ownerID,
	}

	if err := s.DB.Create(&message).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

// Delete removes a message and its likes. Only the owner may delete;
// anyone else gets ErrUnauthorized and the message survives.
func (s *MessageService) Delete(requesterID, messageID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.First(&message, messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if message.UserID != requesterID {
			return ErrUnauthorized
		}

		if err := tx.Where("message_id = ?", messageID).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		return tx.Delete(&message).Error
	})
}

func (s *MessageService) ByID(messageID uint) (*models.Message, error) {
	var message models.Message
	if err := s.DB.Preload("User").First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// Timeline returns the most recent messages authored by users the
// given user follows, newest first, message id breaking timestamp
// ties.
func (s *MessageService) Timeline(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Model(&models.Message{}).
		Joins("JOIN follows ON follows.user_being_followed_id = messages.user_id").
		Where("follows.user_following_id = ?", userID).
		Order("messages.timestamp DESC, messages.id DESC").
		Limit(normalizeLimit(limit)).
		Preload("User").
		Find(&messages).Error
	return messages, err
}

// ByUser returns the most recent messages by a single author.
func (s *MessageService) ByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(normalizeLimit(limit)).
		Preload("User").
		Find(&messages).Error
	return messages, err
}

// LikedMessages returns messages the user has liked, ordered by the
// message's own timestamp, not the time of the like.
func (s *MessageService) LikedMessages(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Model(&models.Message{}).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("messages.timestamp DESC, messages.id DESC").
		Limit(normalizeLimit(limit)).
		Preload("User").
		Find(&messages).Error
	return messages, err
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultMessageLimit
	}
	return limit
}
