package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/warbler-app/api-go/models"
)

type LikeService struct {
	DB *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{DB: db}
}

// Toggle likes the message if the user has not liked it, otherwise
// removes the like. Returns true when the like now exists.
//
// The check-then-insert runs in a transaction, but two concurrent
// toggles can still both see "no like"; the unique (user, message)
// index then fails the second insert, which is reported as "now
// liked" rather than an error.
func (s *LikeService) Toggle(userID, messageID uint) (bool, error) {
	liked := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.First(&message, messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND message_id = ?", userID, messageID).First(&existing).Error
		if err == nil {
			liked = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		liked = true
		return tx.Create(&models.Like{
			UserID:    userID,
			MessageID: messageID,
			CreatedAt: time.Now().UTC(),
		}).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race to a concurrent like; the edge exists.
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return liked, nil
}

// IsLiked reports whether the user has liked the message.
func (s *LikeService) IsLiked(userID, messageID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// LikedMessageIDs returns the ids of every message the user has
// liked, for marking messages in rendered lists.
func (s *LikeService) LikedMessageIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("message_id", &ids).Error
	return ids, err
}
