package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/warbler-app/api-go/models"
)

type FollowService struct {
	DB *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{DB: db}
}

// Follow inserts the directed edge follower -> followed. Following a
// user twice is a no-op, following yourself is rejected.
func (s *FollowService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var followed models.User
		if err := tx.First(&followed, followedID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.Follow
		err := tx.Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&models.Follow{
			UserBeingFollowedID: followedID,
			UserFollowingID:     followerID,
			CreatedAt:           time.Now().UTC(),
		}).Error
	})
}

// Unfollow removes the edge if present; removing a missing edge is a
// no-op.
func (s *FollowService) Unfollow(followerID, followedID uint) error {
	return s.DB.
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether a follows b.
func (s *FollowService) IsFollowing(a, b uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Follow{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy reports whether b follows a.
func (s *FollowService) IsFollowedBy(a, b uint) (bool, error) {
	return s.IsFollowing(b, a)
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.Model(&models.User{}).
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", userID).
		Find(&users).Error
	return users, err
}

// Following returns the users the given user follows.
func (s *FollowService) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.Model(&models.User{}).
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", userID).
		Find(&users).Error
	return users, err
}
