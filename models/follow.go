package models

import (
	"time"
)

// Follow is a directed edge in the social graph: the user identified
// by UserFollowingID follows the user identified by UserBeingFollowedID.
// The ordered pair is the primary key, so the same edge cannot exist
// twice.
type Follow struct {
	UserBeingFollowedID uint      `gorm:"column:user_being_followed_id;primaryKey" json:"user_being_followed_id"`
	UserFollowingID     uint      `gorm:"column:user_following_id;primaryKey" json:"user_following_id"`
	CreatedAt           time.Time `json:"created_at"`

	Followed User `json:"-" gorm:"foreignKey:UserBeingFollowedID;constraint:OnDelete:CASCADE"`
	Follower User `json:"-" gorm:"foreignKey:UserFollowingID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string {
	return "follows"
}
