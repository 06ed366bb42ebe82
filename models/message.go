package models

import (
	"time"
)

// MaxMessageLength is the character limit on a message's text.
const MaxMessageLength = 140

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`

	User  User   `json:"user" gorm:"foreignKey:UserID"`
	Likes []Like `json:"-" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}
