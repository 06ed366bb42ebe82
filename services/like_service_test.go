package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/warbler-app/api-go/models"
)

func TestToggleLikePair(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	likes := NewLikeService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	msg, err := messages.Post(bob.ID, "like me")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	liked, err := likes.Toggle(alice.ID, msg.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Error("first toggle should report liked")
	}

	liked, err = likes.Toggle(alice.ID, msg.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Error("second toggle should report unliked")
	}

	var count int64
	if err := db.Model(&models.Like{}).Count(&count).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no like edges after a toggle pair, got %d", count)
	}

	likedMessages, err := messages.LikedMessages(alice.ID, 0)
	if err != nil {
		t.Fatalf("liked messages: %v", err)
	}
	if len(likedMessages) != 0 {
		t.Errorf("expected no liked messages, got %d", len(likedMessages))
	}
}

func TestToggleMissingMessage(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	likes := NewLikeService(db)

	alice := signupUser(t, users, "alice")

	if _, err := likes.Toggle(alice.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle on missing message: got %v, want ErrNotFound", err)
	}
}

func TestSelfLikeAllowed(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	likes := NewLikeService(db)

	alice := signupUser(t, users, "alice")

	msg, err := messages.Post(alice.ID, "my own")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	liked, err := likes.Toggle(alice.ID, msg.ID)
	if err != nil {
		t.Fatalf("self-like: %v", err)
	}
	if !liked {
		t.Error("self-like should be allowed")
	}
}

func TestDuplicateLikeConstraint(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	msg, err := messages.Post(bob.ID, "contested")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	first := models.Like{UserID: alice.ID, MessageID: msg.ID, CreatedAt: time.Now()}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first like: %v", err)
	}

	// The unique (user, message) index is the authoritative guard; a
	// racing second insert must surface as a translated duplicate-key
	// error so Toggle can treat it as "already liked".
	second := models.Like{UserID: alice.ID, MessageID: msg.ID, CreatedAt: time.Now()}
	if err := db.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate like insert: got %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestIsLikedAndLikedMessageIDs(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	likes := NewLikeService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	m1, _ := messages.Post(bob.ID, "one")
	m2, _ := messages.Post(bob.ID, "two")

	if _, err := likes.Toggle(alice.ID, m1.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	liked, err := likes.IsLiked(alice.ID, m1.ID)
	if err != nil || !liked {
		t.Errorf("m1 should be liked (err=%v)", err)
	}
	liked, err = likes.IsLiked(alice.ID, m2.ID)
	if err != nil || liked {
		t.Errorf("m2 should not be liked (err=%v)", err)
	}

	ids, err := likes.LikedMessageIDs(alice.ID)
	if err != nil {
		t.Fatalf("liked ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != m1.ID {
		t.Errorf("expected [%d], got %v", m1.ID, ids)
	}
}
