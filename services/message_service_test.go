package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/warbler-app/api-go/models"
)

func TestPostMessageValidation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)

	alice := signupUser(t, users, "alice")

	var validation *ValidationError
	if _, err := messages.Post(alice.ID, ""); !errors.As(err, &validation) {
		t.Errorf("empty text: got %v, want ValidationError", err)
	}
	if _, err := messages.Post(alice.ID, strings.Repeat("a", 141)); !errors.As(err, &validation) {
		t.Errorf("141 chars: got %v, want ValidationError", err)
	}

	msg, err := messages.Post(alice.ID, strings.Repeat("a", 140))
	if err != nil {
		t.Fatalf("140 chars should be accepted: %v", err)
	}
	if msg.ID == 0 {
		t.Error("expected persisted message to have an id")
	}
	if msg.Timestamp.IsZero() {
		t.Error("expected server-assigned timestamp")
	}
}

func TestDeleteMessageAuthorization(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	likes := NewLikeService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	msg, err := messages.Post(alice.ID, "mine")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if err := messages.Delete(bob.ID, msg.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-owner delete: got %v, want ErrUnauthorized", err)
	}
	if _, err := messages.ByID(msg.ID); err != nil {
		t.Fatalf("message should survive unauthorized delete: %v", err)
	}

	if err := messages.Delete(alice.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing message: got %v, want ErrNotFound", err)
	}

	// Owner delete removes the message and its likes.
	if _, err := likes.Toggle(bob.ID, msg.ID); err != nil {
		t.Fatalf("bob likes: %v", err)
	}
	if err := messages.Delete(alice.ID, msg.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := messages.ByID(msg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("message should be gone: %v", err)
	}

	var likeCount int64
	if err := db.Model(&models.Like{}).Where("message_id = ?", msg.ID).Count(&likeCount).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if likeCount != 0 {
		t.Errorf("likes on deleted message should be gone, %d remain", likeCount)
	}
}

func TestTimelineShowsOnlyFollowedUsers(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	follows := NewFollowService(db)
	messages := NewMessageService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")
	carol := signupUser(t, users, "carol")

	if err := follows.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if _, err := messages.Post(bob.ID, "hello"); err != nil {
		t.Fatalf("bob posts: %v", err)
	}
	if _, err := messages.Post(carol.ID, "not followed"); err != nil {
		t.Fatalf("carol posts: %v", err)
	}
	if _, err := messages.Post(alice.ID, "my own message"); err != nil {
		t.Fatalf("alice posts: %v", err)
	}

	timeline, err := messages.Timeline(alice.ID, 0)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != 1 {
		t.Fatalf("expected exactly one timeline message, got %d", len(timeline))
	}
	if timeline[0].Text != "hello" {
		t.Errorf("expected %q, got %q", "hello", timeline[0].Text)
	}
	if timeline[0].User.Username != "bob" {
		t.Errorf("expected author preloaded as bob, got %q", timeline[0].User.Username)
	}
}

func TestTimelineOrderingAndTieBreak(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	follows := NewFollowService(db)
	messages := NewMessageService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	if err := follows.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	// Equal timestamps, so insertion order (id) must break the tie.
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := models.Message{Text: "first", Timestamp: ts, UserID: bob.ID}
	newer := models.Message{Text: "second", Timestamp: ts, UserID: bob.ID}
	newest := models.Message{Text: "third", Timestamp: ts.Add(time.Hour), UserID: bob.ID}
	for _, m := range []*models.Message{&older, &newer, &newest} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	timeline, err := messages.Timeline(alice.ID, 0)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}

	got := make([]string, len(timeline))
	for i, m := range timeline {
		got[i] = m.Text
	}
	want := []string{"third", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timeline order %v, want %v", got, want)
		}
	}
}

func TestTimelineRespectsLimit(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	follows := NewFollowService(db)
	messages := NewMessageService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	if err := follows.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := models.Message{Text: "msg", Timestamp: base.Add(time.Duration(i) * time.Minute), UserID: bob.ID}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	timeline, err := messages.Timeline(alice.ID, 3)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(timeline) != 3 {
		t.Errorf("expected limit of 3, got %d", len(timeline))
	}
}

func TestByUserOrdering(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)

	bob := signupUser(t, users, "bob")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"a", "b", "c"} {
		m := models.Message{Text: text, Timestamp: base.Add(time.Duration(i) * time.Minute), UserID: bob.ID}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	list, err := messages.ByUser(bob.ID, 0)
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(list) != 3 || list[0].Text != "c" || list[2].Text != "a" {
		t.Errorf("expected newest-first [c b a], got %v", list)
	}
}

func TestLikedMessagesOrderedByMessageTimestamp(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	messages := NewMessageService(db)
	likes := NewLikeService(db)

	alice := signupUser(t, users, "alice")
	bob := signupUser(t, users, "bob")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := models.Message{Text: "older", Timestamp: base, UserID: bob.ID}
	newer := models.Message{Text: "newer", Timestamp: base.Add(time.Hour), UserID: bob.ID}
	for _, m := range []*models.Message{&older, &newer} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	// Like the newer message first; ordering must still follow the
	// message timestamp, not the like time.
	if _, err := likes.Toggle(alice.ID, newer.ID); err != nil {
		t.Fatalf("like newer: %v", err)
	}
	if _, err := likes.Toggle(alice.ID, older.ID); err != nil {
		t.Fatalf("like older: %v", err)
	}

	liked, err := messages.LikedMessages(alice.ID, 0)
	if err != nil {
		t.Fatalf("liked messages: %v", err)
	}
	if len(liked) != 2 || liked[0].Text != "newer" || liked[1].Text != "older" {
		t.Errorf("expected [newer older], got %v", liked)
	}
}
