package services

import (
	"testing"
	"time"

	"paceline/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.Friend{},
		&models.GroupMember{},
		&models.AnalyticsEvent{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func TestTrackPersistsEvent(t *testing.T) {
	db := openTestDB(t)
	svc := NewEventService(db)

	svc.Track("streak_milestone", map[string]any{
		"user_id":      uint(1),
		"milestone_id": "streak_3",
	})

	var rows []models.AnalyticsEvent
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("persisted %d events, want 1", len(rows))
	}
	if rows[0].Name != "streak_milestone" || rows[0].UserID != 1 {
		t.Fatalf("row = %+v", rows[0])
	}
	if rows[0].EventID == "" {
		t.Fatal("event id missing")
	}
}

func TestTrackWithoutDB(t *testing.T) {
	svc := NewEventService(nil)
	// Must not panic; events are broadcast-only.
	svc.Track("fitness_milestone", map[string]any{"user_id": uint(2)})
}

func TestSubscribeReceivesOwnEvents(t *testing.T) {
	svc := NewEventService(nil)

	ch, cancel := svc.Subscribe(1)
	defer cancel()
	other, cancelOther := svc.Subscribe(2)
	defer cancelOther()

	svc.Track("social_milestone", map[string]any{
		"user_id":      uint(1),
		"milestone_id": "first_friend",
	})

	select {
	case evt := <-ch:
		if evt.Name != "social_milestone" || evt.UserID != 1 {
			t.Fatalf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	select {
	case evt := <-other:
		t.Fatalf("user 2 received user 1's event: %+v", evt)
	default:
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	svc := NewEventService(nil)

	ch, cancel := svc.Subscribe(1)
	cancel()
	// Cancel twice is safe.
	cancel()

	svc.Track("social_milestone", map[string]any{"user_id": uint(1)})

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	svc := NewEventService(nil)

	_, cancel := svc.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More events than the subscriber buffer holds.
		for i := 0; i < 100; i++ {
			svc.Track("fitness_milestone", map[string]any{"user_id": uint(1)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track blocked on a slow subscriber")
	}
}

func TestRecentEvents(t *testing.T) {
	db := openTestDB(t)
	svc := NewEventService(db)

	for i := 0; i < 3; i++ {
		svc.Track("fitness_milestone", map[string]any{"user_id": uint(1)})
	}
	svc.Track("fitness_milestone", map[string]any{"user_id": uint(2)})

	events, err := svc.RecentEvents(1, 10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
}
