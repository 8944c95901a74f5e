// services/events.go - In-process analytics event service
package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"paceline/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is the in-flight form of an outward notification.
type Event struct {
	ID         string         `json:"id"`
	UserID     uint           `json:"user_id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
}

type subscriber struct {
	userID uint
	ch     chan Event
}

// EventService records outward events and fans them out to live subscribers
// (the websocket event stream). It implements the milestone engine's
// NotificationSink. Track never returns an error: recording failures are
// logged and must not interrupt the caller's operation.
type EventService struct {
	db   *gorm.DB
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

var eventService *EventService

// InitEventService initializes the singleton event service. The db may be
// nil, in which case events are broadcast but not persisted.
func InitEventService(db *gorm.DB) {
	eventService = NewEventService(db)
}

// GetEventService returns the initialized event service.
func GetEventService() *EventService {
	return eventService
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		db:   db,
		subs: make(map[*subscriber]struct{}),
	}
}

// Track records one event. The user identity rides in the "user_id"
// property; events without one are recorded but not routed to any stream.
func (s *EventService) Track(name string, props map[string]any) {
	var userID uint
	if id, ok := props["user_id"].(uint); ok {
		userID = id
	}

	evt := Event{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       name,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}

	if s.db != nil {
		payload, err := json.Marshal(props)
		if err != nil {
			log.Printf("events: failed to encode properties for %s: %v", name, err)
			payload = []byte("{}")
		}
		row := models.AnalyticsEvent{
			EventID:    evt.ID,
			UserID:     userID,
			Name:       name,
			Properties: string(payload),
			CreatedAt:  evt.CreatedAt,
		}
		if err := s.db.Create(&row).Error; err != nil {
			log.Printf("events: failed to record %s: %v", name, err)
		}
	}

	s.broadcast(evt)
}

// Subscribe returns a channel of the user's events plus a cancel function.
// Slow subscribers drop events rather than blocking Track.
func (s *EventService) Subscribe(userID uint) (<-chan Event, func()) {
	sub := &subscriber{
		userID: userID,
		ch:     make(chan Event, 16),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[sub]; ok {
			delete(s.subs, sub)
			close(sub.ch)
		}
		s.mu.Unlock()
	}
	return sub.ch, cancel
}

func (s *EventService) broadcast(evt Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for sub := range s.subs {
		if sub.userID != evt.UserID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Subscriber buffer full; drop rather than block.
		}
	}
}

// RecentEvents returns the newest persisted events for a user.
func (s *EventService) RecentEvents(userID uint, limit int) ([]models.AnalyticsEvent, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var events []models.AnalyticsEvent
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
