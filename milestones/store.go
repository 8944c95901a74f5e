// milestones/store.go - Achievement persistence over a key-value store
package milestones

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// KeyValueStore is the durable storage contract the engine needs. Get reports
// whether the key exists; an absent key is not an error.
type KeyValueStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	DeleteMany(keys []string) error
}

// StoredAchievement is the durable record that a user satisfied a milestone.
// For repeatable milestones the record is overwritten in place with an
// incremented count; for one-time milestones it is written exactly once.
type StoredAchievement struct {
	MilestoneID      string    `json:"milestone_id"`
	AchievedAt       time.Time `json:"achieved_at"`
	AchievementCount int       `json:"achievement_count"`
}

const (
	recordKeyPrefix = "milestone_ach"
	indexKeyPrefix  = "milestone_idx"
)

func recordKey(userID uint, milestoneID string) string {
	return fmt.Sprintf("%s_%d_%s", recordKeyPrefix, userID, milestoneID)
}

func indexKey(userID uint) string {
	return fmt.Sprintf("%s_%d", indexKeyPrefix, userID)
}

// achievementStore wraps the raw key-value store with per-user/per-milestone
// keys and a per-user index listing every milestone the user has achieved.
type achievementStore struct {
	kv KeyValueStore
}

// load returns nil when the record is absent. Read errors and undecodable
// records are logged and treated the same as absent, so a storage outage
// degrades to "not yet achieved" rather than failing the caller.
func (s achievementStore) load(userID uint, milestoneID string) *StoredAchievement {
	data, ok, err := s.kv.Get(recordKey(userID, milestoneID))
	if err != nil {
		log.Printf("milestones: failed to load achievement %s for user %d: %v", milestoneID, userID, err)
		return nil
	}
	if !ok {
		return nil
	}

	var rec StoredAchievement
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("milestones: corrupt achievement record %s for user %d: %v", milestoneID, userID, err)
		return nil
	}
	return &rec
}

// save writes the record and appends the milestone id to the user's index if
// it is not already listed.
func (s achievementStore) save(userID uint, rec StoredAchievement) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode achievement %s: %w", rec.MilestoneID, err)
	}

	if err := s.kv.Set(recordKey(userID, rec.MilestoneID), data); err != nil {
		return fmt.Errorf("write achievement %s: %w", rec.MilestoneID, err)
	}

	ids := s.index(userID)
	for _, id := range ids {
		if id == rec.MilestoneID {
			return nil
		}
	}
	ids = append(ids, rec.MilestoneID)

	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode achievement index: %w", err)
	}
	if err := s.kv.Set(indexKey(userID), encoded); err != nil {
		return fmt.Errorf("write achievement index: %w", err)
	}
	return nil
}

// index returns the ordered milestone ids the user has achieved. Absent or
// unreadable indexes read as empty.
func (s achievementStore) index(userID uint) []string {
	data, ok, err := s.kv.Get(indexKey(userID))
	if err != nil {
		log.Printf("milestones: failed to load achievement index for user %d: %v", userID, err)
		return nil
	}
	if !ok {
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Printf("milestones: corrupt achievement index for user %d: %v", userID, err)
		return nil
	}
	return ids
}

// deleteAll removes every record named in the index plus the index itself.
func (s achievementStore) deleteAll(userID uint) error {
	ids := s.index(userID)
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, recordKey(userID, id))
	}
	keys = append(keys, indexKey(userID))
	return s.kv.DeleteMany(keys)
}
