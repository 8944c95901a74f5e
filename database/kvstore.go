// database/kvstore.go - Durable key-value store backing the milestone engine
package database

import (
	"errors"
	"time"

	"paceline/models"

	"gorm.io/gorm"
)

// KVStore implements the milestone engine's KeyValueStore contract on top of
// the kv_entries table.
type KVStore struct {
	db *gorm.DB
}

// NewKVStore wraps a gorm connection. The kv_entries table must already be
// migrated.
func NewKVStore(conn *gorm.DB) *KVStore {
	return &KVStore{db: conn}
}

// Get returns the stored value and whether the key exists. An absent key is
// not an error.
func (s *KVStore) Get(key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := s.db.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

// Set writes the value, overwriting any existing entry.
func (s *KVStore) Set(key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.Save(&entry).Error
}

// DeleteMany removes every listed key in one statement. Missing keys are
// ignored.
func (s *KVStore) DeleteMany(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Delete(&models.KVEntry{}, "key IN ?", keys).Error
}
