package milestones

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// memoryKV is an in-memory KeyValueStore with optional failure injection.
type memoryKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
	failSet bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("kv: read unavailable")
	}
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *memoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("kv: write unavailable")
	}
	m.data[key] = value
	return nil
}

func (m *memoryKV) DeleteMany(keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestStoreSaveMaintainsIndex(t *testing.T) {
	store := achievementStore{kv: newMemoryKV()}

	recs := []StoredAchievement{
		{MilestoneID: "streak_3", AchievedAt: time.Now(), AchievementCount: 1},
		{MilestoneID: "first_friend", AchievedAt: time.Now(), AchievementCount: 1},
	}
	for _, rec := range recs {
		if err := store.save(42, rec); err != nil {
			t.Fatalf("save %s: %v", rec.MilestoneID, err)
		}
	}

	ids := store.index(42)
	if len(ids) != 2 || ids[0] != "streak_3" || ids[1] != "first_friend" {
		t.Fatalf("index = %v, want [streak_3 first_friend]", ids)
	}

	// Overwriting an existing record must not duplicate the index entry.
	if err := store.save(42, StoredAchievement{MilestoneID: "streak_3", AchievedAt: time.Now(), AchievementCount: 2}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if ids := store.index(42); len(ids) != 2 {
		t.Fatalf("index after resave = %v, want 2 entries", ids)
	}

	rec := store.load(42, "streak_3")
	if rec == nil || rec.AchievementCount != 2 {
		t.Fatalf("load after resave = %+v, want count 2", rec)
	}
}

func TestStoreLoadAbsent(t *testing.T) {
	store := achievementStore{kv: newMemoryKV()}
	if rec := store.load(1, "streak_3"); rec != nil {
		t.Fatalf("load of absent record = %+v, want nil", rec)
	}
	if ids := store.index(1); ids != nil {
		t.Fatalf("absent index = %v, want nil", ids)
	}
}

func TestStoreReadFailureReadsAsAbsent(t *testing.T) {
	kv := newMemoryKV()
	store := achievementStore{kv: kv}
	if err := store.save(1, StoredAchievement{MilestoneID: "streak_3", AchievedAt: time.Now(), AchievementCount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	kv.failGet = true
	if rec := store.load(1, "streak_3"); rec != nil {
		t.Fatalf("load during outage = %+v, want nil", rec)
	}
}

func TestStoreCorruptRecordReadsAsAbsent(t *testing.T) {
	kv := newMemoryKV()
	kv.data[recordKey(1, "streak_3")] = []byte("{not json")
	kv.data[indexKey(1)] = []byte("{not json")

	store := achievementStore{kv: kv}
	if rec := store.load(1, "streak_3"); rec != nil {
		t.Fatalf("corrupt record = %+v, want nil", rec)
	}
	if ids := store.index(1); ids != nil {
		t.Fatalf("corrupt index = %v, want nil", ids)
	}
}

func TestStoreDeleteAll(t *testing.T) {
	kv := newMemoryKV()
	store := achievementStore{kv: kv}

	for _, id := range []string{"streak_3", "streak_7", "first_friend"} {
		if err := store.save(7, StoredAchievement{MilestoneID: id, AchievedAt: time.Now(), AchievementCount: 1}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	if err := store.deleteAll(7); err != nil {
		t.Fatalf("deleteAll: %v", err)
	}
	if ids := store.index(7); len(ids) != 0 {
		t.Fatalf("index after deleteAll = %v, want empty", ids)
	}
	for _, id := range []string{"streak_3", "streak_7", "first_friend"} {
		if rec := store.load(7, id); rec != nil {
			t.Fatalf("record %s survived deleteAll", id)
		}
	}
	if len(kv.data) != 0 {
		t.Fatalf("kv still holds %d keys after deleteAll", len(kv.data))
	}
}

func TestStoreDeleteAllEmptyIndex(t *testing.T) {
	store := achievementStore{kv: newMemoryKV()}
	if err := store.deleteAll(99); err != nil {
		t.Fatalf("deleteAll with no index: %v", err)
	}
}

func TestStoreKeysScopedPerUser(t *testing.T) {
	store := achievementStore{kv: newMemoryKV()}

	if err := store.save(1, StoredAchievement{MilestoneID: "streak_3", AchievedAt: time.Now(), AchievementCount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if rec := store.load(2, "streak_3"); rec != nil {
		t.Fatal("user 2 sees user 1's achievement")
	}
	if ids := store.index(2); len(ids) != 0 {
		t.Fatal("user 2 sees user 1's index")
	}
}
