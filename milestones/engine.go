// milestones/engine.go - Milestone evaluation engine
package milestones

import (
	"log"
	"sync"
	"time"
)

// NotificationSink receives one outward event per newly achieved milestone.
// Fire-and-forget: the engine never blocks on it and ignores failures.
type NotificationSink interface {
	Track(event string, props map[string]any)
}

// AchievedMilestone is the transient result of one evaluation. Persisted is
// false when the durable write failed; the notification has still been sent.
type AchievedMilestone struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   Category  `json:"category"`
	AchievedAt time.Time `json:"achieved_at"`
	Count      int       `json:"count"`
	Persisted  bool      `json:"persisted"`
	Context    Context   `json:"-"`
}

// Engine evaluates metric snapshots against the milestone registry, persists
// achievements, and emits notifications. Safe for concurrent use: all
// mutations for one user are serialized behind a per-user lock, so two
// overlapping calls cannot both win a one-time milestone.
type Engine struct {
	defs  []Definition
	byID  map[string]int
	store achievementStore
	sink  NotificationSink
	now   func() time.Time

	mu    sync.Mutex
	users map[uint]*sync.Mutex
}

// NewEngine builds an engine over the built-in registry.
func NewEngine(kv KeyValueStore, sink NotificationSink) *Engine {
	return NewEngineWithDefinitions(Definitions(), kv, sink)
}

// NewEngineWithDefinitions builds an engine over a custom definition list.
// Duplicate ids keep the first occurrence, matching registry order.
func NewEngineWithDefinitions(defs []Definition, kv KeyValueStore, sink NotificationSink) *Engine {
	byID := make(map[string]int, len(defs))
	for i, def := range defs {
		if _, exists := byID[def.ID]; exists {
			log.Printf("milestones: duplicate milestone id %q ignored", def.ID)
			continue
		}
		byID[def.ID] = i
	}

	return &Engine{
		defs:  defs,
		byID:  byID,
		store: achievementStore{kv: kv},
		sink:  sink,
		now:   time.Now,
		users: make(map[uint]*sync.Mutex),
	}
}

func (e *Engine) userLock(userID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.users[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.users[userID] = lock
	}
	return lock
}

// Evaluate walks the registry in declared order and returns every milestone
// the snapshot newly satisfies. Without a user identity nothing is evaluated.
// Storage failures never propagate to the caller.
func (e *Engine) Evaluate(ctx Context) []AchievedMilestone {
	if ctx.UserID == 0 {
		return nil
	}

	lock := e.userLock(ctx.UserID)
	lock.Lock()
	defer lock.Unlock()

	var achieved []AchievedMilestone
	for _, def := range e.defs {
		if result := e.award(def, ctx); result != nil {
			achieved = append(achieved, *result)
		}
	}
	return achieved
}

// CheckMilestone runs the evaluate path for a single milestone. Nil for an
// unknown id, a missing user identity, or a milestone not newly achieved.
func (e *Engine) CheckMilestone(id string, ctx Context) *AchievedMilestone {
	idx, ok := e.byID[id]
	if !ok || ctx.UserID == 0 {
		return nil
	}

	lock := e.userLock(ctx.UserID)
	lock.Lock()
	defer lock.Unlock()

	return e.award(e.defs[idx], ctx)
}

// award runs the per-definition decide/load/persist/notify sequence. Callers
// must hold the user lock.
func (e *Engine) award(def Definition, ctx Context) *AchievedMilestone {
	if !def.Evaluator.Satisfied(ctx) {
		return nil
	}

	existing := e.store.load(ctx.UserID, def.ID)
	if existing != nil && !def.Repeatable {
		return nil
	}

	count := 1
	if existing != nil {
		count = existing.AchievementCount + 1
	}

	rec := StoredAchievement{
		MilestoneID:      def.ID,
		AchievedAt:       e.now(),
		AchievementCount: count,
	}

	persisted := true
	if err := e.store.save(ctx.UserID, rec); err != nil {
		log.Printf("milestones: failed to persist %s for user %d: %v", def.ID, ctx.UserID, err)
		persisted = false
	}

	e.notify(def, ctx.UserID)

	return &AchievedMilestone{
		ID:         def.ID,
		Name:       def.Name,
		Category:   def.Category,
		AchievedAt: rec.AchievedAt,
		Count:      count,
		Persisted:  persisted,
		Context:    ctx,
	}
}

func (e *Engine) notify(def Definition, userID uint) {
	if e.sink == nil {
		return
	}

	props := map[string]any{
		"milestone_id":       def.ID,
		"milestone_name":     def.Name,
		"milestone_category": string(def.Category),
		"user_id":            userID,
	}
	for k, v := range def.EventProps {
		props[k] = v
	}
	e.sink.Track(def.EventName, props)
}

// GetAchievedMilestones returns the user's achievements in the order they
// were first achieved.
func (e *Engine) GetAchievedMilestones(userID uint) []StoredAchievement {
	if userID == 0 {
		return nil
	}

	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ids := e.store.index(userID)
	achievements := make([]StoredAchievement, 0, len(ids))
	for _, id := range ids {
		if rec := e.store.load(userID, id); rec != nil {
			achievements = append(achievements, *rec)
		}
	}
	return achievements
}

// IsAchieved reports whether the user has ever achieved the milestone.
func (e *Engine) IsAchieved(userID uint, milestoneID string) bool {
	if userID == 0 {
		return false
	}
	return e.store.load(userID, milestoneID) != nil
}

// ResetAchievements returns every milestone of the user to unachieved. An
// empty or absent index is not an error.
func (e *Engine) ResetAchievements(userID uint) error {
	if userID == 0 {
		return nil
	}

	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return e.store.deleteAll(userID)
}

// PersistAchievement records a milestone achieved outside the snapshot model
// (for example a challenge win reported by another service). Same one-time
// guard as Evaluate; false for an unknown id or an already-achieved one-time
// milestone.
func (e *Engine) PersistAchievement(userID uint, milestoneID string) bool {
	idx, ok := e.byID[milestoneID]
	if !ok || userID == 0 {
		return false
	}
	def := e.defs[idx]

	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	existing := e.store.load(userID, milestoneID)
	if existing != nil && !def.Repeatable {
		return false
	}

	count := 1
	if existing != nil {
		count = existing.AchievementCount + 1
	}

	rec := StoredAchievement{
		MilestoneID:      milestoneID,
		AchievedAt:       e.now(),
		AchievementCount: count,
	}
	if err := e.store.save(userID, rec); err != nil {
		log.Printf("milestones: failed to persist %s for user %d: %v", milestoneID, userID, err)
	}

	e.notify(def, userID)
	return true
}

// GetAllMilestones returns every definition in registry order.
func (e *Engine) GetAllMilestones() []Definition {
	defs := make([]Definition, len(e.defs))
	copy(defs, e.defs)
	return defs
}

// GetMilestonesByCategory returns the definitions of one category in
// registry order.
func (e *Engine) GetMilestonesByCategory(category Category) []Definition {
	var defs []Definition
	for _, def := range e.defs {
		if def.Category == category {
			defs = append(defs, def)
		}
	}
	return defs
}

// GetMilestone looks up a single definition by id.
func (e *Engine) GetMilestone(id string) (Definition, bool) {
	idx, ok := e.byID[id]
	if !ok {
		return Definition{}, false
	}
	return e.defs[idx], true
}
