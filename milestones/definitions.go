// milestones/definitions.go - The milestone registry
package milestones

// Definition describes one milestone. IDs are stable and unique; the
// registry is fixed at compile time and read-only at runtime.
type Definition struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Evaluator   Evaluator
	EventName   string
	EventProps  map[string]any
	Repeatable  bool
}

// Metric names supplied by the rest of the app. Handlers that change one of
// these counters are expected to evaluate a snapshot afterwards.
const (
	MetricFriendCount    = "friend_count"
	MetricGroupCount     = "group_count"
	MetricWorkoutCount   = "workout_count"
	MetricTotalSteps     = "total_steps"
	MetricDailySteps     = "daily_steps"
	MetricCurrentStreak  = "current_streak"
	MetricBestDailySteps = "best_daily_steps"
	MetricWins           = "wins"
)

var registry = []Definition{
	// Streaks
	{
		ID:          "streak_3",
		Name:        "Warming Up",
		Description: "Work out 3 days in a row",
		Category:    CategoryStreak,
		Evaluator:   Threshold{Metric: MetricCurrentStreak, Value: 3},
		EventName:   "streak_milestone",
		EventProps:  map[string]any{"streak_days": 3},
	},
	{
		ID:          "streak_7",
		Name:        "One Week Strong",
		Description: "Work out 7 days in a row",
		Category:    CategoryStreak,
		Evaluator:   Threshold{Metric: MetricCurrentStreak, Value: 7},
		EventName:   "streak_milestone",
		EventProps:  map[string]any{"streak_days": 7},
	},
	{
		ID:          "streak_14",
		Name:        "Two Week Titan",
		Description: "Work out 14 days in a row",
		Category:    CategoryStreak,
		Evaluator:   Threshold{Metric: MetricCurrentStreak, Value: 14},
		EventName:   "streak_milestone",
		EventProps:  map[string]any{"streak_days": 14},
	},
	{
		ID:          "streak_30",
		Name:        "Monthly Machine",
		Description: "Work out 30 days in a row",
		Category:    CategoryStreak,
		Evaluator:   Threshold{Metric: MetricCurrentStreak, Value: 30},
		EventName:   "streak_milestone",
		EventProps:  map[string]any{"streak_days": 30},
	},
	{
		ID:          "streak_60",
		Name:        "Relentless",
		Description: "Work out 60 days in a row",
		Category:    CategoryStreak,
		Evaluator:   Threshold{Metric: MetricCurrentStreak, Value: 60},
		EventName:   "streak_milestone",
		EventProps:  map[string]any{"streak_days": 60},
	},
	{
		ID:          "streak_90",
		Name:        "Quarter Master",
		Description: "Work out 90 days in a row",
		Category:    CategoryStreak,
		Evaluator:   Threshold{Metric: MetricCurrentStreak, Value: 90},
		EventName:   "streak_milestone",
		EventProps:  map[string]any{"streak_days": 90},
	},

	// Social
	{
		ID:          "first_friend",
		Name:        "Better Together",
		Description: "Add your first friend",
		Category:    CategorySocial,
		Evaluator:   FirstTime{Metric: MetricFriendCount},
		EventName:   "social_milestone",
	},
	{
		ID:          "friends_5",
		Name:        "Squad Assembled",
		Description: "Reach 5 friends",
		Category:    CategorySocial,
		Evaluator:   Threshold{Metric: MetricFriendCount, Value: 5},
		EventName:   "social_milestone",
	},
	{
		ID:          "friends_20",
		Name:        "Crowd Favorite",
		Description: "Reach 20 friends",
		Category:    CategorySocial,
		Evaluator:   Threshold{Metric: MetricFriendCount, Value: 20},
		EventName:   "social_milestone",
	},
	{
		ID:          "first_group",
		Name:        "Joiner",
		Description: "Join your first group",
		Category:    CategorySocial,
		Evaluator:   FirstTime{Metric: MetricGroupCount},
		EventName:   "social_milestone",
	},

	// Fitness
	{
		ID:          "first_workout",
		Name:        "First Steps",
		Description: "Record your first workout",
		Category:    CategoryFitness,
		Evaluator:   FirstTime{Metric: MetricWorkoutCount},
		EventName:   "fitness_milestone",
	},
	{
		ID:          "daily_10k",
		Name:        "10K Day",
		Description: "Take 10,000 steps in a single day",
		Category:    CategoryFitness,
		Evaluator:   Threshold{Metric: MetricDailySteps, Value: 10000},
		EventName:   "fitness_milestone",
		EventProps:  map[string]any{"steps": 10000},
	},
	{
		ID:          "daily_20k",
		Name:        "20K Day",
		Description: "Take 20,000 steps in a single day",
		Category:    CategoryFitness,
		Evaluator:   Threshold{Metric: MetricDailySteps, Value: 20000},
		EventName:   "fitness_milestone",
		EventProps:  map[string]any{"steps": 20000},
	},
	{
		ID:          "total_100k",
		Name:        "Hundred Thousand Club",
		Description: "Reach 100,000 lifetime steps",
		Category:    CategoryFitness,
		Evaluator:   Threshold{Metric: MetricTotalSteps, Value: 100000},
		EventName:   "fitness_milestone",
	},
	{
		ID:          "total_1m",
		Name:        "Millionaire",
		Description: "Reach 1,000,000 lifetime steps",
		Category:    CategoryFitness,
		Evaluator:   Threshold{Metric: MetricTotalSteps, Value: 1000000},
		EventName:   "fitness_milestone",
	},

	// Achievement
	{
		ID:          "personal_record",
		Name:        "Personal Record",
		Description: "Beat your best daily step count",
		Category:    CategoryAchievement,
		Evaluator:   Comparison{Metric: MetricBestDailySteps},
		EventName:   "personal_record",
		Repeatable:  true,
	},
	{
		ID:          "streak_10k",
		Name:        "Peak Form",
		Description: "Take 10,000 steps in a day while on a week-long streak",
		Category:    CategoryAchievement,
		Evaluator: Custom{Check: func(ctx Context) bool {
			return ctx.Current[MetricDailySteps] >= 10000 &&
				ctx.Current[MetricCurrentStreak] >= 7
		}},
		EventName: "achievement_milestone",
	},

	// Competition
	{
		ID:          "first_win",
		Name:        "Taste of Victory",
		Description: "Win your first challenge",
		Category:    CategoryCompetition,
		Evaluator:   FirstTime{Metric: MetricWins},
		EventName:   "competition_milestone",
	},
	{
		ID:          "wins_10",
		Name:        "Serial Winner",
		Description: "Win 10 challenges",
		Category:    CategoryCompetition,
		Evaluator:   Threshold{Metric: MetricWins, Value: 10},
		EventName:   "competition_milestone",
	},
}

// Definitions returns the built-in registry in declared order. Callers must
// not modify the returned slice.
func Definitions() []Definition {
	return registry
}
