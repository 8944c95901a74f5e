// milestones/evaluator.go - Evaluator strategies for milestone conditions
package milestones

// Category groups milestones for display and filtering.
type Category string

const (
	CategorySocial      Category = "social"
	CategoryStreak      Category = "streak"
	CategoryAchievement Category = "achievement"
	CategoryFitness     Category = "fitness"
	CategoryCompetition Category = "competition"
)

// Context is the metric snapshot handed in by upstream callers after a
// tracked counter changes. Missing metrics read as zero.
type Context struct {
	Current  map[string]float64
	Previous map[string]float64
	UserID   uint
}

func (c Context) current(metric string) float64 {
	return c.Current[metric]
}

func (c Context) previous(metric string) float64 {
	return c.Previous[metric]
}

// Evaluator decides whether a milestone is newly satisfied by a snapshot.
// The set of evaluator kinds is closed: the unexported marker method keeps
// outside packages from adding a fifth kind, and every kind in this package
// must implement Satisfied or it does not compile.
type Evaluator interface {
	// Satisfied must be pure: same evaluator and context, same answer.
	Satisfied(ctx Context) bool

	evaluator()
}

// Threshold fires when the current value of a metric reaches the threshold.
// The comparison is inclusive.
type Threshold struct {
	Metric string
	Value  float64
}

func (Threshold) evaluator() {}

func (t Threshold) Satisfied(ctx Context) bool {
	return ctx.current(t.Metric) >= t.Value
}

// FirstTime fires on the strict transition of a metric from zero (or absent)
// to a positive value. A metric that was already positive never fires.
type FirstTime struct {
	Metric string
}

func (FirstTime) evaluator() {}

func (f FirstTime) Satisfied(ctx Context) bool {
	return ctx.previous(f.Metric) == 0 && ctx.current(f.Metric) > 0
}

// Comparison fires on a strict increase of a metric over its previous value.
// Ties do not count.
type Comparison struct {
	Metric string
}

func (Comparison) evaluator() {}

func (c Comparison) Satisfied(ctx Context) bool {
	return ctx.current(c.Metric) > ctx.previous(c.Metric)
}

// Custom is the escape hatch for conditions the other kinds cannot express.
// It carries code, not data, so milestones using it cannot come from external
// configuration.
type Custom struct {
	Check func(ctx Context) bool
}

func (Custom) evaluator() {}

func (c Custom) Satisfied(ctx Context) bool {
	if c.Check == nil {
		return false
	}
	return c.Check(ctx)
}
