package milestones

import "testing"

func TestThresholdBoundaries(t *testing.T) {
	ev := Threshold{Metric: MetricCurrentStreak, Value: 7}

	cases := []struct {
		name    string
		current float64
		want    bool
	}{
		{"below", 6, false},
		{"exact", 7, true},
		{"above", 8, true},
	}

	for _, tc := range cases {
		ctx := Context{Current: map[string]float64{MetricCurrentStreak: tc.current}}
		if got := ev.Satisfied(ctx); got != tc.want {
			t.Errorf("%s: Satisfied=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestThresholdMissingMetricDefaultsToZero(t *testing.T) {
	ev := Threshold{Metric: MetricTotalSteps, Value: 1}
	if ev.Satisfied(Context{}) {
		t.Fatal("absent metric should read as zero and not satisfy a positive threshold")
	}

	zero := Threshold{Metric: MetricTotalSteps, Value: 0}
	if !zero.Satisfied(Context{}) {
		t.Fatal("zero threshold should be satisfied by an absent metric")
	}
}

func TestFirstTimeTransition(t *testing.T) {
	ev := FirstTime{Metric: MetricFriendCount}

	cases := []struct {
		name     string
		previous float64
		current  float64
		want     bool
	}{
		{"zero to one", 0, 1, true},
		{"absent to one", 0, 1, true},
		{"still positive", 1, 2, false},
		{"still zero", 0, 0, false},
		{"back to zero", 2, 0, false},
	}

	for _, tc := range cases {
		ctx := Context{
			Current:  map[string]float64{MetricFriendCount: tc.current},
			Previous: map[string]float64{MetricFriendCount: tc.previous},
		}
		if got := ev.Satisfied(ctx); got != tc.want {
			t.Errorf("%s: Satisfied=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFirstTimeAbsentPrevious(t *testing.T) {
	ev := FirstTime{Metric: MetricGroupCount}
	ctx := Context{Current: map[string]float64{MetricGroupCount: 1}}
	if !ev.Satisfied(ctx) {
		t.Fatal("absent previous metric should count as zero")
	}
}

func TestComparisonStrictIncrease(t *testing.T) {
	ev := Comparison{Metric: MetricBestDailySteps}

	cases := []struct {
		name     string
		previous float64
		current  float64
		want     bool
	}{
		{"increase", 5000, 6000, true},
		{"tie", 5000, 5000, false},
		{"decrease", 5000, 4000, false},
		{"both absent", 0, 0, false},
	}

	for _, tc := range cases {
		ctx := Context{
			Current:  map[string]float64{MetricBestDailySteps: tc.current},
			Previous: map[string]float64{MetricBestDailySteps: tc.previous},
		}
		if got := ev.Satisfied(ctx); got != tc.want {
			t.Errorf("%s: Satisfied=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCustomEvaluator(t *testing.T) {
	ev := Custom{Check: func(ctx Context) bool {
		return ctx.Current[MetricDailySteps] >= 10000 && ctx.Current[MetricCurrentStreak] >= 7
	}}

	satisfied := Context{Current: map[string]float64{MetricDailySteps: 12000, MetricCurrentStreak: 7}}
	if !ev.Satisfied(satisfied) {
		t.Fatal("combined condition should be satisfied")
	}

	partial := Context{Current: map[string]float64{MetricDailySteps: 12000, MetricCurrentStreak: 3}}
	if ev.Satisfied(partial) {
		t.Fatal("partial condition should not be satisfied")
	}

	if (Custom{}).Satisfied(satisfied) {
		t.Fatal("nil predicate should never be satisfied")
	}
}

func TestEvaluatorsArePure(t *testing.T) {
	ctx := Context{
		Current:  map[string]float64{MetricCurrentStreak: 7, MetricFriendCount: 1},
		Previous: map[string]float64{MetricFriendCount: 0},
	}

	evaluators := []Evaluator{
		Threshold{Metric: MetricCurrentStreak, Value: 7},
		FirstTime{Metric: MetricFriendCount},
		Comparison{Metric: MetricFriendCount},
		Custom{Check: func(ctx Context) bool { return ctx.Current[MetricCurrentStreak] > 0 }},
	}

	for i, ev := range evaluators {
		first := ev.Satisfied(ctx)
		for j := 0; j < 10; j++ {
			if ev.Satisfied(ctx) != first {
				t.Errorf("evaluator %d: result changed between identical calls", i)
			}
		}
	}
}

func TestRegistryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Definitions() {
		if def.ID == "" {
			t.Errorf("milestone %q has an empty id", def.Name)
		}
		if seen[def.ID] {
			t.Errorf("duplicate milestone id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Evaluator == nil {
			t.Errorf("milestone %q has no evaluator", def.ID)
		}
		if def.EventName == "" {
			t.Errorf("milestone %q has no event name", def.ID)
		}
	}
}
