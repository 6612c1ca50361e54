package pattern

import (
	"math"
	"testing"
	"time"

	"github.com/planckhq/planck/internal/events"
	"github.com/planckhq/planck/pkg/models"
)

func TestCreatePattern(t *testing.T) {
	m := NewMatcher(nil)
	p := m.CreatePattern(CreateParams{
		Name:  "deploy flow",
		Goal:  "deploy the service to staging and verify health checks",
		Tools: []string{"shell", "http"},
	})

	if p.ID == "" {
		t.Fatal("expected generated pattern ID")
	}
	if p.SuccessCount != 1 || p.FailureCount != 0 {
		t.Errorf("expected 1/0 counts, got %d/%d", p.SuccessCount, p.FailureCount)
	}
	if p.Confidence != 0.5 {
		t.Errorf("expected initial confidence 0.5, got %f", p.Confidence)
	}
	if p.AvgDurationMS != 0 {
		t.Errorf("expected zero initial avg duration, got %d", p.AvgDurationMS)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Error("expected both timestamps set to creation time")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 stored pattern, got %d", m.Len())
	}
}

func TestFindMatchExactGoal(t *testing.T) {
	m := NewMatcher(nil)
	goal := "migrate the billing database to the new schema"
	p := m.CreatePattern(CreateParams{Name: "billing migration", Goal: goal})

	match, ok := m.FindMatch(goal)
	if !ok {
		t.Fatal("expected a match for identical text")
	}
	if match.Pattern.ID != p.ID {
		t.Errorf("expected pattern %s, got %s", p.ID, match.Pattern.ID)
	}
	// Full overlap (1.0) + success boost (0.2) + confidence boost (0.05),
	// clamped to 1.0.
	if match.Confidence != 1.0 {
		t.Errorf("expected clamped confidence 1.0, got %f", match.Confidence)
	}
}

func TestFindMatchBelowThreshold(t *testing.T) {
	m := NewMatcher(nil)
	m.CreatePattern(CreateParams{Name: "unrelated", Goal: "compress archived video footage nightly"})

	if _, ok := m.FindMatch("write unit tests for the parser"); ok {
		t.Error("expected no match for unrelated text")
	}
}

func TestFindMatchNeverReturnsAtMostThreshold(t *testing.T) {
	m := NewMatcher(nil)
	m.CreatePattern(CreateParams{Goal: "rotate the signing keys quarterly"})
	m.CreatePattern(CreateParams{Goal: "rebuild search index shards overnight"})
	m.CreatePattern(CreateParams{Goal: "deploy canary release and watch metrics"})

	queries := []string{
		"rotate keys",
		"rebuild the search index shards overnight please",
		"deploy canary release and watch metrics",
		"something else entirely",
	}
	for _, q := range queries {
		if match, ok := m.FindMatch(q); ok && match.Confidence <= matchThreshold {
			t.Errorf("query %q: returned match at confidence %f <= %f", q, match.Confidence, matchThreshold)
		}
	}
}

func TestFindMatchPicksHighestConfidence(t *testing.T) {
	m := NewMatcher(nil)
	m.CreatePattern(CreateParams{Name: "partial", Goal: "update service configuration values carefully"})
	best := m.CreatePattern(CreateParams{Name: "full", Goal: "update service configuration and restart workers"})

	match, ok := m.FindMatch("update service configuration and restart workers")
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Pattern.ID != best.ID {
		t.Errorf("expected highest-confidence pattern %q, got %q", best.Name, match.Pattern.Name)
	}
}

func TestFindMatchEmitsEvent(t *testing.T) {
	emitter := events.NewEmitter(4)
	m := NewMatcher(emitter)
	p := m.CreatePattern(CreateParams{Goal: "index the product catalog nightly"})

	// Drain the pattern_learned event first.
	ev := <-emitter.Events()
	if ev.Type != events.EventPatternLearned || ev.PatternID != p.ID {
		t.Fatalf("expected pattern_learned for %s, got %+v", p.ID, ev)
	}

	if _, ok := m.FindMatch("index the product catalog nightly"); !ok {
		t.Fatal("expected a match")
	}
	ev = <-emitter.Events()
	if ev.Type != events.EventPatternMatched {
		t.Fatalf("expected pattern_matched, got %s", ev.Type)
	}
	if ev.PatternID != p.ID || ev.Pattern == nil || ev.Confidence <= matchThreshold {
		t.Errorf("pattern_matched payload incomplete: %+v", ev)
	}
}

func TestMatcherWorksWithoutSubscriber(t *testing.T) {
	// A full, undrained emitter must not change matcher behavior.
	emitter := events.NewEmitter(1)
	m := NewMatcher(emitter)
	for i := 0; i < 5; i++ {
		m.CreatePattern(CreateParams{Goal: "reindex the catalog and refresh caches"})
	}
	if m.Len() != 5 {
		t.Errorf("expected 5 patterns stored despite undrained emitter, got %d", m.Len())
	}
	if _, ok := m.FindMatch("reindex the catalog and refresh caches"); !ok {
		t.Error("expected match despite undrained emitter")
	}
}

func TestRecordResultUnknownIDIsNoOp(t *testing.T) {
	m := NewMatcher(nil)
	p := m.CreatePattern(CreateParams{Goal: "anything at all here"})

	m.RecordResult("missing-id", true, 500)
	if got := m.Get(p.ID); got.SuccessCount != 1 || got.FailureCount != 0 {
		t.Error("recording against an unknown ID must not touch other patterns")
	}
}

func TestRecordResultUpdatesConfidence(t *testing.T) {
	m := NewMatcher(nil)
	p := m.CreatePattern(CreateParams{Goal: "sync the mirrors"})

	// Bring the pattern to 4 successes, 1 failure.
	for i := 0; i < 3; i++ {
		m.RecordResult(p.ID, true, 1000)
	}
	m.RecordResult(p.ID, false, 1000)

	if p.SuccessCount != 4 || p.FailureCount != 1 {
		t.Fatalf("expected 4/1 counts, got %d/%d", p.SuccessCount, p.FailureCount)
	}

	// One more failure: confidence = (4/6)*0.8 + 0.2.
	m.RecordResult(p.ID, false, 1000)
	if p.FailureCount != 2 {
		t.Errorf("expected failure count 2, got %d", p.FailureCount)
	}
	want := (4.0/6.0)*0.8 + 0.2
	if math.Abs(p.Confidence-want) > 1e-9 {
		t.Errorf("expected confidence %.4f, got %.4f", want, p.Confidence)
	}
}

func TestRecordResultConfidenceBounds(t *testing.T) {
	m := NewMatcher(nil)
	p := m.CreatePattern(CreateParams{Goal: "compact the event log"})

	for i := 0; i < 20; i++ {
		m.RecordResult(p.ID, i%3 == 0, int64(100*i))
		if p.Confidence < 0.2 || p.Confidence > 1.0 {
			t.Fatalf("confidence out of [0.2,1.0] after %d outcomes: %f", i+1, p.Confidence)
		}
	}
}

func TestRecordResultRunningMeanDuration(t *testing.T) {
	m := NewMatcher(nil)
	p := m.CreatePattern(CreateParams{Goal: "archive cold storage buckets"})

	// Creation counts as run 1 with avg 0; the mean runs over post-increment
	// totals: after 1000ms -> round((0*1 + 1000)/2) = 500.
	m.RecordResult(p.ID, true, 1000)
	if p.AvgDurationMS != 500 {
		t.Errorf("expected avg 500, got %d", p.AvgDurationMS)
	}
	// After 2000ms -> round((500*2 + 2000)/3) = 1000.
	m.RecordResult(p.ID, true, 2000)
	if p.AvgDurationMS != 1000 {
		t.Errorf("expected avg 1000, got %d", p.AvgDurationMS)
	}
}

func TestRecordResultStampsUpdatedAt(t *testing.T) {
	m := NewMatcher(nil)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	p := m.CreatePattern(CreateParams{Goal: "refresh the dashboards"})

	m.now = func() time.Time { return base.Add(time.Hour) }
	m.RecordResult(p.ID, true, 100)

	if !p.UpdatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("expected UpdatedAt advanced, got %v", p.UpdatedAt)
	}
	if !p.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt must not change, got %v", p.CreatedAt)
	}
}

func TestTopPatterns(t *testing.T) {
	m := NewMatcher(nil)

	low := m.CreatePattern(CreateParams{Name: "low", Goal: "goal one"})
	m.RecordResult(low.ID, false, 100)
	m.RecordResult(low.ID, false, 100)

	high := m.CreatePattern(CreateParams{Name: "high", Goal: "goal two"})
	m.RecordResult(high.ID, true, 100)

	// Direct insert with zero recorded runs ranks as rate 0.
	m.AddPattern(&models.Pattern{ID: "fresh", Name: "fresh", Goal: "goal three"})

	top := m.TopPatterns(10)
	if len(top) != 3 {
		t.Fatalf("expected 3 patterns, got %d", len(top))
	}
	if top[0].ID != high.ID {
		t.Errorf("expected %q first, got %q", "high", top[0].Name)
	}
	if top[len(top)-1].SuccessRate() != 0 {
		t.Errorf("expected a zero-rate pattern last, got %q at rate %f",
			top[len(top)-1].Name, top[len(top)-1].SuccessRate())
	}

	if got := m.TopPatterns(2); len(got) != 2 {
		t.Errorf("expected truncation to 2, got %d", len(got))
	}
	if got := m.TopPatterns(0); len(got) != 3 {
		t.Errorf("expected default limit to return all 3, got %d", len(got))
	}
}
