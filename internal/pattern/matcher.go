// Package pattern stores learned task recipes and matches new tasks
// against them.
package pattern

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planckhq/planck/internal/events"
	"github.com/planckhq/planck/pkg/models"
)

// matchThreshold is the minimum confidence for FindMatch to accept a pattern.
const matchThreshold = 0.6

// minWordLen filters short words out of overlap scoring.
const minWordLen = 3

// defaultTopLimit is the TopPatterns truncation when the caller passes <= 0.
const defaultTopLimit = 10

// Match pairs a matched pattern with its computed confidence.
type Match struct {
	// Pattern is the best-matching stored pattern.
	Pattern *models.Pattern
	// Confidence is the match confidence in (0.6, 1.0].
	Confidence float64
}

// CreateParams are the inputs for learning a new pattern from a
// successful execution.
type CreateParams struct {
	// Name is a short label for the pattern.
	Name string
	// Description explains what the pattern accomplishes.
	Description string
	// Goal is the original task text.
	Goal string
	// Tasks is the ordered recipe of steps that succeeded.
	Tasks []models.PatternTask
	// Tools lists tool or capability names used.
	Tools []string
}

// Matcher owns an in-memory store of patterns keyed by ID and matches new
// task text against them. All methods are safe for concurrent use.
// Persistence is a caller concern; see Store for the sqlite option.
type Matcher struct {
	mu sync.RWMutex
	// patterns maps pattern ID to the owned pattern value.
	patterns map[string]*models.Pattern
	// order preserves insertion order for deterministic iteration.
	order []string
	// emitter receives pattern_matched / pattern_learned signals.
	// Optional; correctness never depends on a subscriber draining it.
	emitter *events.Emitter
	// now is the clock, injectable for tests.
	now func() time.Time
}

// NewMatcher creates an empty Matcher. The emitter may be nil.
func NewMatcher(emitter *events.Emitter) *Matcher {
	return &Matcher{
		patterns: make(map[string]*models.Pattern),
		emitter:  emitter,
		now:      time.Now,
	}
}

// FindMatch finds the stored pattern that best matches the task text.
// Confidence is word-overlap score plus a success-rate boost plus a
// stored-confidence boost, clamped to [0,1]; only confidences above 0.6
// are accepted. Ties keep the first pattern stored. A found match emits
// a pattern_matched event.
func (m *Matcher) FindMatch(text string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	taskWords := significantWords(text)

	var best *Match
	for _, id := range m.order {
		p := m.patterns[id]
		conf := matchConfidence(taskWords, p)
		if conf <= matchThreshold {
			continue
		}
		if best == nil || conf > best.Confidence {
			best = &Match{Pattern: p, Confidence: conf}
		}
	}

	if best == nil {
		return nil, false
	}

	if m.emitter != nil {
		m.emitter.Emit(events.Event{
			Type:       events.EventPatternMatched,
			PatternID:  best.Pattern.ID,
			Pattern:    best.Pattern,
			Confidence: best.Confidence,
		})
	}
	return best, true
}

// RecordResult records one execution outcome for a pattern.
// An unknown ID is a silent no-op. The average duration is a running mean,
// and confidence is recomputed as successRate*0.8 + 0.2, which keeps it
// within [0.2, 1.0].
func (m *Matcher) RecordResult(id string, success bool, durationMS int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patterns[id]
	if !ok {
		return
	}

	if success {
		p.SuccessCount++
	} else {
		p.FailureCount++
	}

	totalRuns := p.SuccessCount + p.FailureCount
	p.AvgDurationMS = int64(math.Round(
		(float64(p.AvgDurationMS)*float64(totalRuns-1) + float64(durationMS)) / float64(totalRuns)))
	p.Confidence = p.SuccessRate()*0.8 + 0.2
	p.UpdatedAt = m.now()
}

// CreatePattern learns a new pattern from a successful execution and emits
// a pattern_learned event. The new pattern starts with one recorded success
// and confidence 0.5.
func (m *Matcher) CreatePattern(params CreateParams) *models.Pattern {
	now := m.now()
	p := &models.Pattern{
		ID:           uuid.New().String(),
		Name:         params.Name,
		Description:  params.Description,
		Goal:         params.Goal,
		Tasks:        params.Tasks,
		Tools:        params.Tools,
		SuccessCount: 1,
		FailureCount: 0,
		Confidence:   0.5,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	m.mu.Lock()
	m.patterns[p.ID] = p
	m.order = append(m.order, p.ID)
	m.mu.Unlock()

	if m.emitter != nil {
		m.emitter.Emit(events.Event{
			Type:      events.EventPatternLearned,
			PatternID: p.ID,
		})
	}
	return p
}

// AddPattern inserts a pattern directly into the store, replacing any
// pattern with the same ID.
func (m *Matcher) AddPattern(p *models.Pattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.patterns[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	m.patterns[p.ID] = p
}

// Get returns the pattern with the given ID, or nil if not stored.
func (m *Matcher) Get(id string) *models.Pattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.patterns[id]
}

// Len returns the number of stored patterns.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.patterns)
}

// TopPatterns returns patterns sorted by success rate descending, truncated
// to limit (default 10). Patterns with no recorded runs rank as rate 0.
func (m *Matcher) TopPatterns(limit int) []*models.Pattern {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	m.mu.RLock()
	top := make([]*models.Pattern, 0, len(m.order))
	for _, id := range m.order {
		top = append(top, m.patterns[id])
	}
	m.mu.RUnlock()

	// Stable sort keeps insertion order among equal rates.
	sortPatternsByRate(top)

	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// sortPatternsByRate orders patterns by success rate descending.
func sortPatternsByRate(patterns []*models.Pattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].SuccessRate() > patterns[j].SuccessRate()
	})
}

// matchConfidence computes overlap + success boost + confidence boost,
// clamped to [0,1].
func matchConfidence(taskWords map[string]bool, p *models.Pattern) float64 {
	conf := overlapScore(taskWords, significantWords(p.Goal))
	conf += p.SuccessRate() * 0.2
	conf += p.Confidence * 0.1
	return math.Min(math.Max(conf, 0), 1)
}

// overlapScore is shared-word count divided by the larger word-set size.
// Words count once per set regardless of repetition.
func overlapScore(a, b map[string]bool) float64 {
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	if larger == 0 {
		return 0
	}

	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}

// significantWords lower-cases text and returns the set of words longer
// than minWordLen characters.
func significantWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?\"'()[]{}")
		if len(w) > minWordLen {
			words[w] = true
		}
	}
	return words
}
