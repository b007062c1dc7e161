package progression

import (
	"sync"
	"time"
)

// pairTracker holds the throttle history for one character-skill pair.
// Its mutex serializes mutations for the pair.
type pairTracker struct {
	mu         sync.Mutex
	uses       []time.Time
	lastTarget map[string]time.Time
	lastUse    time.Time
}

// pruneWindow drops uses older than the rolling window and returns the
// count remaining before the current use.
func (t *pairTracker) pruneWindow(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	kept := t.uses[:0]
	for _, use := range t.uses {
		if use.After(cutoff) {
			kept = append(kept, use)
		}
	}
	t.uses = kept
	return len(t.uses)
}

// targetOnCooldown reports whether the target was used within the
// cooldown window. The attempt itself refreshes the target timestamp,
// so spamming a target keeps it cold.
func (t *pairTracker) targetOnCooldown(target string, now time.Time, cooldown time.Duration) bool {
	if target == "" || cooldown <= 0 {
		return false
	}
	if t.lastTarget == nil {
		t.lastTarget = make(map[string]time.Time)
	}
	last, seen := t.lastTarget[target]
	t.lastTarget[target] = now
	return seen && now.Sub(last) < cooldown
}

// firstUseOfDay reports whether this is the first use on a new calendar
// day (UTC).
func (t *pairTracker) firstUseOfDay(now time.Time) bool {
	if t.lastUse.IsZero() {
		return true
	}
	a, b := t.lastUse.UTC(), now.UTC()
	return a.Year() != b.Year() || a.YearDay() != b.YearDay()
}

func (t *pairTracker) record(now time.Time) {
	t.uses = append(t.uses, now)
	t.lastUse = now
}

// trackerSet maps character-skill keys to their trackers.
type trackerSet struct {
	mu       sync.Mutex
	trackers map[string]*pairTracker
}

func newTrackerSet() *trackerSet {
	return &trackerSet{trackers: make(map[string]*pairTracker)}
}

func (s *trackerSet) get(characterID, skillID string) *pairTracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := characterID + ":" + skillID
	t, ok := s.trackers[key]
	if !ok {
		t = &pairTracker{}
		s.trackers[key] = t
	}
	return t
}
