// Package forecast glues the interaction classifier to the behavioral
// memory store: one call yields everything a calendar cell or notification
// needs for a given date.
package forecast

import (
	"time"

	"bazical/internal/cycle"
	"bazical/internal/domain"
	"bazical/internal/relation"
	"bazical/internal/store"
)

// Day is the combined prediction for one calendar date.
type Day struct {
	Date      string `json:"date"`
	Signature string `json:"signature"`
	DayStem   string `json:"dayStem"`
	DayBranch string `json:"dayBranch"`

	// HasProfile distinguishes "no chart configured" from any computed
	// tier; Risk is nil in that state and consumers apply their own
	// conservative fallback.
	HasProfile bool             `json:"hasProfile"`
	Risk       *relation.Result `json:"risk,omitempty"`

	Analysis  *domain.Analysis `json:"analysis,omitempty"`
	TotalLogs int              `json:"totalLogs"`
}

// ForDate computes the day signature, classifies it against the stored
// profile (when one exists) and folds in the signature's logged history.
func ForDate(t time.Time, s *store.Store) Day {
	pillar := cycle.DayPillar(t)
	signature := pillar.Stem + pillar.Branch

	d := Day{
		Date:      t.Format("2006-01-02"),
		Signature: signature,
		DayStem:   pillar.Stem,
		DayBranch: pillar.Branch,
	}

	if branches := s.Branches(); len(branches) > 0 {
		d.HasProfile = true
		r := relation.Classify(pillar.Branch, branches)
		d.Risk = &r
	}

	entries := s.EntriesFor(signature)
	d.Analysis = store.Analyze(entries)
	d.TotalLogs = len(entries)

	return d
}
