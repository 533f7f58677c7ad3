// Package frecency scores past selections by recency and frequency,
// conditioned on the query being typed.
package frecency

import (
	"math"
	"strings"
	"time"

	"github.com/bastiangx/emojiserve/pkg/history"
)

// DefaultHalfLife is the age at which a selection counts for half.
const DefaultHalfLife = 7 * 24 * time.Hour

// Scores maps a code to its accumulated score. Missing codes score 0.
type Scores map[string]float64

// Related reports whether two lowercased queries are prefix-related:
// either is empty or one is a prefix of the other.
func Related(stored, current string) bool {
	if stored == "" || current == "" {
		return true
	}
	return strings.HasPrefix(stored, current) || strings.HasPrefix(current, stored)
}

// Decay is the contribution of one selection made age ago.
func Decay(age, halfLife time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	if halfLife <= 0 {
		return 1
	}
	return math.Pow(0.5, age.Seconds()/halfLife.Seconds())
}

// Compute scores selections against query at now with the default half-life.
func Compute(selections []history.Selection, query string, now time.Time) Scores {
	return ComputeWithHalfLife(selections, query, now, DefaultHalfLife)
}

// ComputeWithHalfLife is Compute with an explicit half-life.
func ComputeWithHalfLife(selections []history.Selection, query string, now time.Time, halfLife time.Duration) Scores {
	query = strings.ToLower(query)
	nowSec := now.Unix()

	scores := make(Scores)
	for _, sel := range selections {
		if !Related(sel.Query, query) {
			continue
		}
		age := time.Duration(0)
		if ts := int64(sel.Timestamp); ts >= 0 && ts < nowSec {
			age = time.Duration(nowSec-ts) * time.Second
		}
		scores[sel.Code] += Decay(age, halfLife)
	}
	return scores
}

// Scorer binds a half-life and a clock.
type Scorer struct {
	HalfLife time.Duration
	Now      func() time.Time
}

// NewScorer returns a scorer using the wall clock.
func NewScorer(halfLife time.Duration) *Scorer {
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	return &Scorer{HalfLife: halfLife, Now: time.Now}
}

// Score computes the scores for query.
func (s *Scorer) Score(selections []history.Selection, query string) Scores {
	return ComputeWithHalfLife(selections, query, s.Now(), s.HalfLife)
}
