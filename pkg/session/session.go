/*
Package session is the stateful controller behind the picker.

A Session owns the typed query, the current results and the selection
cursor. Every query edit re-runs the search synchronously; cursor moves only
move the cursor. Committing records the pick in the history log, which is
the only thing that changes future rankings.

A Session is owned by one goroutine (the UI dispatch loop) and is not safe
for concurrent use.
*/
package session

import (
	"strings"

	"github.com/bastiangx/emojiserve/pkg/assets"
	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/frecency"
	"github.com/bastiangx/emojiserve/pkg/history"
	"github.com/bastiangx/emojiserve/pkg/match"
	"github.com/charmbracelet/log"
)

// Key names recorded for non-text keystrokes.
const (
	KeyBackSpace = "BackSpace"
	KeyEscape    = "Escape"
	KeyUp        = "Up"
	KeyDown      = "Down"
)

// Options configures a Session. Zero values are usable: no history,
// no images, the default half-life and the wall clock.
type Options struct {
	Corpus []corpus.Entry
	Log    *history.Log
	Images assets.Lookup
	Scorer *frecency.Scorer
}

// Session is the search state machine.
type Session struct {
	matcher    *match.Matcher
	log        *history.Log
	images     assets.Lookup
	scorer     *frecency.Scorer
	selections []history.Selection

	letters  []rune
	terms    []string
	matches  []corpus.Entry
	selected int
}

// New creates a session, loads past selections and runs the empty query.
func New(opts Options) *Session {
	s := &Session{
		matcher: match.NewMatcher(opts.Corpus),
		log:     opts.Log,
		images:  opts.Images,
		scorer:  opts.Scorer,
	}
	if s.images == nil {
		s.images = assets.None{}
	}
	if s.scorer == nil {
		s.scorer = frecency.NewScorer(frecency.DefaultHalfLife)
	}
	s.selections = s.log.LoadSelections()
	s.search()
	return s
}

// Input appends text to the query.
func (s *Session) Input(text string) {
	if text == "" {
		return
	}
	s.record(text)
	s.letters = append(s.letters, []rune(text)...)
	s.selected = 0
	s.search()
}

// DeleteLast removes the last character of the query, if any.
func (s *Session) DeleteLast() {
	s.record(KeyBackSpace)
	if n := len(s.letters); n > 0 {
		s.letters = s.letters[:n-1]
	}
	s.selected = 0
	s.search()
}

// Clear empties the query.
func (s *Session) Clear() {
	s.record(KeyEscape)
	s.letters = s.letters[:0]
	s.selected = 0
	s.search()
}

// MoveUp moves the cursor towards the first result.
func (s *Session) MoveUp() {
	s.record(KeyUp)
	s.selected--
	s.clamp()
}

// MoveDown moves the cursor towards the last result.
func (s *Session) MoveDown() {
	s.record(KeyDown)
	s.selected++
	s.clamp()
}

// Commit records the entry under the cursor as picked for the current query
// and returns it. It reports false when there is nothing to pick.
func (s *Session) Commit() (corpus.Entry, bool) {
	if s.selected < 0 || s.selected >= len(s.matches) {
		return corpus.Entry{}, false
	}
	e := s.matches[s.selected]
	if !e.Valid {
		return corpus.Entry{}, false
	}

	query := string(s.letters)
	ts := s.timestamp()
	s.log.Append(history.NewSelect(ts, e.Code, query))
	s.selections = append(s.selections, history.Selection{
		Code:      e.Code,
		Query:     strings.ToLower(query),
		Timestamp: ts,
	})

	log.Debugf("Committed %s for query '%s'", e.Code, query)
	return e, true
}

// Query returns the typed text.
func (s *Session) Query() string {
	return string(s.letters)
}

// Terms returns the current lowercased terms.
func (s *Session) Terms() []string {
	return s.terms
}

// Matches returns the current results.
func (s *Session) Matches() []corpus.Entry {
	return s.matches
}

// Selected returns the cursor position.
func (s *Session) Selected() int {
	return s.selected
}

// Selections returns the selection history the session ranks with.
func (s *Session) Selections() []history.Selection {
	return s.selections
}

func (s *Session) search() {
	query := string(s.letters)
	s.terms = match.Tokenize(query)
	s.matches = s.matcher.Search(query, func(q string) frecency.Scores {
		return s.scorer.Score(s.selections, q)
	})
	s.clamp()
}

func (s *Session) clamp() {
	if s.selected >= len(s.matches) {
		s.selected = len(s.matches) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *Session) record(key string) {
	s.log.Append(history.NewKeystroke(s.timestamp(), key))
}

func (s *Session) timestamp() uint64 {
	now := s.scorer.Now().Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}
