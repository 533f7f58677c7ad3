/*
Package match decides which corpus entries a query selects and ranks them.

A query is split into lowercase whitespace separated terms. An entry matches
when every term matches at least one word of its description. A term matches
a word when their first characters are equal and the remaining term
characters appear in order later in the word:

	sm  -> smile, small
	ml  -x smile (first character differs)

Matches are ordered by frecency (highest first, corpus order on ties) and cut
to SlotCount. An empty query, or a query nothing matches, falls back to the
whole corpus ranked by the frecency of every past selection.
*/
package match

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/frecency"
)

// SlotCount is the maximum number of ranked results.
const SlotCount = 5

// ScoreFunc returns the frecency scores for a query.
type ScoreFunc func(query string) frecency.Scores

// Tokenize lowercases query and splits it into non-empty terms.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Positions matches term against word with the anchored rule and returns
// the byte offset in word of every consumed character. term must already be
// lowercase; word characters are lowercased one rune at a time, the same
// mapping strings.ToLower applies, so offsets refer to word as given.
// An empty term matches with no positions.
func Positions(term, word string) ([]int, bool) {
	if term == "" {
		return nil, true
	}
	if word == "" {
		return nil, false
	}

	t0, tn := utf8.DecodeRuneInString(term)
	w0, wn := utf8.DecodeRuneInString(word)
	if unicode.ToLower(w0) != t0 {
		return nil, false
	}

	positions := make([]int, 1, utf8.RuneCountInString(term))
	wi := wn
	for _, c := range term[tn:] {
		found := false
		for wi < len(word) {
			r, n := utf8.DecodeRuneInString(word[wi:])
			at := wi
			wi += n
			if unicode.ToLower(r) == c {
				positions = append(positions, at)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return positions, true
}

// TermMatchesWord reports whether term matches word.
func TermMatchesWord(term, word string) bool {
	_, ok := Positions(term, word)
	return ok
}

// EntryMatchesTerms reports whether every term matches some word of the
// entry's description. Malformed entries never match.
func EntryMatchesTerms(e corpus.Entry, terms []string) bool {
	if !e.Valid {
		return false
	}
	return wordsMatchTerms(strings.Fields(strings.ToLower(e.Description)), terms)
}

func wordsMatchTerms(words, terms []string) bool {
	for _, term := range terms {
		matched := false
		for _, w := range words {
			if TermMatchesWord(term, w) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Matcher searches a fixed corpus.
type Matcher struct {
	entries []corpus.Entry
	words   [][]string
	index   *Index
}

// NewMatcher indexes entries. The slice must not be modified afterwards.
func NewMatcher(entries []corpus.Entry) *Matcher {
	m := &Matcher{
		entries: entries,
		words:   make([][]string, len(entries)),
		index:   NewIndex(),
	}
	for i, e := range entries {
		if !e.Valid {
			continue
		}
		m.words[i] = strings.Fields(strings.ToLower(e.Description))
		for _, w := range m.words[i] {
			m.index.Add(w, i)
		}
	}
	return m
}

// Entries returns the corpus.
func (m *Matcher) Entries() []corpus.Entry {
	return m.entries
}

// Match returns the positions, in corpus order, of entries matching all terms.
func (m *Matcher) Match(terms []string) []int {
	var candidates []int
	for i, term := range terms {
		if term == "" {
			continue
		}
		set := m.index.Candidates(term)
		if i == 0 || candidates == nil {
			candidates = set
		} else {
			candidates = intersect(candidates, set)
		}
		if len(candidates) == 0 {
			return nil
		}
	}
	if candidates == nil {
		candidates = m.all()
	}

	matched := candidates[:0:0]
	for _, i := range candidates {
		if m.entries[i].Valid && wordsMatchTerms(m.words[i], terms) {
			matched = append(matched, i)
		}
	}
	return matched
}

// Search returns the top SlotCount entries for query.
func (m *Matcher) Search(query string, score ScoreFunc) []corpus.Entry {
	if terms := Tokenize(query); len(terms) > 0 {
		if idx := m.Match(terms); len(idx) > 0 {
			return m.rank(idx, score(strings.ToLower(query)))
		}
	}
	return m.rank(m.all(), score(""))
}

func (m *Matcher) rank(idx []int, scores frecency.Scores) []corpus.Entry {
	ranked := make([]corpus.Entry, len(idx))
	for j, i := range idx {
		ranked[j] = m.entries[i]
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a].Code] > scores[ranked[b].Code]
	})
	if len(ranked) > SlotCount {
		ranked = ranked[:SlotCount]
	}
	return ranked
}

func (m *Matcher) all() []int {
	idx := make([]int, len(m.entries))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// intersect keeps the values present in both sorted slices.
func intersect(a, b []int) []int {
	out := a[:0:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
