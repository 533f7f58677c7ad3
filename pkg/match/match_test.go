package match

import (
	"fmt"
	"testing"

	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/frecency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(lines ...string) []corpus.Entry {
	out := make([]corpus.Entry, len(lines))
	for i, l := range lines {
		out[i] = corpus.Parse(l)
	}
	return out
}

func codes(es []corpus.Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Code
	}
	return out
}

func noScores(string) frecency.Scores { return nil }

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"grin", "face"}, Tokenize("  Grin\tFACE "))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
}

func TestTermMatchesWord(t *testing.T) {
	testCases := []struct {
		term, word string
		want       bool
	}{
		{"sm", "smile", true},
		{"sm", "small", true},
		{"ml", "smile", false},
		{"", "anything", true},
		{"", "", true},
		{"s", "", false},
		{"sle", "smile", true},
		{"smilee", "smile", false},
		{"see", "smile", false},
		{"gf", "grinning", false},
		{"gng", "grinning", true},
		{"Sm", "smile", true},
		{"éa", "état", true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, TermMatchesWord(tc.term, tc.word), "%q in %q", tc.term, tc.word)
	}
}

func TestPositionsAreNonBacktracking(t *testing.T) {
	pos, ok := Positions("gin", "grinning")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 3}, pos)

	pos, ok = Positions("hea", "heart-eyes")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, pos)

	_, ok = Positions("sms", "smile")
	assert.False(t, ok)
}

func TestEntryMatchesTerms(t *testing.T) {
	e := corpus.Parse("😄| grinning face with smiling eyes| 1f604")

	assert.True(t, EntryMatchesTerms(e, []string{"gr"}))
	assert.True(t, EntryMatchesTerms(e, []string{"sm", "ey"}))
	assert.True(t, EntryMatchesTerms(e, []string{"wh"}))
	assert.False(t, EntryMatchesTerms(e, []string{"sm", "zz"}))
	assert.True(t, EntryMatchesTerms(e, nil))

	broken := corpus.Parse("😄| grinning face")
	assert.False(t, EntryMatchesTerms(broken, []string{"gr"}))
	assert.False(t, EntryMatchesTerms(broken, nil))
}

func TestSearchRanksByFrecency(t *testing.T) {
	m := NewMatcher(entries("😀| grinning face| 1f600", "😢| crying face| 1f622"))

	scores := func(q string) frecency.Scores {
		if q == "fa" {
			return frecency.Scores{"1f622": 2}
		}
		return nil
	}
	assert.Equal(t, []string{"1f622", "1f600"}, codes(m.Search("fa", scores)))
	assert.Equal(t, []string{"1f600"}, codes(m.Search("gr", scores)))
}

func TestSearchCapsAtSlotCount(t *testing.T) {
	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("x| smile %d| c%d", i, i))
	}
	m := NewMatcher(entries(lines...))

	got := m.Search("sm", noScores)
	assert.Len(t, got, SlotCount)
	assert.Equal(t, []string{"c0", "c1", "c2", "c3", "c4"}, codes(got))
}

func TestSearchFallsBackToWholeCorpus(t *testing.T) {
	m := NewMatcher(entries(
		"a| alpha| a",
		"b| beta| b",
		"c| gamma| c",
		"d| delta| d",
		"e| epsilon| e",
		"f| zeta| f",
	))

	var asked []string
	scores := func(q string) frecency.Scores {
		asked = append(asked, q)
		return frecency.Scores{"f": 1}
	}

	assert.Equal(t, []string{"f", "a", "b", "c", "d"}, codes(m.Search("", scores)))
	assert.Equal(t, []string{"f", "a", "b", "c", "d"}, codes(m.Search("qqq", scores)))
	assert.Equal(t, []string{"", ""}, asked)
}

func TestSearchPassesLowercasedQuery(t *testing.T) {
	m := NewMatcher(entries("😀| grinning face| 1f600"))
	var asked string
	m.Search("GR", func(q string) frecency.Scores { asked = q; return nil })
	assert.Equal(t, "gr", asked)
}

func TestMatchSkipsMalformedRows(t *testing.T) {
	m := NewMatcher(entries("broken", "😀| grinning face| 1f600", "😀| grinning"))
	assert.Equal(t, []int{1}, m.Match([]string{"gr"}))
	assert.Equal(t, []int{1}, m.Match([]string{"fa", "gr"}))
	assert.Empty(t, m.Match([]string{"gr", "zz"}))
}

func TestMatchAgreesWithEntryMatchesTerms(t *testing.T) {
	es := corpus.Default()
	m := NewMatcher(es)

	queries := []string{"s", "sm", "sm ey", "face", "f t", "heart", "h e", "zz", "cr fa", "thu", "ſm", "ſ", "Ｓm"}
	for _, q := range queries {
		terms := Tokenize(q)
		var want []int
		for i, e := range es {
			if EntryMatchesTerms(e, terms) {
				want = append(want, i)
			}
		}
		assert.Equal(t, want, nilIfEmpty(m.Match(terms)), "query %q", q)
	}
}

func TestFirstCharacterMustBeEqualAfterLowercasing(t *testing.T) {
	m := NewMatcher(entries("😄| smiling face| 1f604"))

	assert.False(t, TermMatchesWord("ſm", "smiling"))
	assert.Empty(t, m.Match([]string{"ſm"}))

	pos, ok := Positions("sm", "Smiling")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, pos)
	assert.Equal(t, []int{0}, m.Match(Tokenize("SMI")))
}

func nilIfEmpty(v []int) []int {
	if len(v) == 0 {
		return nil
	}
	return v
}

func TestIndexCandidates(t *testing.T) {
	x := NewIndex()
	x.Add("smile", 3)
	x.Add("small", 1)
	x.Add("smile", 3)
	x.Add("sad", 7)
	x.Add("grin", 2)

	assert.Equal(t, []int{1, 3, 7}, x.Candidates("sz"))
	assert.Equal(t, []int{2}, x.Candidates("g"))
	assert.Empty(t, x.Candidates("q"))
	assert.Nil(t, x.Candidates(""))
}
