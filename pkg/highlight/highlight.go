// Package highlight splits a description into bold and plain segments showing
// which characters the query terms matched.
package highlight

import (
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/emojiserve/pkg/match"
)

// Segment is a run of text sharing one highlight state.
type Segment struct {
	Text string `msgpack:"t" json:"text"`
	Bold bool   `msgpack:"b" json:"bold"`
}

// Build returns the segments of text for terms. Joining the segment texts
// always yields text. Offsets are bytes; every matched character is marked
// over its full encoded width.
//
// Words are located left to right, each searched from the end of the
// previous one, so a repeated word is only found at its next occurrence.
func Build(text string, terms []string) []Segment {
	if !hasTerms(terms) || text == "" {
		return []Segment{{Text: text}}
	}

	marked := make([]bool, len(text))
	cursor := 0
	for _, word := range strings.Fields(text) {
		at := strings.Index(text[cursor:], word)
		if at < 0 {
			continue
		}
		start := cursor + at
		cursor = start + len(word)

		for _, term := range terms {
			if term == "" {
				continue
			}
			positions, ok := match.Positions(term, word)
			if !ok {
				continue
			}
			for _, p := range positions {
				_, n := utf8.DecodeRuneInString(word[p:])
				for k := 0; k < n; k++ {
					marked[start+p+k] = true
				}
			}
		}
	}

	return coalesce(text, marked)
}

func hasTerms(terms []string) bool {
	for _, t := range terms {
		if t != "" {
			return true
		}
	}
	return false
}

func coalesce(text string, marked []bool) []Segment {
	var segments []Segment
	start := 0
	for i := 1; i <= len(text); i++ {
		if i == len(text) || marked[i] != marked[start] {
			segments = append(segments, Segment{Text: text[start:i], Bold: marked[start]})
			start = i
		}
	}
	return segments
}

// Join concatenates the segment texts.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
