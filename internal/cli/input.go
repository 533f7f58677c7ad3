// Package cli is a line based front end over a search session, for debugging
// rankings and highlights without a GUI.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/match"
	"github.com/bastiangx/emojiserve/pkg/session"
	"github.com/charmbracelet/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// hintCount is how many closest descriptions are shown when nothing matches.
const hintCount = 3

// InputHandler reads queries and commands line by line.
//
// A plain line replaces the query. Commands start with ':':
//
//	:N  pick result N (1-based)
//	:d  delete the last character
//	:c  clear the query
//	:q  quit
//
// An empty line redraws the current results.
type InputHandler struct {
	session      *session.Session
	renderer     *Renderer
	descriptions []string
	out          io.Writer
}

// NewInputHandler creates a handler writing its output to out.
func NewInputHandler(s *session.Session, entries []corpus.Entry, out io.Writer, color bool) *InputHandler {
	return &InputHandler{
		session:      s,
		renderer:     NewRenderer(color),
		descriptions: corpus.Descriptions(entries),
		out:          out,
	}
}

// Start runs the loop until EOF or :q.
func (h *InputHandler) Start(in io.Reader) error {
	fmt.Fprintln(h.out, "emojiserve CLI: type to search, :N to pick, :q to quit")
	h.show()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if quit := h.handleLine(scanner.Text()); quit {
			return nil
		}
	}
}

// handleLine applies one line and reports whether to quit.
func (h *InputHandler) handleLine(line string) bool {
	line = strings.TrimRight(line, "\r\n")

	switch {
	case line == "":
	case line == ":q":
		return true
	case line == ":d":
		h.session.DeleteLast()
	case line == ":c":
		h.session.Clear()
	case strings.HasPrefix(line, ":"):
		h.pick(line[1:])
		return false
	default:
		h.session.Clear()
		h.session.Input(line)
	}
	h.show()
	return false
}

func (h *InputHandler) pick(arg string) {
	n, err := strconv.Atoi(arg)
	matches := h.session.Matches()
	if err != nil || n < 1 || n > len(matches) {
		log.Warnf("No result %q to pick (have %d)", arg, len(matches))
		return
	}

	for h.session.Selected() > n-1 {
		h.session.MoveUp()
	}
	for h.session.Selected() < n-1 {
		h.session.MoveDown()
	}

	e, ok := h.session.Commit()
	if !ok {
		log.Warnf("Result %d cannot be picked", n)
		return
	}
	fmt.Fprintf(h.out, "picked %s  %s (%s)\n", e.Glyph, e.Description, e.Code)
}

func (h *InputHandler) show() {
	v := h.session.View()
	fmt.Fprint(h.out, h.renderer.Render(v))

	if hints := h.hints(); len(hints) > 0 {
		fmt.Fprintf(h.out, "no match for '%s', closest: %s\n", v.Query, strings.Join(hints, ", "))
	}
}

// hints returns the closest descriptions when the query matched nothing and
// the results are the default view.
func (h *InputHandler) hints() []string {
	terms := h.session.Terms()
	if len(terms) == 0 {
		return nil
	}
	for _, e := range h.session.Matches() {
		if match.EntryMatchesTerms(e, terms) {
			return nil
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(strings.Join(terms, ""), h.descriptions)
	sort.Sort(ranks)

	var out []string
	for _, r := range ranks {
		if len(out) == hintCount {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
