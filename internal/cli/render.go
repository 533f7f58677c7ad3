package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/emojiserve/internal/utils"
	"github.com/bastiangx/emojiserve/pkg/highlight"
	"github.com/bastiangx/emojiserve/pkg/session"
	"github.com/charmbracelet/lipgloss"
)

// descriptionWidth caps how much of a description is printed.
const descriptionWidth = 48

// Renderer formats a session view as text.
type Renderer struct {
	color  bool
	bold   lipgloss.Style
	cursor lipgloss.Style
	dim    lipgloss.Style
}

// NewRenderer returns a renderer. Without color, matched characters are
// wrapped in brackets instead of styled.
func NewRenderer(color bool) *Renderer {
	return &Renderer{
		color: color,
		bold: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		cursor: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ebbcba"}),
		dim: lipgloss.NewStyle().Faint(true),
	}
}

// Render prints every row, marking the selected one.
func (r *Renderer) Render(v session.View) string {
	var b strings.Builder
	if len(v.Rows) == 0 {
		b.WriteString("(no entries)\n")
		return b.String()
	}
	for i, row := range v.Rows {
		marker := "  "
		if i == v.Selected {
			marker = r.style(r.cursor, "› ")
		}
		code := r.style(r.dim, fmt.Sprintf("(%s)", row.Code))
		fmt.Fprintf(&b, "%s%d. %s  %s %s\n", marker, i+1, row.Glyph, r.Segments(row.Segments), code)
	}
	return b.String()
}

// Segments renders highlight segments, truncating long descriptions.
func (r *Renderer) Segments(segments []highlight.Segment) string {
	var b strings.Builder
	budget := descriptionWidth
	for _, s := range segments {
		if budget <= 0 {
			break
		}
		text := utils.Truncate(s.Text, budget)
		budget -= len([]rune(s.Text))
		if !s.Bold || text == "" {
			b.WriteString(text)
			continue
		}
		if r.color {
			b.WriteString(r.bold.Render(text))
		} else {
			b.WriteString("[" + text + "]")
		}
	}
	return b.String()
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}
