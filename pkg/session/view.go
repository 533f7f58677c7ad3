package session

import (
	"github.com/bastiangx/emojiserve/pkg/corpus"
	"github.com/bastiangx/emojiserve/pkg/highlight"
)

// Row is one displayed result.
type Row struct {
	Glyph       string
	Description string
	Code        string
	Segments    []highlight.Segment
	Image       []byte
	HasImage    bool
}

// View is everything a renderer needs for one frame.
type View struct {
	Query    string
	Selected int
	Rows     []Row
}

// View renders the current state. Malformed entries render as empty rows.
func (s *Session) View() View {
	v := View{
		Query:    s.Query(),
		Selected: s.selected,
		Rows:     make([]Row, 0, len(s.matches)),
	}
	for _, e := range s.matches {
		v.Rows = append(v.Rows, s.row(e))
	}
	return v
}

func (s *Session) row(e corpus.Entry) Row {
	if !e.Valid {
		return Row{Segments: highlight.Build("", nil)}
	}
	img, ok := s.images.Image(e.Code)
	return Row{
		Glyph:       e.Glyph,
		Description: e.Description,
		Code:        e.Code,
		Segments:    highlight.Build(e.Description, s.terms),
		Image:       img,
		HasImage:    ok,
	}
}
