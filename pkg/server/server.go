package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/emojiserve/internal/logger"
	"github.com/bastiangx/emojiserve/pkg/session"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server drives one session from a request stream.
type Server struct {
	session      *session.Session
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server reading requests from r and writing replies to w.
func NewServer(s *session.Session, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		session: s,
		decoder: msgpack.NewDecoder(r),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		logger:  logger.New("ipc"),
	}
}

// Start announces readiness and serves requests until the stream ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	s.send(StatusResponse{Status: "ready"})

	for {
		var frame msgpack.RawMessage
		if err := s.decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Client disconnected", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			return fmt.Errorf("decoding request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(frame, &req); err != nil {
			s.logger.Warnf("Invalid request: %v", err)
			s.sendError(frameID(frame), "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(req)
	}
}

// frameID recovers the request id from a frame that failed to decode, if any.
func frameID(frame msgpack.RawMessage) string {
	var fields map[string]interface{}
	if err := msgpack.Unmarshal(frame, &fields); err != nil {
		return ""
	}
	id, _ := fields["id"].(string)
	return id
}

// handleRequest applies one action to the session and replies.
func (s *Server) handleRequest(req Request) {
	s.requestCount++
	start := time.Now()

	var picked *Picked
	switch req.Action {
	case ActionInput:
		if req.Text == "" {
			s.sendError(req.ID, "Missing 'x' parameter", 400)
			return
		}
		s.session.Input(req.Text)
	case ActionDelete:
		s.session.DeleteLast()
	case ActionClear:
		s.session.Clear()
	case ActionUp:
		s.session.MoveUp()
	case ActionDown:
		s.session.MoveDown()
	case ActionCommit:
		e, ok := s.session.Commit()
		if !ok {
			s.sendError(req.ID, "Nothing to commit", 404)
			return
		}
		picked = &Picked{Glyph: e.Glyph, Code: e.Code}
	case ActionView:
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
		return
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
		return
	}

	resp := buildView(req.ID, s.session.View())
	resp.Picked = picked
	resp.TimeTaken = time.Since(start).Microseconds()
	s.logger.Debugf("Took [ %dµs ] for %s, query '%s'", resp.TimeTaken, req.Action, resp.Query)
	s.send(resp)
}

func buildView(id string, v session.View) ViewResponse {
	rows := make([]Row, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = Row{
			Glyph:       r.Glyph,
			Description: r.Description,
			Code:        r.Code,
			Segments:    r.Segments,
			Image:       r.Image,
		}
	}
	return ViewResponse{
		ID:       id,
		Query:    v.Query,
		Selected: v.Selected,
		Rows:     rows,
		Count:    len(rows),
	}
}

// send encodes one reply and flushes it.
func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Flushing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.logger.Debug("Request failed", "id", id, "error", message)
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
