/*
Package server exposes a search session over msgpack IPC on stdin/stdout.

Clients send one msgpack map per request. Every request names an action and,
for "input", the text typed:

	{"id": "k1", "a": "input", "x": "sm"}
	{"id": "k2", "a": "down"}
	{"id": "k3", "a": "commit"}

Actions mirror the session transitions: input, delete, clear, up, down,
commit and view (no-op, just render). health answers with a status.

Every accepted request is answered with the full render state: the typed
query, the selected index and up to five rows. Each row carries the glyph,
description, code, the highlight segments that rebuild the description and
the raw image bytes when an asset exists:

	{"id": "k1", "q": "sm", "i": 0, "n": 5, "t": 87,
	 "r": [{"g": "🙂", "d": "slightly smiling face", "c": "1f642",
	        "s": [{"t": "slightly ", "b": false}, {"t": "sm", "b": true}, ...]}]}

A commit reply additionally has "p" with the picked glyph and code.

Failed requests get {"id": ..., "e": "message", "c": 400}. The stream itself
never carries logs; those go to stderr.
*/
package server

import "github.com/bastiangx/emojiserve/pkg/highlight"

// Actions understood by the server.
const (
	ActionInput  = "input"
	ActionDelete = "delete"
	ActionClear  = "clear"
	ActionUp     = "up"
	ActionDown   = "down"
	ActionCommit = "commit"
	ActionView   = "view"
	ActionHealth = "health"
)

// Request is a single client message.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a"`
	Text   string `msgpack:"x,omitempty"`
}

// Row is one rendered result.
type Row struct {
	Glyph       string              `msgpack:"g"`
	Description string              `msgpack:"d"`
	Code        string              `msgpack:"c"`
	Segments    []highlight.Segment `msgpack:"s"`
	Image       []byte              `msgpack:"img,omitempty"`
}

// Picked identifies the entry a commit recorded.
type Picked struct {
	Glyph string `msgpack:"g"`
	Code  string `msgpack:"c"`
}

// ViewResponse is the render state after a request.
type ViewResponse struct {
	ID        string  `msgpack:"id"`
	Query     string  `msgpack:"q"`
	Selected  int     `msgpack:"i"`
	Rows      []Row   `msgpack:"r"`
	Count     int     `msgpack:"n"`
	Picked    *Picked `msgpack:"p,omitempty"`
	TimeTaken int64   `msgpack:"t"`
}

// StatusResponse answers readiness and health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
