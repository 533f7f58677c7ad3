/*
Package history is the append-only interaction log the ranking is derived from.

Every record is one JSON object per line, tagged by its type:

	{"type":"keystroke","ts":1718000000,"key":"s"}
	{"type":"select","ts":1718000003,"code":"1f600","query":"Sm"}

Keystrokes are write-only telemetry. Select records are read back as
Selections at session start and feed the frecency scorer.

Logging is best-effort: any I/O failure is logged at debug level and
swallowed, so an unwritable or missing history degrades to "no history".
*/
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const (
	TypeKeystroke = "keystroke"
	TypeSelect    = "select"
)

// maxLineSize bounds a single record when reading the log back. Longer
// lines are skipped.
const maxLineSize = 1024 * 1024

// Event is a record that can be appended to the log.
type Event interface {
	EventType() string
}

// KeystrokeEvent records raw input. It is never read back.
type KeystrokeEvent struct {
	Type string `json:"type"`
	TS   uint64 `json:"ts"`
	Key  string `json:"key"`
}

// SelectEvent records a committed pick.
type SelectEvent struct {
	Type  string `json:"type"`
	TS    uint64 `json:"ts"`
	Code  string `json:"code"`
	Query string `json:"query"`
}

func (KeystrokeEvent) EventType() string { return TypeKeystroke }
func (SelectEvent) EventType() string    { return TypeSelect }

// NewKeystroke builds a keystroke record.
func NewKeystroke(ts uint64, key string) KeystrokeEvent {
	return KeystrokeEvent{Type: TypeKeystroke, TS: ts, Key: key}
}

// NewSelect builds a select record. The query is stored as typed.
func NewSelect(ts uint64, code, query string) SelectEvent {
	return SelectEvent{Type: TypeSelect, TS: ts, Code: code, Query: query}
}

// Selection is a past pick as seen by the scorer. Query is always lowercase.
type Selection struct {
	Code      string
	Query     string
	Timestamp uint64
}

// PathFunc resolves the log file location. An error means no history.
type PathFunc func() (string, error)

// StaticPath returns a PathFunc that always resolves to path.
func StaticPath(path string) PathFunc {
	return func() (string, error) { return path, nil }
}

// DefaultPath resolves ~/.emojiserve/history.jsonl.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".emojiserve", "history.jsonl"), nil
}

// Log appends to and reads from a newline-delimited event file.
type Log struct {
	path PathFunc
}

// New creates a log at the location resolved by path.
// A nil path gives a log that records nothing.
func New(path PathFunc) *Log {
	return &Log{path: path}
}

func (l *Log) resolve() (string, bool) {
	if l == nil || l.path == nil {
		return "", false
	}
	p, err := l.path()
	if err != nil || p == "" {
		log.Debugf("History path unavailable: %v", err)
		return "", false
	}
	return p, true
}

// Append writes one record. Failures are logged and dropped.
func (l *Log) Append(ev Event) {
	path, ok := l.resolve()
	if !ok {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Debugf("Marshaling %s event: %v", ev.EventType(), err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Debugf("Creating history dir: %v", err)
		return
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Debugf("Opening history %s: %v", path, err)
		return
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		log.Debugf("Writing history %s: %v", path, err)
	}
}

// LoadSelections reads every select record back. Malformed lines and
// non-select records are skipped.
func (l *Log) LoadSelections() []Selection {
	path, ok := l.resolve()
	if !ok {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debugf("Opening history %s: %v", path, err)
		}
		return nil
	}
	defer f.Close()

	var selections []Selection
	skipped := 0

	r := bufio.NewReader(f)
	for {
		raw, err := r.ReadString('\n')
		line := strings.TrimSpace(raw)
		if len(raw) > maxLineSize {
			skipped++
		} else if line != "" {
			if sel, ok := parseSelection(line); ok {
				selections = append(selections, sel)
			} else {
				skipped++
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debugf("Reading history %s: %v", path, err)
			}
			break
		}
	}

	log.Debugf("Loaded %d selections (%d lines skipped)", len(selections), skipped)
	return selections
}

// parseSelection decodes a select record. Any other shape is rejected.
func parseSelection(line string) (Selection, bool) {
	if !gjson.Valid(line) {
		return Selection{}, false
	}
	rec := gjson.Parse(line)
	if !rec.IsObject() || rec.Get("type").String() != TypeSelect {
		return Selection{}, false
	}

	ts := rec.Get("ts")
	code := rec.Get("code")
	query := rec.Get("query")
	if ts.Type != gjson.Number || ts.Num < 0 || ts.Num != float64(uint64(ts.Num)) {
		return Selection{}, false
	}
	if code.Type != gjson.String || query.Type != gjson.String {
		return Selection{}, false
	}

	return Selection{
		Code:      code.String(),
		Query:     strings.ToLower(query.String()),
		Timestamp: ts.Uint(),
	}, true
}
