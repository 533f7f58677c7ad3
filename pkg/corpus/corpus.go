/*
Package corpus parses the static emoji table the engine searches.

Each row is a pipe-delimited string of three fields:

	😀| grinning face| 1f600

glyph, human readable description and a stable code. Rows that do not split
into at least three fields are kept (so positions stay stable) but marked
invalid; the matcher never returns them and renderers show them as empty
placeholders.
*/
package corpus

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Separator splits the fields of a corpus row.
const Separator = "| "

//go:embed emoji.txt
var defaultCorpus string

// Entry is one immutable corpus row.
type Entry struct {
	Raw         string
	Glyph       string
	Description string
	Code        string
	Valid       bool
}

// Parse splits a raw row into its fields.
func Parse(line string) Entry {
	fields := strings.Split(line, Separator)
	if len(fields) < 3 {
		return Entry{Raw: line}
	}
	return Entry{
		Raw:         line,
		Glyph:       fields[0],
		Description: fields[1],
		Code:        strings.TrimSpace(fields[2]),
		Valid:       true,
	}
}

// Load reads one entry per line. Blank lines are dropped, every other line is
// kept in order even when malformed.
func Load(r io.Reader) ([]Entry, error) {
	var entries []Entry
	invalid := 0

	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(line) != "" {
			e := Parse(line)
			if !e.Valid {
				invalid++
			}
			entries = append(entries, e)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading corpus: %w", err)
		}
	}

	if invalid > 0 {
		log.Debugf("Corpus has %d malformed rows out of %d", invalid, len(entries))
	}
	return entries, nil
}

// LoadFile loads a corpus from disk.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded corpus.
func Default() []Entry {
	entries, err := Load(strings.NewReader(defaultCorpus))
	if err != nil {
		log.Errorf("Failed to read embedded corpus: %v", err)
		return nil
	}
	return entries
}

// Descriptions returns the descriptions of valid entries, in order.
func Descriptions(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Valid {
			out = append(out, e.Description)
		}
	}
	return out
}
