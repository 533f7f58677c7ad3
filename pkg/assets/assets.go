// Package assets resolves the image shown next to an entry from its code.
package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Lookup returns the raw image bytes for a code, if any.
type Lookup interface {
	Image(code string) ([]byte, bool)
}

// None never has an image.
type None struct{}

func (None) Image(string) ([]byte, bool) { return nil, false }

// DirStore reads <Dir>/<code><Ext>.
type DirStore struct {
	Dir string
	Ext string
}

// NewDirStore returns a store over dir. ext defaults to ".png".
func NewDirStore(dir, ext string) *DirStore {
	if ext == "" {
		ext = ".png"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &DirStore{Dir: dir, Ext: ext}
}

func (s *DirStore) Image(code string) ([]byte, bool) {
	if code == "" || strings.ContainsAny(code, `/\`) || strings.Contains(code, "..") {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, code+s.Ext))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debugf("Reading image for %s: %v", code, err)
		}
		return nil, false
	}
	return data, true
}

type cached struct {
	data []byte
	ok   bool
}

// Cache memoizes another Lookup for the lifetime of a session. Misses are
// remembered too. It is not safe for concurrent use.
type Cache struct {
	src     Lookup
	entries map[string]cached
}

// NewCache wraps src. A nil src never has images.
func NewCache(src Lookup) *Cache {
	if src == nil {
		src = None{}
	}
	return &Cache{src: src, entries: make(map[string]cached)}
}

func (c *Cache) Image(code string) ([]byte, bool) {
	if e, ok := c.entries[code]; ok {
		return e.data, e.ok
	}
	data, ok := c.src.Image(code)
	c.entries[code] = cached{data: data, ok: ok}
	return data, ok
}

// Len reports how many codes have been resolved.
func (c *Cache) Len() int {
	return len(c.entries)
}
