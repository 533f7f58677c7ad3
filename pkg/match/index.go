package match

import (
	"sort"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index maps lowercased description words to the entries containing them.
// A term can only match words sharing its first character, so the words
// under that one-character prefix give a superset of its matches.
type Index struct {
	trie *patricia.Trie
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{trie: patricia.NewTrie()}
}

// Add records that entry i contains word.
func (x *Index) Add(word string, i int) {
	key := patricia.Prefix(word)
	if item := x.trie.Get(key); item != nil {
		ids := item.([]int)
		if ids[len(ids)-1] != i {
			x.trie.Set(key, append(ids, i))
		}
		return
	}
	x.trie.Insert(key, []int{i})
}

// Candidates returns the sorted, distinct entries having a word that starts
// with the first character of term.
func (x *Index) Candidates(term string) []int {
	if term == "" {
		return nil
	}
	_, n := utf8.DecodeRuneInString(term)

	seen := make(map[int]struct{})
	err := x.trie.VisitSubtree(patricia.Prefix(term[:n]), func(_ patricia.Prefix, item patricia.Item) error {
		for _, i := range item.([]int) {
			seen[i] = struct{}{}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting word index: %v", err)
		return nil
	}

	ids := make([]int, 0, len(seen))
	for i := range seen {
		ids = append(ids, i)
	}
	sort.Ints(ids)
	return ids
}
