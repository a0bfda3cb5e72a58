package suggest

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// prefixIndex maps lowercase filter keys to the indices of the items carrying them.
type prefixIndex struct {
	trie *patricia.Trie
}

func newPrefixIndex(items []Item) *prefixIndex {
	trie := patricia.NewTrie()
	for i, item := range items {
		key := patricia.Prefix(strings.ToLower(item.FilterKey()))
		if existing := trie.Get(key); existing != nil {
			trie.Set(key, append(existing.([]int), i))
			continue
		}
		trie.Insert(key, []int{i})
	}
	return &prefixIndex{trie: trie}
}

// withPrefix returns the set of item indices whose filter key starts with lowerPrefix.
func (p *prefixIndex) withPrefix(lowerPrefix string) map[int]bool {
	hits := make(map[int]bool)
	err := p.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(_ patricia.Prefix, item patricia.Item) error {
		for _, i := range item.([]int) {
			hits[i] = true
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting prefix index: %v", err)
	}
	return hits
}
