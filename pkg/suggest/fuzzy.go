package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Bonus added on top of the fuzzy score when the filter key starts with the query.
const prefixMatchBonus = 40

// FuzzyRanker matches the query as a case-insensitive subsequence of each
// filter key. Exact prefix matches, found through a patricia trie, score higher.
// Ties keep sort key order, then the original order.
type FuzzyRanker struct {
	indexed []Item
	index   *prefixIndex
	history *History
}

// NewFuzzyRanker returns a ranker with an empty index; the index is built on first use.
// history may be nil.
func NewFuzzyRanker(history *History) *FuzzyRanker {
	return &FuzzyRanker{history: history}
}

// filterKeys lets fuzzy iterate the items without copying their keys.
type filterKeys []Item

func (k filterKeys) String(i int) string { return k[i].FilterKey() }
func (k filterKeys) Len() int            { return len(k) }

// Rank implements Ranker. An empty query matches every item.
func (r *FuzzyRanker) Rank(items []Item, query string) []Match {
	if len(items) == 0 {
		return nil
	}
	r.ensureIndex(items)

	var matches []Match
	if query == "" {
		matches = make([]Match, len(items))
		for i, item := range items {
			matches[i] = Match{Index: i, Score: r.history.Bonus(item.FilterKey())}
		}
	} else {
		prefixed := r.index.withPrefix(strings.ToLower(query))
		// unsorted results come back in item order, which the stable sort keeps for ties
		found := fuzzy.FindFromNoSort(query, filterKeys(items))
		matches = make([]Match, 0, len(found))
		for _, m := range found {
			score := m.Score
			if prefixed[m.Index] {
				score += prefixMatchBonus
			}
			score += r.history.Bonus(m.Str)
			matches = append(matches, Match{Index: m.Index, Score: score})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return items[matches[a].Index].SortKey() < items[matches[b].Index].SortKey()
	})
	return matches
}

func (r *FuzzyRanker) ensureIndex(items []Item) {
	if r.index != nil && len(r.indexed) == len(items) && &r.indexed[0] == &items[0] {
		return
	}
	r.indexed = items
	r.index = newPrefixIndex(items)
}

// Score reports whether pattern is a case-insensitive subsequence of candidate
// and the fuzzy score it gets, without the prefix and history bonuses.
func Score(pattern, candidate string) (int, bool) {
	if pattern == "" {
		return 0, true
	}
	found := fuzzy.Find(pattern, []string{candidate})
	if len(found) == 0 {
		return 0, false
	}
	return found[0].Score, true
}
