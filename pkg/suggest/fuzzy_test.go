package suggest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	filter string
	sort   string
}

func (i testItem) FilterKey() string { return i.filter }

func (i testItem) SortKey() string {
	if i.sort != "" {
		return i.sort
	}
	return i.filter
}

func items(keys ...string) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		out[i] = testItem{filter: k}
	}
	return out
}

func labels(all []Item, matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = all[m.Index].FilterKey()
	}
	return out
}

func TestScoreSubsequence(t *testing.T) {
	testCases := []struct {
		pattern   string
		candidate string
		matched   bool
	}{
		{"", "anything", true},
		{"pl", "println", true},
		{"PRN", "println", true},
		{"fmtp", "fmt.Printf", true},
		{"xyz", "println", false},
		{"printlnx", "println", false},
		{"é", "café", true},
	}
	for _, tc := range testCases {
		t.Run(tc.pattern+"→"+tc.candidate, func(t *testing.T) {
			_, ok := Score(tc.pattern, tc.candidate)
			assert.Equal(t, tc.matched, ok)
		})
	}
}

func TestScorePrefersBoundaries(t *testing.T) {
	camel, ok := Score("gb", "getBuffer")
	require.True(t, ok)
	buried, ok := Score("gb", "ringbuffer")
	require.True(t, ok)
	assert.Greater(t, camel, buried)
}

func TestRankOrdering(t *testing.T) {
	all := items("toString", "to_string", "string", "str")
	ranker := NewFuzzyRanker(nil)

	got := labels(all, ranker.Rank(all, "str"))
	require.Len(t, got, 4)
	assert.Equal(t, "str", got[0], "exact prefix and shortest key first")
	assert.Equal(t, "string", got[1])
}

// The trie prefix bonus and history bonus are added on top of the fuzzy score.
func TestRankBonusesOnTopOfFuzzyScore(t *testing.T) {
	all := items("string", "a_string")
	history := NewHistory(4)
	ranker := NewFuzzyRanker(history)

	prefixed, ok := Score("str", "string")
	require.True(t, ok)
	inner, ok := Score("str", "a_string")
	require.True(t, ok)

	matches := ranker.Rank(all, "str")
	require.Len(t, matches, 2)
	assert.Equal(t, Match{Index: 0, Score: prefixed + prefixMatchBonus}, matches[0])
	assert.Equal(t, Match{Index: 1, Score: inner}, matches[1])

	history.Record("a_string")
	matches = ranker.Rank(all, "str")
	assert.Equal(t, Match{Index: 1, Score: inner + historyMatchBonus}, matches[1])
}

func TestRankEmptyQueryKeepsSortOrder(t *testing.T) {
	all := []Item{
		testItem{filter: "b", sort: "2"},
		testItem{filter: "a", sort: "3"},
		testItem{filter: "c", sort: "1"},
	}
	got := labels(all, NewFuzzyRanker(nil).Rank(all, ""))
	assert.Equal(t, []string{"c", "b", "a"}, got)
}

func TestRankTiesKeepOriginalOrder(t *testing.T) {
	all := []Item{
		testItem{filter: "foo", sort: "x"},
		testItem{filter: "foo", sort: "x"},
		testItem{filter: "foo", sort: "x"},
	}
	matches := NewFuzzyRanker(nil).Rank(all, "f")
	require.Len(t, matches, 3)
	for i, m := range matches {
		assert.Equal(t, i, m.Index)
	}
}

// Every item matched by a longer fragment must be matched by each shorter one.
func TestRankMonotone(t *testing.T) {
	all := items("println!", "print!", "eprintln!", "format!", "panic!", "write!", "writeln!", "vec!", "Printf", "sprint")
	ranker := NewFuzzyRanker(nil)
	typed := "println"
	for n := 1; n < len(typed); n++ {
		shorter := indexSet(ranker.Rank(all, typed[:n]))
		longer := indexSet(ranker.Rank(all, typed[:n+1]))
		for i := range longer {
			assert.True(t, shorter[i], "%q matched by %q but not %q", all[i].FilterKey(), typed[:n+1], typed[:n])
		}
	}
}

func TestRankHistoryBonus(t *testing.T) {
	all := items("format", "fortune")
	history := NewHistory(8)
	ranker := NewFuzzyRanker(history)

	assert.Equal(t, "format", labels(all, ranker.Rank(all, "for"))[0])
	history.Record("fortune")
	assert.Equal(t, "fortune", labels(all, ranker.Rank(all, "for"))[0])
}

func TestHistoryEviction(t *testing.T) {
	history := NewHistory(2)
	history.Record("a")
	history.Record("b")
	history.Record("a")
	history.Record("c")

	assert.Equal(t, 2, history.Len())
	assert.Positive(t, history.Bonus("a"))
	assert.Zero(t, history.Bonus("b"), "least recently used key is evicted")
	assert.Positive(t, history.Bonus("c"))

	var nilHistory *History
	assert.Zero(t, nilHistory.Bonus("a"))
}

func TestRankRebuildsIndexForNewItems(t *testing.T) {
	ranker := NewFuzzyRanker(nil)
	first := items("alpha", "beta")
	require.Len(t, ranker.Rank(first, "al"), 1)

	second := items("alpaca", "albatross", "gamma")
	assert.Len(t, ranker.Rank(second, "al"), 2)
}

func indexSet(matches []Match) map[int]bool {
	out := make(map[int]bool, len(matches))
	for _, m := range matches {
		out[m.Index] = true
	}
	return out
}

// 1000 candidates, short fragments
func BenchmarkRank(b *testing.B) {
	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = fmt.Sprintf("identifier_%d_%s", i, strings.Repeat("x", i%7))
	}
	all := items(keys...)
	ranker := NewFuzzyRanker(nil)
	queries := []string{"i", "id", "ide1", "ident_9", "x"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ranker.Rank(all, queries[i%len(queries)])
	}
}
