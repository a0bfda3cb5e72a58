// Package suggest ranks completion candidates against the fragment typed since the menu opened.
package suggest

// Match is one ranked entry: the index of the item in the original list and its score.
type Match struct {
	Index int
	Score int
}

// Item is what the ranker needs from each candidate.
type Item interface {
	FilterKey() string
	SortKey() string
}

// Ranker scores items against a query.
//
// Implementations must be monotone: every item matched by a query q+s must
// also be matched by q. The completion session relies on this to narrow the
// menu as the user types.
type Ranker interface {
	// Rank returns the matching subset, best first.
	Rank(items []Item, query string) []Match
}
