package catalog

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// searchIndex implements fuzzy.Source over the loaded collection.
type searchIndex []Summary

func newSearchIndex(items []Summary) searchIndex {
	return searchIndex(items)
}

// String returns the searchable string at index i
func (s searchIndex) String(i int) string {
	return s[i].Name
}

// Len returns the length of the collection
func (s searchIndex) Len() int {
	return len(s)
}

// match returns the entities whose names fuzzy-match query, best match
// first. Ties keep catalog order.
func (s searchIndex) match(query string) []Summary {
	if len(s) == 0 {
		return []Summary{}
	}

	matches := fuzzy.FindFrom(query, s)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	out := make([]Summary, 0, len(matches))
	for _, m := range matches {
		out = append(out, s[m.Index])
	}
	return out
}
