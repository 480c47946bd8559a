// Package words implements the set-membership filters used to validate
// user-supplied word lists, such as the value of a --with option that
// accepts a space-separated selection.
//
// All functions are pure. Whitespace is the only delimiter, blank tokens are
// ignored and input slices are never modified.
package words

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Split breaks s into words at runs of whitespace.
func Split(s string) []string {
	return strings.Fields(s)
}

// Join is the inverse of [Split] for well-formed word lists.
func Join(w []string) string {
	return strings.Join(w, " ")
}

// NonMatching returns the candidates that are not in legal, keeping their
// order and any duplicates. If legal is empty, every candidate is returned.
func NonMatching(candidates, legal []string) []string {
	set := makeSet(legal)

	return filter(candidates, func(w string) bool {
		if len(set) == 0 {
			return true
		}

		_, ok := set[w]

		return !ok
	})
}

// Matching returns the candidates that are in illegal, keeping their order
// and any duplicates. If illegal is empty, nothing is returned.
func Matching(candidates, illegal []string) []string {
	set := makeSet(illegal)

	return filter(candidates, func(w string) bool {
		_, ok := set[w]

		return ok
	})
}

// Uniq returns the candidates sorted in ascending lexicographic order with
// duplicates removed.
func Uniq(candidates []string) []string {
	out := filter(candidates, func(string) bool { return true })
	slices.Sort(out)

	return slices.Compact(out)
}

// Suggest returns the words in legal that fuzzily match word, best match
// first. It returns nil when nothing matches.
func Suggest(word string, legal []string) []string {
	if word == "" || len(legal) == 0 {
		return nil
	}

	matches := fuzzy.Find(word, legal)
	if len(matches) == 0 {
		// Fuzzy matching is subsequence based; retry the other direction so
		// that an over-long misspelling still finds its stem.
		for _, l := range legal {
			if l != "" && len(fuzzy.Find(l, []string{word})) > 0 {
				matches = append(matches, fuzzy.Match{Str: l})
			}
		}
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out
}

func makeSet(w []string) map[string]struct{} {
	set := make(map[string]struct{}, len(w))

	for _, s := range w {
		for _, f := range strings.Fields(s) {
			set[f] = struct{}{}
		}
	}

	return set
}

// filter returns the words of in that satisfy keep. Each element may hold
// several whitespace-separated words.
func filter(in []string, keep func(string) bool) []string {
	out := make([]string, 0, len(in))

	for _, s := range in {
		for _, w := range strings.Fields(s) {
			if keep(w) {
				out = append(out, w)
			}
		}
	}

	return out
}
