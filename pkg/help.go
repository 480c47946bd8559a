package pkg

import (
	"cmp"
	"slices"
)

// HelpEntry documents one externally overridable setting: a tool variable
// such as CC, or a configure option such as --enable-debug.
type HelpEntry struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Help is an ordered registry of help entries. Registering a name twice
// keeps the first entry.
type Help struct {
	entries []HelpEntry
	index   map[string]int
}

// Add registers an entry and reports whether it was new.
func (h *Help) Add(name, text string) bool {
	if h.index == nil {
		h.index = make(map[string]int)
	}

	if _, ok := h.index[name]; ok {
		return false
	}

	h.index[name] = len(h.entries)
	h.entries = append(h.entries, HelpEntry{Name: name, Text: text})

	return true
}

// Entries returns the registered entries in registration order.
func (h *Help) Entries() []HelpEntry { return slices.Clone(h.entries) }

// Sorted returns the registered entries ordered by name.
func (h *Help) Sorted() []HelpEntry {
	out := h.Entries()
	slices.SortFunc(out, func(a, b HelpEntry) int { return cmp.Compare(a.Name, b.Name) })

	return out
}
