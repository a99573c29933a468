package tui

import (
	"sort"
	"strings"

	"github.com/noteweave/noteweave/internal/index"
	"github.com/noteweave/noteweave/internal/model"
)

// entry is one row in the list pane: a note id paired with its display
// title (falling back to the id itself when the note has none).
type entry struct {
	ID    model.NoteID
	Title string
}

// loadEntries lists every note known to idx, sorted case-insensitively
// by title, falling back to id order for ties.
func loadEntries(idx *index.Index) ([]entry, error) {
	graph, err := idx.GraphData()
	if err != nil {
		return nil, err
	}
	entries := make([]entry, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		title := n.Title
		if title == "" {
			title = n.ID
		}
		entries = append(entries, entry{ID: n.ID, Title: title})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Title), strings.ToLower(entries[j].Title)
		if a == b {
			return entries[i].ID < entries[j].ID
		}
		return a < b
	})
	return entries, nil
}

func filterEntries(entries []entry, query string) []entry {
	if query == "" {
		return entries
	}
	query = strings.ToLower(query)
	var out []entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), query) || strings.Contains(strings.ToLower(string(e.ID)), query) {
			out = append(out, e)
		}
	}
	return out
}
