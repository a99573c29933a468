package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteweave/noteweave/internal/index"
	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/vault"
)

// Model holds the state of the read-only browse view: a list pane over
// every note in the index, a preview pane rendering the selected note's
// body, and a search popup that filters the list by title, id, or
// full-text match via the index.
type Model struct {
	idx *index.Index
	v   *vault.Vault

	entries  []entry
	visible  []entry
	cursor   int
	listOff  int
	viewport viewport.Model

	searching bool
	search    textinput.Model

	cache  *renderCache
	status string
	err    error

	width  int
	height int
}

// New builds a browse Model over idx/v. idx is queried once at startup
// for the full note list and again per keystroke while searching is
// active; v supplies raw note bodies for rendering.
func New(idx *index.Index, v *vault.Vault) (*Model, error) {
	entries, err := loadEntries(idx)
	if err != nil {
		return nil, err
	}

	search := textinput.New()
	search.Placeholder = "search notes..."
	search.Prompt = "/ "

	m := &Model{
		idx:      idx,
		v:        v,
		entries:  entries,
		visible:  entries,
		viewport: viewport.New(0, 0),
		search:   search,
		cache:    newRenderCache(),
		status:   fmt.Sprintf("%d notes · j/k move · / search · q quit", len(entries)),
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// selected returns the entry under the cursor, or nil if the list is empty.
func (m *Model) selected() *entry {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

func (m *Model) loadPreview() {
	e := m.selected()
	if e == nil {
		m.viewport.SetContent("")
		return
	}
	note, err := m.v.Get(e.ID)
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("error loading %s: %v", e.ID, err))
		return
	}
	if note == nil {
		m.viewport.SetContent(fmt.Sprintf("note not found: %s", e.ID))
		return
	}
	rendered, err := m.cache.render(e.ID, note.Body.Raw, m.viewport.Width)
	if err != nil {
		m.viewport.SetContent(note.Body.Raw)
		return
	}
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

func (m *Model) runSearchQuery() {
	query := m.search.Value()
	m.visible = filterEntries(m.entries, query)
	if query != "" {
		if ids, err := m.idx.Search(query, 50); err == nil {
			m.mergeFullTextHits(ids)
		}
	}
	m.cursor = 0
	m.listOff = 0
	m.loadPreview()
}

// mergeFullTextHits appends full-text search hits (by id, against idx's
// FTS table) that the plain title/id substring filter already missed, so
// search covers note bodies as well as their titles.
func (m *Model) mergeFullTextHits(ids []model.NoteID) {
	present := map[model.NoteID]bool{}
	for _, e := range m.visible {
		present[e.ID] = true
	}
	byID := map[model.NoteID]entry{}
	for _, e := range m.entries {
		byID[e.ID] = e
	}
	for _, id := range ids {
		if present[id] {
			continue
		}
		if e, ok := byID[id]; ok {
			m.visible = append(m.visible, e)
			present[id] = true
		}
	}
}
