package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/noteweave/noteweave/internal/model"
)

// renderCacheEntry mirrors a completed render alongside the width it was
// produced for, so a cached entry is used only at that same width.
type renderCacheEntry struct {
	width   int
	content string
}

// renderCache memoizes rendered note bodies by id, avoiding a repeat
// Glamour pass on every cursor move when width hasn't changed.
type renderCache struct {
	mu      sync.Mutex
	entries map[model.NoteID]renderCacheEntry
}

func newRenderCache() *renderCache {
	return &renderCache{entries: map[model.NoteID]renderCacheEntry{}}
}

func (c *renderCache) render(id model.NoteID, body string, width int) (string, error) {
	c.mu.Lock()
	if entry, ok := c.entries[id]; ok && entry.width == width {
		c.mu.Unlock()
		return entry.content, nil
	}
	c.mu.Unlock()

	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(glamourStyleOption(), glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(body)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[id] = renderCacheEntry{width: width, content: out}
	c.mu.Unlock()
	return out, nil
}

func (c *renderCache) invalidate(id model.NoteID) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// glamourStyleOption resolves the rendering style the same way the "show"
// command does: NOTEWEAVE_GLAMOUR_STYLE, then GLAMOUR_STYLE, then "dark".
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv("NOTEWEAVE_GLAMOUR_STYLE")))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	if style == "" {
		style = "dark"
	}
	if style == "auto" {
		return glamour.WithAutoStyle()
	}
	switch style {
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
