// Package format implements noteweave's note normalizer: canonical
// frontmatter key order, tidy wiki-link syntax, and whitespace hygiene,
// applied independently and composably so "fmt --check" can report
// exactly which categories changed.
package format

import (
	"fmt"
	"sort"

	"github.com/noteweave/noteweave/internal/header"
	"github.com/noteweave/noteweave/internal/model"
)

// ChangeKind names a category of normalization that altered a note.
type ChangeKind string

const (
	ChangeFrontmatter ChangeKind = "frontmatter"
	ChangeLinks       ChangeKind = "links"
	ChangeWhitespace  ChangeKind = "whitespace"
)

// Options configures Format. A zero Options runs no stage: frontmatter
// and link normalization are off, keys are not sorted, and text hygiene
// is off (Wrap == 0, StripTrailing/EnsureFinalEOL false).
type Options struct {
	Frontmatter bool
	KeyOrder    []string // preferred leading keys, e.g. {"id", "core/title", "core/aliases"}
	SortKeys    bool

	Links   bool
	IDsOnly bool

	Text TextOptions
}

// DefaultOptions returns the normalizer's default configuration: every
// category enabled, canonical key order, trailing whitespace stripped,
// and a trailing newline enforced.
func DefaultOptions() Options {
	return Options{
		Frontmatter: true,
		KeyOrder:    []string{"id", "core/title", "core/aliases"},
		SortKeys:    true,
		Links:       true,
		Text: TextOptions{
			StripTrailing:  true,
			EnsureFinalEOL: true,
		},
	}
}

// Result is the outcome of formatting a single note.
type Result struct {
	NoteID    model.NoteID
	Changed   bool
	Changes   []ChangeKind
	Original  string
	Formatted string
}

// Format normalizes raw (a note's full file content, frontmatter
// included) according to opts, enforcing that the frontmatter's "id"
// field matches noteID. Frontmatter is normalized first, then links,
// then whitespace, each stage operating only on the body so the
// frontmatter block itself is never touched by link or text rules.
func Format(noteID model.NoteID, raw string, opts Options) (Result, error) {
	result := Result{NoteID: noteID, Original: raw, Formatted: raw}

	if opts.Frontmatter {
		normalized, err := normalizeFrontmatter(result.Formatted, noteID, opts.KeyOrder, opts.SortKeys)
		if err != nil {
			return result, fmt.Errorf("format: normalizing frontmatter: %w", err)
		}
		if normalized != result.Formatted {
			result.Changes = append(result.Changes, ChangeFrontmatter)
			result.Formatted = normalized
		}
	}

	if opts.Links {
		meta, keys, body, err := header.DecodeOrdered(result.Formatted)
		if err != nil {
			return result, fmt.Errorf("format: re-decoding for link pass: %w", err)
		}
		normalizedBody := NormalizeLinks(body, opts.IDsOnly)
		if normalizedBody != body {
			result.Changes = append(result.Changes, ChangeLinks)
		}
		rebuilt, err := header.EncodeOrdered(meta, keys, normalizedBody)
		if err != nil {
			return result, fmt.Errorf("format: re-encoding after link pass: %w", err)
		}
		result.Formatted = rebuilt
	}

	hygieneRequested := opts.Text.Wrap > 0 || opts.Text.EOL != EOLPreserve ||
		opts.Text.StripTrailing || opts.Text.EnsureFinalEOL
	if hygieneRequested {
		meta, keys, body, err := header.DecodeOrdered(result.Formatted)
		if err != nil {
			return result, fmt.Errorf("format: re-decoding for text pass: %w", err)
		}
		normalizedBody := NormalizeText(body, opts.Text)
		if normalizedBody != body {
			result.Changes = append(result.Changes, ChangeWhitespace)
		}
		rebuilt, err := header.EncodeOrdered(meta, keys, normalizedBody)
		if err != nil {
			return result, fmt.Errorf("format: re-encoding after text pass: %w", err)
		}
		result.Formatted = rebuilt
	}

	result.Changed = result.Formatted != result.Original
	return result, nil
}

// normalizeFrontmatter decodes raw's frontmatter (if any), forces its
// "id" key to noteID, reorders keys per keyOrder (optionally sorting
// the remainder), and re-encodes. A note with no frontmatter and no id
// to add is returned unchanged only if meta ends up empty.
func normalizeFrontmatter(raw, noteID string, keyOrder []string, sortKeys bool) (string, error) {
	meta, body, err := header.Decode(raw)
	if err != nil {
		return raw, nil
	}
	meta["id"] = noteID

	order := orderedKeys(meta, keyOrder, sortKeys)
	return header.EncodeOrdered(meta, order, body)
}

// orderedKeys places keyOrder's entries first (when present in meta),
// then every remaining key, sorted if sortKeys is set.
func orderedKeys(meta model.MetaBag, keyOrder []string, sortKeys bool) []string {
	seen := make(map[string]bool, len(meta))
	ordered := make([]string, 0, len(meta))
	for _, k := range keyOrder {
		if _, ok := meta[k]; ok {
			ordered = append(ordered, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range meta {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	if sortKeys {
		sort.Strings(rest)
	}
	return append(ordered, rest...)
}
