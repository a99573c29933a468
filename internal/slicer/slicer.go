// Package slicer extracts a sub-range of a note's body text addressed by
// an optional anchor (block label or heading slug).
package slicer

import (
	"strings"

	"github.com/noteweave/noteweave/internal/model"
)

// FindLabel returns the block carrying the given "^label" name, or nil.
func FindLabel(note *model.Note, label string) *model.Block {
	for i := range note.Body.Blocks {
		b := &note.Body.Blocks[i]
		if b.Label != nil && b.Label.Name == label {
			return b
		}
	}
	return nil
}

// FindHeadingBySlug returns the heading block with the given slug, or
// nil.
func FindHeadingBySlug(note *model.Note, slug string) *model.Block {
	for i := range note.Body.Blocks {
		b := &note.Body.Blocks[i]
		if b.Kind == model.BlockHeading && b.HeadingSlug == slug {
			return b
		}
	}
	return nil
}

// SliceHeading returns the [start,end) rune range for a heading block:
// from the heading's own start to the start of the next heading at the
// same or higher level (lower or equal HeadingLevel number), or EOF.
func SliceHeading(note *model.Note, heading *model.Block) model.Range {
	if heading.Kind != model.BlockHeading {
		return heading.Range
	}
	start := heading.Range.Start
	level := heading.HeadingLevel

	found := false
	for i := range note.Body.Blocks {
		b := &note.Body.Blocks[i]
		if b == heading {
			found = true
			continue
		}
		if found && b.Kind == model.BlockHeading && b.HeadingLevel <= level {
			return model.Range{Start: start, End: b.Range.Start}
		}
	}
	return model.Range{Start: start, End: len([]rune(note.Body.Raw))}
}

// SliceBlock returns the range for block: heading-slice rules for
// headings, exact range otherwise.
func SliceBlock(note *model.Note, block *model.Block) model.Range {
	if block.Kind == model.BlockHeading {
		return SliceHeading(note, block)
	}
	return block.Range
}

// SliceByAnchor resolves anchor against note and returns the
// corresponding [start,end) rune range into note.Body.Raw:
//
//   - nil anchor: the entire body text; no frontmatter detection is done
//     here.
//   - block anchor: the labeled block's slice.
//   - heading anchor: the named heading's slice.
//
// An anchor that cannot be resolved yields an empty (0,0) range rather
// than an error; callers distinguish "not found" by checking Start==End.
func SliceByAnchor(note *model.Note, anchor *model.Anchor) model.Range {
	raw := note.Body.Raw
	if anchor == nil {
		return model.Range{Start: 0, End: len([]rune(raw))}
	}

	switch anchor.Kind {
	case model.AnchorBlock:
		b := FindLabel(note, anchor.Value)
		if b == nil {
			return model.Range{}
		}
		return SliceBlock(note, b)
	case model.AnchorHeading:
		b := FindHeadingBySlug(note, anchor.Value)
		if b == nil {
			return model.Range{}
		}
		return SliceHeading(note, b)
	default:
		return model.Range{}
	}
}

// Extract returns the text addressed by rng within raw, rng being
// expressed in rune offsets, with trailing newlines removed.
func Extract(raw string, rng model.Range) string {
	runes := []rune(raw)
	if rng.Start < 0 {
		rng.Start = 0
	}
	if rng.End > len(runes) {
		rng.End = len(runes)
	}
	if rng.Start >= rng.End {
		return ""
	}
	return strings.TrimRight(string(runes[rng.Start:rng.End]), "\n")
}
