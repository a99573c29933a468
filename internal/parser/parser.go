// Package parser extracts structural blocks, wiki-style links, and
// transclusions from a note's raw body text. It never requires or
// assumes any frontmatter schema.
package parser

import (
	"regexp"
	"strings"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/slug"
)

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	fenceRe       = regexp.MustCompile("^```")
	linkRe        = regexp.MustCompile(`(!?)\[\[([^\[\]]+)\]\]`)
	blockLabelRe  = regexp.MustCompile(`\s\^([A-Za-z0-9_-]+)\s*$`)
	fenceLabelRe  = regexp.MustCompile(`(?:^|\s)\^([A-Za-z0-9_-]+)`)
)

// fenceLabel returns the first whitespace-delimited token in a fence info
// string beginning with "^", or nil if none is present.
func fenceLabel(info string) *model.BlockLabel {
	if lm := fenceLabelRe.FindStringSubmatch(info); lm != nil {
		return &model.BlockLabel{Name: lm[1]}
	}
	return nil
}

// Parse scans body (frontmatter already stripped) and returns its
// structural decomposition. id is the owning note's id, stamped onto
// every Link produced.
func Parse(id model.NoteID, body string) model.NoteBody {
	runes := []rune(body)
	nb := model.NoteBody{Raw: body}

	nb.Blocks = parseBlocks(runes)
	nb.Links, nb.Transclusions = parseLinksAndTransclusions(id, runes)
	return nb
}

// parseBlocks performs a single top-to-bottom scan classifying headings,
// fenced code blocks and, for every other non-blank line, a paragraph
// block, and attaches "^label" block labels trailing any of those lines.
func parseBlocks(runes []rune) []model.Block {
	var blocks []model.Block
	lines := splitLinesWithOffsets(runes)

	inFence := false
	var fenceStart int
	var fenceInfo string

	for _, ln := range lines {
		text := string(runes[ln.start:ln.end])
		trimmed := strings.TrimRight(text, "\r\n")

		if fenceRe.MatchString(trimmed) {
			if !inFence {
				inFence = true
				fenceStart = ln.start
				fenceInfo = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			} else {
				inFence = false
				blocks = append(blocks, model.Block{
					Kind:      model.BlockFence,
					Range:     model.Range{Start: fenceStart, End: ln.end},
					FenceInfo: fenceInfo,
					Label:     fenceLabel(fenceInfo),
				})
			}
			continue
		}
		if inFence {
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			level := len(m[1])
			headingText := m[2]
			var label *model.BlockLabel
			if lm := blockLabelRe.FindStringSubmatch(headingText); lm != nil {
				label = &model.BlockLabel{Name: lm[1]}
				headingText = strings.TrimSpace(blockLabelRe.ReplaceAllString(headingText, ""))
			}
			blocks = append(blocks, model.Block{
				Kind:         model.BlockHeading,
				Range:        model.Range{Start: ln.start, End: ln.end},
				Label:        label,
				HeadingText:  headingText,
				HeadingLevel: level,
				HeadingSlug:  slug.Slugify(headingText),
			})
			continue
		}

		if trimmed == "" {
			continue
		}

		// Plain paragraph/other line; check for a trailing "^label" that
		// marks the preceding non-heading content as a labeled block.
		if lm := blockLabelRe.FindStringSubmatch(trimmed); lm != nil {
			blocks = append(blocks, model.Block{
				Kind:  model.BlockParagraph,
				Range: model.Range{Start: ln.start, End: ln.end},
				Label: &model.BlockLabel{Name: lm[1]},
			})
			continue
		}

		blocks = append(blocks, model.Block{
			Kind:  model.BlockParagraph,
			Range: model.Range{Start: ln.start, End: ln.end},
		})
	}

	if inFence {
		// Unterminated fence: close it at EOF rather than dropping it.
		blocks = append(blocks, model.Block{
			Kind:      model.BlockFence,
			Range:     model.Range{Start: fenceStart, End: len(runes)},
			FenceInfo: fenceInfo,
			Label:     fenceLabel(fenceInfo),
		})
	}

	return blocks
}

type lineSpan struct{ start, end int }

// splitLinesWithOffsets returns each line's [start,end) rune range,
// including its trailing newline, so block ranges line up with slicer
// expectations.
func splitLinesWithOffsets(runes []rune) []lineSpan {
	var spans []lineSpan
	start := 0
	for i, r := range runes {
		if r == '\n' {
			spans = append(spans, lineSpan{start, i + 1})
			start = i + 1
		}
	}
	if start < len(runes) {
		spans = append(spans, lineSpan{start, len(runes)})
	}
	return spans
}

// parseLinksAndTransclusions finds every `[[...]]` and `![[...]]` span in
// the body text and parses its target spec.
func parseLinksAndTransclusions(id model.NoteID, runes []rune) ([]model.Link, []model.Transclusion) {
	text := string(runes)
	var links []model.Link
	var transclusions []model.Transclusion

	for _, m := range linkRe.FindAllStringSubmatchIndex(text, -1) {
		bang := text[m[2]:m[3]]
		spec := text[m[4]:m[5]]
		startRune := utf8RuneIndex(text, m[0])
		endRune := utf8RuneIndex(text, m[1])
		target := parseTarget(spec)
		rng := model.Range{Start: startRune, End: endRune}

		if bang == "!" {
			transclusions = append(transclusions, model.Transclusion{Target: target, Range: rng})
		} else {
			links = append(links, model.Link{Source: id, Target: target, Range: rng})
		}
	}
	return links, transclusions
}

// utf8RuneIndex converts a byte offset into text to a rune offset.
func utf8RuneIndex(text string, byteOffset int) int {
	return len([]rune(text[:byteOffset]))
}

// parseTarget parses the inner content of a `[[...]]` span:
//
//	id
//	id#slug
//	id#^label
//	id|Title
//	rel:name|id|Title
func parseTarget(spec string) model.LinkTarget {
	var rel, title string
	core := spec

	parts := strings.Split(spec, "|")
	switch len(parts) {
	case 2:
		core, title = parts[0], parts[1]
	case 3:
		if strings.HasPrefix(parts[0], "rel:") {
			rel = strings.TrimPrefix(parts[0], "rel:")
			core, title = parts[1], parts[2]
		}
	}

	if idx := strings.Index(core, "#^"); idx >= 0 {
		return model.LinkTarget{
			ID:        strings.TrimSpace(core[:idx]),
			Anchor:    &model.Anchor{Kind: model.AnchorBlock, Value: strings.TrimSpace(core[idx+2:])},
			Rel:       rel,
			TitleText: title,
		}
	}
	if idx := strings.IndexByte(core, '#'); idx >= 0 {
		return model.LinkTarget{
			ID:        strings.TrimSpace(core[:idx]),
			Anchor:    &model.Anchor{Kind: model.AnchorHeading, Value: strings.TrimSpace(core[idx+1:])},
			Rel:       rel,
			TitleText: title,
		}
	}
	return model.LinkTarget{ID: strings.TrimSpace(core), Rel: rel, TitleText: title}
}
