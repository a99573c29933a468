// Package siteexport renders a vault to a flat static-site tree: one
// "<id>/index.md" per note with transclusions expanded and wiki links
// rewritten to site-relative paths, plus a graph.json sidecar.
package siteexport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/noteweave/noteweave/internal/index"
	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/slicer"
	"github.com/noteweave/noteweave/internal/vault"
)

// maxTransclusionDepth bounds recursive transclusion expansion so a
// cycle (A transcludes B transcludes A) terminates instead of looping
// forever.
const maxTransclusionDepth = 8

var (
	transRe = regexp.MustCompile(`!\[\[(.*?)\]\]`)
	linkRe  = regexp.MustCompile(`\[\[(.*?)\]\]`)
)

// titleLookup pulls a note's stored title out of graph, falling back to
// "" so callers can decide whether to inject an H1.
func titleLookup(graph index.GraphData, id model.NoteID) string {
	for _, n := range graph.Nodes {
		if n.ID == id {
			return n.Title
		}
	}
	return ""
}

// Export renders every note in v to outDir/<id>/index.md, substituting
// transclusions before links, and writes outDir/graph.json from idx's
// link graph. idx supplies both note titles (for H1 injection) and the
// graph.json payload, so the exported site and the durable index never
// disagree about the vault's shape.
func Export(v *vault.Vault, idx *index.Index, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("siteexport: creating output dir: %w", err)
	}

	graph, err := idx.GraphData()
	if err != nil {
		return fmt.Errorf("siteexport: loading graph data: %w", err)
	}

	ids, err := v.ListIDs()
	if err != nil {
		return fmt.Errorf("siteexport: listing vault: %w", err)
	}

	for _, id := range ids {
		note, err := v.Get(id)
		if err != nil || note == nil {
			continue
		}

		rendered := expandTransclusions(v, note.Body.Raw, 0, map[model.NoteID]bool{id: true})
		rendered = substituteLinks(rendered)

		title := titleLookup(graph, id)
		if title != "" && !strings.HasPrefix(rendered, "#") {
			rendered = fmt.Sprintf("# %s\n\n%s", title, rendered)
		}

		noteDir := filepath.Join(outDir, id)
		if err := os.MkdirAll(noteDir, 0o755); err != nil {
			return fmt.Errorf("siteexport: creating %s: %w", noteDir, err)
		}
		if err := os.WriteFile(filepath.Join(noteDir, "index.md"), []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("siteexport: writing %s: %w", id, err)
		}
	}

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("siteexport: marshaling graph.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "graph.json"), data, 0o644); err != nil {
		return fmt.Errorf("siteexport: writing graph.json: %w", err)
	}
	return nil
}

// expandTransclusions substitutes every `![[...]]` span in md with the
// sliced content of its target, recursing into the substituted text up
// to maxTransclusionDepth. visited tracks the chain of note ids already
// being expanded in the current recursion path, so a transclusion cycle
// is replaced with a notice instead of recursing forever.
func expandTransclusions(v *vault.Vault, md string, depth int, visited map[model.NoteID]bool) string {
	if depth >= maxTransclusionDepth {
		return md
	}

	return transRe.ReplaceAllStringFunc(md, func(match string) string {
		sub := transRe.FindStringSubmatch(match)
		spec := sub[1]
		core := strings.SplitN(spec, "|", 2)[0]

		var targetID string
		var anchor *model.Anchor
		if idx := strings.Index(core, "#^"); idx >= 0 {
			targetID = strings.TrimSpace(core[:idx])
			anchor = &model.Anchor{Kind: model.AnchorBlock, Value: strings.TrimSpace(core[idx+2:])}
		} else if idx := strings.IndexByte(core, '#'); idx >= 0 {
			targetID = strings.TrimSpace(core[:idx])
			anchor = &model.Anchor{Kind: model.AnchorHeading, Value: strings.TrimSpace(core[idx+1:])}
		} else {
			targetID = strings.TrimSpace(core)
		}

		if visited[targetID] {
			return fmt.Sprintf("> **noteweave:** transclusion cycle detected at `%s`\n", targetID)
		}

		target, err := v.Get(targetID)
		if err != nil || target == nil {
			return fmt.Sprintf("> **noteweave:** missing note `%s`\n", targetID)
		}

		rng := slicer.SliceByAnchor(target, anchor)
		if rng.Start == rng.End && anchor != nil {
			anchorRepr := anchor.Value
			if anchor.Kind == model.AnchorBlock {
				anchorRepr = "^" + anchorRepr
			}
			return fmt.Sprintf("> **noteweave:** missing anchor `%s#%s`\n", targetID, anchorRepr)
		}

		sliced := slicer.Extract(target.Body.Raw, rng)

		nextVisited := make(map[model.NoteID]bool, len(visited)+1)
		for k := range visited {
			nextVisited[k] = true
		}
		nextVisited[targetID] = true
		return expandTransclusions(v, sliced, depth+1, nextVisited)
	})
}

// substituteLinks rewrites every `[[id]]`, `[[id|Title]]`, `[[id#anchor]]`
// span into a site-relative Markdown link `[Title](/id/)`.
func substituteLinks(md string) string {
	return linkRe.ReplaceAllStringFunc(md, func(match string) string {
		sub := linkRe.FindStringSubmatch(match)
		spec := sub[1]
		parts := strings.SplitN(spec, "|", 2)
		core := strings.SplitN(parts[0], "#", 2)[0]
		title := core
		if len(parts) == 2 {
			title = parts[1]
		}
		return fmt.Sprintf("[%s](/%s/)", title, strings.TrimSpace(core))
	})
}
