package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/noteweave/noteweave/internal/header"
)

// PlanOptions configures BuildPlan.
type PlanOptions struct {
	IDStrategy IDStrategy
	IDBytes    int
	TitleKey   string
	AliasKeys  []string
}

func (o PlanOptions) withDefaults() PlanOptions {
	if o.IDStrategy == "" {
		o.IDStrategy = StrategyRandom
	}
	if o.IDBytes == 0 {
		o.IDBytes = 6
	}
	if o.TitleKey == "" {
		o.TitleKey = "core/title"
	}
	if len(o.AliasKeys) == 0 {
		o.AliasKeys = []string{"core/aliases", "aliases"}
	}
	return o
}

// BuildPlan scans every ".md" file under srcDir (recursively) and
// produces a Plan: a generated id, extracted title/aliases, and
// conflict status per file. Conflicting titles or aliases (duplicated
// across more than one file) mark every involved item as StatusConflict
// rather than silently picking a winner.
func BuildPlan(srcDir string, opts PlanOptions, generatedAt string) (Plan, error) {
	opts = opts.withDefaults()
	plan := Plan{
		Version:     1,
		GeneratedAt: generatedAt,
		Src:         srcDir,
		IDStrategy:  opts.IDStrategy,
		Conflicts:   map[string][]string{},
	}

	idGen := newIDGenerator(opts.IDStrategy, opts.IDBytes)
	usedIDs := map[string]bool{}
	titleToPaths := map[string][]string{}
	aliasToPaths := map[string][]string{}

	var files []string
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return plan, fmt.Errorf("importer: scanning %s: %w", srcDir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			rel = path
		}

		content, err := os.ReadFile(path)
		if err != nil {
			plan.Items = append(plan.Items, Item{Src: rel, Status: StatusError, Reason: fmt.Sprintf("failed to read: %v", err)})
			continue
		}

		title, aliases := extractMetadata(string(content), path, opts.TitleKey, opts.AliasKeys)

		var id string
		for attempt := 0; attempt < 100; attempt++ {
			candidate := idGen.Generate(path, content)
			if !usedIDs[candidate] {
				id = candidate
				break
			}
		}
		if id == "" {
			plan.Items = append(plan.Items, Item{Src: rel, Title: title, Aliases: aliases, Status: StatusError, Reason: "failed to generate unique id"})
			continue
		}
		usedIDs[id] = true

		titleToPaths[title] = append(titleToPaths[title], rel)
		for _, alias := range aliases {
			aliasToPaths[alias] = append(aliasToPaths[alias], rel)
		}

		plan.Items = append(plan.Items, Item{Src: rel, ID: id, Title: title, Aliases: aliases, Status: StatusOK})
	}

	markConflicts(&plan, titleToPaths, aliasToPaths)
	return plan, nil
}

func markConflicts(plan *Plan, titleToPaths, aliasToPaths map[string][]string) {
	for title, paths := range titleToPaths {
		if len(paths) <= 1 {
			continue
		}
		plan.Conflicts["title:"+title] = paths
		for i := range plan.Items {
			item := &plan.Items[i]
			if item.Title == title && contains(paths, item.Src) {
				item.Status = StatusConflict
				item.Reason = fmt.Sprintf("duplicate title: %q", title)
			}
		}
	}
	for alias, paths := range aliasToPaths {
		if len(paths) <= 1 {
			continue
		}
		plan.Conflicts["alias:"+alias] = paths
		for i := range plan.Items {
			item := &plan.Items[i]
			if contains(paths, item.Src) && contains(item.Aliases, alias) {
				item.Status = StatusConflict
				if item.Reason != "" {
					item.Reason += fmt.Sprintf("; duplicate alias: %q", alias)
				} else {
					item.Reason = fmt.Sprintf("duplicate alias: %q", alias)
				}
			}
		}
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// extractMetadata pulls a title and alias list out of content's
// frontmatter, falling back to the first H1 heading, then the first
// non-empty non-heading line, then the file's base name.
func extractMetadata(content, path, titleKey string, aliasKeys []string) (string, []string) {
	meta, body, err := header.Decode(content)
	var title string
	var aliases []string
	if err == nil {
		for _, key := range []string{titleKey, "title", "core/title"} {
			if t := meta.GetString(key); t != "" {
				title = t
				break
			}
		}
		for _, key := range aliasKeys {
			if a := meta.GetStringSlice(key); len(a) > 0 {
				aliases = a
				break
			}
		}
	} else {
		body = content
	}

	if title == "" {
		for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "# ") {
				title = strings.TrimSpace(strings.TrimPrefix(line, "#"))
				break
			}
			if !strings.HasPrefix(line, "#") {
				if len(line) > 100 {
					line = line[:100]
				}
				title = line
				break
			}
		}
	}

	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return title, aliases
}

// Now is a small indirection so tests can stamp a fixed GeneratedAt
// without this package ever calling time.Now() itself mid-algorithm.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
