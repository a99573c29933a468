// Package linkmigrate rewrites title/alias-addressed wiki links and
// relative Markdown-path links into id-addressed links, using the
// resolver's ambiguity rules for the former and a known-id check for the
// latter. Links that cannot be resolved are left verbatim and reported
// rather than dropped silently.
package linkmigrate

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/resolver"
	"github.com/noteweave/noteweave/internal/vault"
)

var (
	wikiLinkRe = regexp.MustCompile(`(!?)\[\[([^\]]+?)\]\]`)
	mdLinkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

var externalSchemes = []string{"http://", "https://", "mailto:", "ftp://"}

// Format selects which link syntaxes MigrateFileLinks rewrites.
type Format string

const (
	FormatWiki  Format = "wiki"
	FormatPath  Format = "path"
	FormatMixed Format = "mixed"
)

// Result is the outcome of migrating one note's links.
type Result struct {
	Original string
	Migrated string
	Changes  int
	Errors   []string
}

// IDExists is the minimal query surface needed to verify that a
// path-style link's resolved filename stem names a known note.
// *index.Index implements it.
type IDExists interface {
	Exists(id model.NoteID) (bool, error)
}

// MigrateWikiLinks rewrites every `[[Title]]`, `[[Title|Display]]`,
// `[[Title#Anchor]]`, and their `![[...]]` transclusion counterparts in
// content, resolving Title/Anchor text through lookup. Links that fail
// to resolve are left verbatim and reported in the returned errors.
func MigrateWikiLinks(content string, lookup resolver.Lookup, mode resolver.Mode, prefer resolver.Prefer) Result {
	var errs []string

	migrated := wikiLinkRe.ReplaceAllStringFunc(content, func(match string) string {
		sub := wikiLinkRe.FindStringSubmatch(match)
		transclude, inner := sub[1], sub[2]

		var displayText string
		targetPart := inner
		if idx := strings.Index(inner, "|"); idx >= 0 {
			targetPart, displayText = inner[:idx], inner[idx+1:]
		}

		var anchor string
		titlePart := targetPart
		if idx := strings.Index(targetPart, "#"); idx >= 0 {
			titlePart, anchor = targetPart[:idx], targetPart[idx+1:]
		}

		titlePart = strings.TrimSpace(titlePart)
		id, err := resolver.Resolve(lookup, titlePart, mode, prefer)
		if err != nil {
			errs = append(errs, "could not resolve: '"+titlePart+"'")
			return match
		}

		newInner := id
		if anchor != "" {
			newInner += "#" + anchor
		}
		if displayText != "" {
			newInner += "|" + displayText
		}
		return transclude + "[[" + newInner + "]]"
	})

	changes := 0
	if migrated != content {
		changes = 1
	}
	return Result{Original: content, Migrated: migrated, Changes: changes, Errors: errs}
}

// MigratePathLinks rewrites Markdown-style `[text](relative/path.md)` and
// `[text](relative/path.md#anchor)` links into `[text](id)` /
// `[text](id#anchor)`. A path starting with "/" resolves relative to
// vaultRoot; any other path resolves relative to the directory containing
// currentFile. The resolved filename's stem is accepted as an id only
// once exists confirms it names a known note; otherwise the link is left
// verbatim and reported. External links (http(s)://, mailto:, ftp://) and
// targets that are not ".md" files are never rewritten.
func MigratePathLinks(content, vaultRoot, currentFile string, exists IDExists) Result {
	var errs []string

	migrated := mdLinkRe.ReplaceAllStringFunc(content, func(match string) string {
		sub := mdLinkRe.FindStringSubmatch(match)
		text, target := sub[1], sub[2]

		for _, scheme := range externalSchemes {
			if strings.HasPrefix(target, scheme) {
				return match
			}
		}

		pathPart := target
		var anchor string
		if i := strings.Index(target, "#"); i >= 0 {
			pathPart, anchor = target[:i], target[i+1:]
		}
		if filepath.Ext(pathPart) != vault.Extension {
			return match
		}

		var resolved string
		if strings.HasPrefix(pathPart, "/") {
			resolved = filepath.Join(vaultRoot, strings.TrimPrefix(pathPart, "/"))
		} else {
			resolved = filepath.Join(filepath.Dir(currentFile), pathPart)
		}
		id := model.NoteID(strings.TrimSuffix(filepath.Base(resolved), vault.Extension))

		ok, err := exists.Exists(id)
		if err != nil {
			errs = append(errs, "checking "+string(id)+": "+err.Error())
			return match
		}
		if !ok {
			errs = append(errs, "note id not found: "+string(id)+" (from path: "+pathPart+")")
			return match
		}

		newTarget := string(id)
		if anchor != "" {
			newTarget += "#" + anchor
		}
		return "[" + text + "](" + newTarget + ")"
	})

	changes := 0
	if migrated != content {
		changes = 1
	}
	return Result{Original: content, Migrated: migrated, Changes: changes, Errors: errs}
}

// MigrateFileLinks runs the wiki-link pass, the path-link pass, or both
// (per format) over one note's content and merges their results, mirroring
// the reference implementation's from_format dispatch in
// migrate_file_links.
func MigrateFileLinks(
	content, vaultRoot, currentFile string,
	lookup resolver.Lookup, exists IDExists,
	format Format, mode resolver.Mode, prefer resolver.Prefer,
) Result {
	original := content
	var errs []string

	if format == FormatWiki || format == FormatMixed {
		r := MigrateWikiLinks(content, lookup, mode, prefer)
		content = r.Migrated
		errs = append(errs, r.Errors...)
	}
	if format == FormatPath || format == FormatMixed {
		r := MigratePathLinks(content, vaultRoot, currentFile, exists)
		content = r.Migrated
		errs = append(errs, r.Errors...)
	}

	changes := 0
	if content != original {
		changes = 1
	}
	return Result{Original: original, Migrated: content, Changes: changes, Errors: errs}
}
