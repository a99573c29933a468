package linkmigrate

import (
	"strings"
	"testing"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/resolver"
)

type fakeLookup struct {
	titles map[string][]model.NoteID
}

func (f fakeLookup) IDsByTitle(title string) ([]model.NoteID, error) {
	return f.titles[title], nil
}

func (f fakeLookup) IDsByAlias(alias string) ([]model.NoteID, error) {
	return nil, nil
}

type fakeExists struct {
	ids map[model.NoteID]bool
}

func (f fakeExists) Exists(id model.NoteID) (bool, error) {
	return f.ids[id], nil
}

func TestMigrateWikiLinksRewritesTitleLink(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"My Note": {"note1"}}}
	result := MigrateWikiLinks("See [[My Note]] for details.", lookup, resolver.ModeTitle, resolver.PreferTitle)

	if result.Changes != 1 {
		t.Fatalf("Changes = %d, want 1", result.Changes)
	}
	if !strings.Contains(result.Migrated, "[[note1]]") {
		t.Fatalf("Migrated = %q", result.Migrated)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestMigrateWikiLinksPreservesDisplayTextAndAnchor(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"My Note": {"note1"}}}
	result := MigrateWikiLinks("[[My Note#Section|Shown Text]]", lookup, resolver.ModeTitle, resolver.PreferTitle)

	want := "[[note1#Section|Shown Text]]"
	if result.Migrated != want {
		t.Fatalf("Migrated = %q, want %q", result.Migrated, want)
	}
}

func TestMigrateWikiLinksTransclusion(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"My Note": {"note1"}}}
	result := MigrateWikiLinks("![[My Note]]", lookup, resolver.ModeTitle, resolver.PreferTitle)

	if result.Migrated != "![[note1]]" {
		t.Fatalf("Migrated = %q", result.Migrated)
	}
}

func TestMigrateWikiLinksUnresolvedLeftVerbatim(t *testing.T) {
	lookup := fakeLookup{}
	result := MigrateWikiLinks("[[Missing Note]]", lookup, resolver.ModeTitle, resolver.PreferTitle)

	if result.Migrated != "[[Missing Note]]" {
		t.Fatalf("Migrated = %q, want unchanged", result.Migrated)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want 1 entry", result.Errors)
	}
	if result.Changes != 0 {
		t.Fatalf("Changes = %d, want 0 since content is unchanged", result.Changes)
	}
}

func TestMigrateWikiLinksNoLinksIsNoop(t *testing.T) {
	lookup := fakeLookup{}
	result := MigrateWikiLinks("Just plain text.", lookup, resolver.ModeTitle, resolver.PreferTitle)

	if result.Changes != 0 || result.Migrated != result.Original {
		t.Fatalf("expected no-op, got %+v", result)
	}
}

func TestMigratePathLinksRelativeToCurrentFile(t *testing.T) {
	exists := fakeExists{ids: map[model.NoteID]bool{"note2": true}}
	result := MigratePathLinks(
		"See [Other](note2.md) for details.",
		"/vault", "/vault/note1.md",
		exists,
	)
	if result.Migrated != "See [Other](note2) for details." {
		t.Fatalf("Migrated = %q", result.Migrated)
	}
	if result.Changes != 1 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestMigratePathLinksPreservesAnchor(t *testing.T) {
	exists := fakeExists{ids: map[model.NoteID]bool{"note2": true}}
	result := MigratePathLinks("[Other](note2.md#some-heading)", "/vault", "/vault/note1.md", exists)
	if result.Migrated != "[Other](note2#some-heading)" {
		t.Fatalf("Migrated = %q", result.Migrated)
	}
}

func TestMigratePathLinksAbsoluteFromVaultRoot(t *testing.T) {
	exists := fakeExists{ids: map[model.NoteID]bool{"note2": true}}
	result := MigratePathLinks("[Other](/note2.md)", "/vault", "/vault/sub/note1.md", exists)
	if result.Migrated != "[Other](note2)" {
		t.Fatalf("Migrated = %q", result.Migrated)
	}
}

func TestMigratePathLinksUnknownIDLeftVerbatim(t *testing.T) {
	exists := fakeExists{}
	result := MigratePathLinks("[Other](missing.md)", "/vault", "/vault/note1.md", exists)
	if result.Migrated != "[Other](missing.md)" {
		t.Fatalf("Migrated = %q, want unchanged", result.Migrated)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want 1 entry", result.Errors)
	}
}

func TestMigratePathLinksSkipsExternalAndNonMarkdown(t *testing.T) {
	exists := fakeExists{}
	content := "[Web](https://example.com) and [Image](pic.png)"
	result := MigratePathLinks(content, "/vault", "/vault/note1.md", exists)
	if result.Migrated != content {
		t.Fatalf("Migrated = %q, want unchanged", result.Migrated)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestMigrateFileLinksMixedAppliesBothPasses(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"My Note": {"note1"}}}
	exists := fakeExists{ids: map[model.NoteID]bool{"note2": true}}
	content := "[[My Note]] and [Other](note2.md)"

	result := MigrateFileLinks(content, "/vault", "/vault/note3.md", lookup, exists, FormatMixed, resolver.ModeTitle, resolver.PreferTitle)

	want := "[[note1]] and [Other](note2)"
	if result.Migrated != want {
		t.Fatalf("Migrated = %q, want %q", result.Migrated, want)
	}
	if result.Changes != 1 {
		t.Fatalf("Changes = %d, want 1", result.Changes)
	}
}

func TestMigrateFileLinksWikiOnlyIgnoresPathLinks(t *testing.T) {
	lookup := fakeLookup{titles: map[string][]model.NoteID{"My Note": {"note1"}}}
	exists := fakeExists{ids: map[model.NoteID]bool{"note2": true}}
	content := "[[My Note]] and [Other](note2.md)"

	result := MigrateFileLinks(content, "/vault", "/vault/note3.md", lookup, exists, FormatWiki, resolver.ModeTitle, resolver.PreferTitle)

	want := "[[note1]] and [Other](note2.md)"
	if result.Migrated != want {
		t.Fatalf("Migrated = %q, want %q", result.Migrated, want)
	}
}
