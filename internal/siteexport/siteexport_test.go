package siteexport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noteweave/noteweave/internal/index"
	"github.com/noteweave/noteweave/internal/vault"
)

func buildVaultAndIndex(t *testing.T) (*vault.Vault, *index.Index) {
	t.Helper()
	dir := t.TempDir()
	v, err := vault.New(filepath.Join(dir, "vault"))
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}

	notes := map[string]string{
		"note1": "---\nid: note1\ntitle: First Note\n---\nSee [[note2|Second]].\n\n![[note2]]\n",
		"note2": "---\nid: note2\ntitle: Second Note\n---\n# Section\nSome transcluded prose.\n",
	}
	for id, content := range notes {
		if err := v.WriteRaw(id, content); err != nil {
			t.Fatalf("WriteRaw %s: %v", id, err)
		}
	}

	idx, err := index.Open(filepath.Join(dir, "index.sqlite"), v, index.Options{})
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	return v, idx
}

func TestExportWritesPerNoteIndexAndGraph(t *testing.T) {
	v, idx := buildVaultAndIndex(t)
	outDir := t.TempDir()

	if err := Export(v, idx, outDir); err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, id := range []string{"note1", "note2"} {
		path := filepath.Join(outDir, id, "index.md")
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}

	graphPath := filepath.Join(outDir, "graph.json")
	data, err := os.ReadFile(graphPath)
	if err != nil {
		t.Fatalf("reading graph.json: %v", err)
	}
	var graph index.GraphData
	if err := json.Unmarshal(data, &graph); err != nil {
		t.Fatalf("unmarshal graph.json: %v", err)
	}
	if len(graph.Nodes) != 2 {
		t.Fatalf("Nodes = %d, want 2", len(graph.Nodes))
	}
}

func TestExportSubstitutesLinksAndExpandsTransclusions(t *testing.T) {
	v, idx := buildVaultAndIndex(t)
	outDir := t.TempDir()

	if err := Export(v, idx, outDir); err != nil {
		t.Fatalf("Export: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outDir, "note1", "index.md"))
	if err != nil {
		t.Fatalf("reading note1/index.md: %v", err)
	}
	rendered := string(content)

	if !strings.Contains(rendered, "[Second](/note2/)") {
		t.Fatalf("expected link substitution, got %q", rendered)
	}
	if !strings.Contains(rendered, "Some transcluded prose.") {
		t.Fatalf("expected transcluded content, got %q", rendered)
	}
	if strings.Contains(rendered, "![[") || strings.Contains(rendered, "[[") {
		t.Fatalf("expected no remaining wiki syntax, got %q", rendered)
	}
}

func TestExportInjectsH1FromTitleWhenMissing(t *testing.T) {
	v, idx := buildVaultAndIndex(t)
	outDir := t.TempDir()

	if err := Export(v, idx, outDir); err != nil {
		t.Fatalf("Export: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outDir, "note1", "index.md"))
	if err != nil {
		t.Fatalf("reading note1/index.md: %v", err)
	}
	if !strings.HasPrefix(string(content), "# First Note") {
		t.Fatalf("expected injected H1, got %q", string(content))
	}
}

func TestExpandTransclusionsDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	v, err := vault.New(dir)
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	if err := v.WriteRaw("a", "---\nid: a\n---\n![[b]]\n"); err != nil {
		t.Fatalf("WriteRaw a: %v", err)
	}
	if err := v.WriteRaw("b", "---\nid: b\n---\n![[a]]\n"); err != nil {
		t.Fatalf("WriteRaw b: %v", err)
	}

	note, err := v.Get("a")
	if err != nil || note == nil {
		t.Fatalf("Get a: %v", err)
	}

	rendered := expandTransclusions(v, note.Body.Raw, 0, map[string]bool{"a": true})
	if !strings.Contains(rendered, "transclusion cycle detected") {
		t.Fatalf("expected cycle notice, got %q", rendered)
	}
}

func TestExpandTransclusionsMissingNote(t *testing.T) {
	dir := t.TempDir()
	v, err := vault.New(dir)
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}

	rendered := expandTransclusions(v, "![[missing]]", 0, map[string]bool{})
	if !strings.Contains(rendered, "missing note `missing`") {
		t.Fatalf("expected missing-note notice, got %q", rendered)
	}
}

func TestSubstituteLinksRewritesToSiteRelativePaths(t *testing.T) {
	in := "See [[note2|Second]] and [[note3]]."
	want := "See [Second](/note2/) and [note3](/note3/)."
	if got := substituteLinks(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
