package index

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/noteweave/noteweave/internal/vault"
)

func newTestIndex(t *testing.T) (*Index, *vault.Vault) {
	t.Helper()
	dir := t.TempDir()
	v, err := vault.New(filepath.Join(dir, "vault"))
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}

	note1 := "---\nid: note1\ntitle: First Note\ncore/aliases:\n  - first\n---\n# First Note\nSee [[note2|Second]].\n"
	note2 := "---\nid: note2\ntitle: Second Note\n---\n# Second Note\nNo links here, just prose about gophers.\n"
	note3 := "---\nid: note3\ntitle: Orphan Note\n---\nNothing links to or from this one.\n"

	if err := v.WriteRaw("note1", note1); err != nil {
		t.Fatalf("WriteRaw note1: %v", err)
	}
	if err := v.WriteRaw("note2", note2); err != nil {
		t.Fatalf("WriteRaw note2: %v", err)
	}
	if err := v.WriteRaw("note3", note3); err != nil {
		t.Fatalf("WriteRaw note3: %v", err)
	}

	idx, err := Open(filepath.Join(dir, "index.sqlite"), v, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	return idx, v
}

func TestRebuildFullIndexesAllNotes(t *testing.T) {
	idx, _ := newTestIndex(t)

	counts, err := idx.Rebuild(true, true)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if counts.Scanned != 3 {
		t.Fatalf("Scanned = %d, want 3", counts.Scanned)
	}
	if counts.Inserted != 3 {
		t.Fatalf("Inserted = %d, want 3", counts.Inserted)
	}
	if counts.Failed != 0 {
		t.Fatalf("Failed = %d, want 0", counts.Failed)
	}
}

func TestRebuildIncrementalSkipsUnchanged(t *testing.T) {
	idx, _ := newTestIndex(t)

	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("initial Rebuild: %v", err)
	}

	counts, err := idx.Rebuild(false, true)
	if err != nil {
		t.Fatalf("second Rebuild: %v", err)
	}
	if counts.Dirty != 0 {
		t.Fatalf("expected no dirty notes on unchanged rebuild, got %d", counts.Dirty)
	}
}

func TestRebuildRemovesDeletedNotes(t *testing.T) {
	idx, v := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if err := v.Delete("note3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	counts, err := idx.Rebuild(false, true)
	if err != nil {
		t.Fatalf("Rebuild after delete: %v", err)
	}
	if counts.Removed != 1 {
		t.Fatalf("Removed = %d, want 1", counts.Removed)
	}

	ids, err := idx.IDsByTitle("Orphan Note")
	if err != nil {
		t.Fatalf("IDsByTitle: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected deleted note gone from index, got %v", ids)
	}
}

func TestUpdateNotesTargetedChange(t *testing.T) {
	idx, v := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	updated := "---\nid: note2\ntitle: Second Note Renamed\n---\n# Second Note Renamed\nStill about gophers.\n"
	if err := v.WriteRaw("note2", updated); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	counts, err := idx.UpdateNotes([]string{"note2"}, nil)
	if err != nil {
		t.Fatalf("UpdateNotes: %v", err)
	}
	if counts.Updated != 1 {
		t.Fatalf("Updated = %d, want 1", counts.Updated)
	}

	ids, err := idx.IDsByTitle("Second Note Renamed")
	if err != nil {
		t.Fatalf("IDsByTitle: %v", err)
	}
	if len(ids) != 1 || ids[0] != "note2" {
		t.Fatalf("IDsByTitle = %v", ids)
	}
}

func TestUpdateNotesHandlesDeletion(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	counts, err := idx.UpdateNotes(nil, []string{"note1"})
	if err != nil {
		t.Fatalf("UpdateNotes: %v", err)
	}
	if counts.Removed != 1 {
		t.Fatalf("Removed = %d, want 1", counts.Removed)
	}

	links, err := idx.LinksIn("note2")
	if err != nil {
		t.Fatalf("LinksIn: %v", err)
	}
	for _, l := range links {
		if l.Source == "note1" {
			t.Fatalf("expected note1's outgoing link gone after deletion, got %+v", l)
		}
	}
}

func TestSearchAndSnippet(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	ids, err := idx.Search("gophers", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ids) != 1 || ids[0] != "note2" {
		t.Fatalf("Search = %v", ids)
	}

	snippet, err := idx.Snippet("note2", "gophers")
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if snippet == "" {
		t.Fatalf("expected non-empty snippet")
	}
	if !strings.Contains(snippet, "<b>") || !strings.Contains(snippet, "</b>") {
		t.Fatalf("snippet = %q, want <b>/</b> highlight delimiters", snippet)
	}
}

func TestSearchEmptyIndexReturnsNil(t *testing.T) {
	idx, _ := newTestIndex(t)
	ids, err := idx.Search("anything", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ids != nil {
		t.Fatalf("expected nil, got %v", ids)
	}
}

func TestLinksOutAndIn(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	out, err := idx.LinksOut("note1")
	if err != nil {
		t.Fatalf("LinksOut: %v", err)
	}
	if len(out) != 1 || out[0].Target.ID != "note2" {
		t.Fatalf("LinksOut = %+v", out)
	}

	in, err := idx.LinksIn("note2")
	if err != nil {
		t.Fatalf("LinksIn: %v", err)
	}
	if len(in) != 1 || in[0].Source != "note1" {
		t.Fatalf("LinksIn = %+v", in)
	}
}

func TestBlocksRecordedForNote(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	blocks, err := idx.Blocks("note1")
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}
	if len(blocks) == 0 {
		t.Fatalf("expected at least one block")
	}
}

func TestOrphans(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	orphans, err := idx.Orphans()
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != "note3" {
		t.Fatalf("Orphans = %v", orphans)
	}
}

func TestGraphData(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	g, err := idx.GraphData()
	if err != nil {
		t.Fatalf("GraphData: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("Nodes = %d, want 3", len(g.Nodes))
	}
	if len(g.Edges) != 1 || g.Edges[0].Source != "note1" || g.Edges[0].Target != "note2" {
		t.Fatalf("Edges = %+v", g.Edges)
	}
}

func TestIDsByTitleAndAlias(t *testing.T) {
	idx, _ := newTestIndex(t)
	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	ids, err := idx.IDsByTitle("First Note")
	if err != nil {
		t.Fatalf("IDsByTitle: %v", err)
	}
	if len(ids) != 1 || ids[0] != "note1" {
		t.Fatalf("IDsByTitle = %v", ids)
	}

	ids, err = idx.IDsByAlias("first")
	if err != nil {
		t.Fatalf("IDsByAlias: %v", err)
	}
	if len(ids) != 1 || ids[0] != "note1" {
		t.Fatalf("IDsByAlias = %v", ids)
	}
}

func TestIsEmpty(t *testing.T) {
	idx, _ := newTestIndex(t)

	empty, err := idx.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Fatalf("expected empty index before any rebuild")
	}

	if _, err := idx.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	empty, err = idx.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if empty {
		t.Fatalf("expected non-empty index after rebuild")
	}
}

func TestOpenReopensExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	v, err := vault.New(filepath.Join(dir, "vault"))
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	if err := v.WriteRaw("note1", "---\nid: note1\ntitle: Only Note\n---\nBody text.\n"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	dbPath := filepath.Join(dir, "index.sqlite")
	idx1, err := Open(dbPath, v, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := idx1.Rebuild(true, true); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	idx1.Close()

	idx2, err := Open(dbPath, v, Options{})
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer idx2.Close()

	ids, err := idx2.IDsByTitle("Only Note")
	if err != nil {
		t.Fatalf("IDsByTitle: %v", err)
	}
	if len(ids) != 1 || ids[0] != "note1" {
		t.Fatalf("IDsByTitle after reopen = %v", ids)
	}
}
