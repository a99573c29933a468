package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noteweave/noteweave/internal/model"
)

func newTestVault(t *testing.T, dir string) *Vault {
	t.Helper()
	v, err := New(dir)
	if err != nil {
		t.Fatalf("New(%s): %v", dir, err)
	}
	return v
}

func TestNewRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := New(file); err == nil {
		t.Fatalf("expected error for New(%s), got nil", file)
	}
}

func TestGetMissingNoteReturnsNil(t *testing.T) {
	v := newTestVault(t, t.TempDir())
	note, err := v.Get("missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if note != nil {
		t.Fatalf("expected nil note, got %#v", note)
	}
}

func TestPutAndGetRoundTrip(t *testing.T) {
	v := newTestVault(t, filepath.Join(t.TempDir(), "vault"))
	note := &model.Note{
		ID:   "abc123",
		Meta: model.MetaBag{"core/title": "Hello"},
		Body: model.NoteBody{Raw: "Body text.\n"},
	}
	if err := v.Put(note); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := v.Get("abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected note, got nil")
	}
	if got.Meta.GetString("core/title") != "Hello" {
		t.Fatalf("title = %q", got.Meta.GetString("core/title"))
	}
	if got.Body.Raw != "Body text.\n" {
		t.Fatalf("body = %q", got.Body.Raw)
	}
}

func TestPutPreservesFrontmatterKeyOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault")
	raw := "---\nzebra: z\nid: abc123\ncore/title: Hello\napple: a\n---\nBody text.\n"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "abc123.md"), []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := newTestVault(t, dir)
	note, err := v.Get("abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := []string{"zebra", "id", "core/title", "apple"}
	if len(note.KeyOrder) != len(want) {
		t.Fatalf("KeyOrder = %v, want %v", note.KeyOrder, want)
	}
	for i, k := range want {
		if note.KeyOrder[i] != k {
			t.Fatalf("KeyOrder[%d] = %q, want %q", i, note.KeyOrder[i], k)
		}
	}

	// A load-modify-save round trip (touching one unrelated field) must not
	// alphabetically resort the other keys: that would violate a note's
	// on-disk key order for a field the caller never asked to change.
	note.Meta["core/title"] = "Hello, edited"
	if err := v.Put(note); err != nil {
		t.Fatalf("Put: %v", err)
	}

	raw2, ok, err := v.ReadRaw("abc123")
	if err != nil || !ok {
		t.Fatalf("ReadRaw: ok=%v err=%v", ok, err)
	}
	zebraIdx := strings.Index(raw2, "zebra:")
	idIdx := strings.Index(raw2, "id:")
	titleIdx := strings.Index(raw2, "core/title:")
	appleIdx := strings.Index(raw2, "apple:")
	if !(zebraIdx < idIdx && idIdx < titleIdx && titleIdx < appleIdx) {
		t.Fatalf("key order not preserved on round trip, got:\n%s", raw2)
	}
}

func TestWriteRawAndReadRaw(t *testing.T) {
	v := newTestVault(t, t.TempDir())
	if err := v.WriteRaw("note1", "raw contents\n"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	contents, ok, err := v.ReadRaw("note1")
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !ok {
		t.Fatalf("expected note1 to exist")
	}
	if contents != "raw contents\n" {
		t.Fatalf("contents = %q", contents)
	}

	_, ok, err = v.ReadRaw("missing")
	if err != nil {
		t.Fatalf("ReadRaw(missing): %v", err)
	}
	if ok {
		t.Fatalf("expected missing note to report not-ok")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	v := newTestVault(t, t.TempDir())
	if err := v.WriteRaw("note1", "x"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := v.Delete("note1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := v.Delete("note1"); err != nil {
		t.Fatalf("Delete on already-deleted note should not error: %v", err)
	}
}

func TestListIDsSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	v := newTestVault(t, dir)
	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := v.WriteRaw(id, "x"); err != nil {
			t.Fatalf("WriteRaw(%s): %v", id, err)
		}
	}
	// A non-.md file in the vault root should be ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ids, err := v.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("ids[%d] = %q, want %q", i, ids[i], id)
		}
	}
}

func TestListIDsOnMissingDir(t *testing.T) {
	v := newTestVault(t, filepath.Join(t.TempDir(), "does-not-exist"))
	ids, err := v.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	if ids != nil {
		t.Fatalf("expected nil ids, got %v", ids)
	}
}

func TestStat(t *testing.T) {
	v := newTestVault(t, t.TempDir())
	if _, _, ok, err := v.Stat("missing"); err != nil || ok {
		t.Fatalf("Stat(missing) = ok=%v err=%v", ok, err)
	}
	if err := v.WriteRaw("note1", "hello"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	mtime, size, ok, err := v.Stat("note1")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !ok || mtime == 0 || size != int64(len("hello")) {
		t.Fatalf("Stat returned mtime=%d size=%d ok=%v", mtime, size, ok)
	}
}
