// Package vault is the flat-file note store: one directory, one file per
// note named "<id>.md". It composes the header codec and parser to turn
// raw files into model.Note values, and guarantees every write is
// atomic (temp file + rename), matching the teacher's own save-to-temp
// discipline for drafts and notes.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/noteweave/noteweave/internal/header"
	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/parser"
)

// Extension is the file suffix every note carries on disk.
const Extension = ".md"

// Vault is a directory of flat note files.
type Vault struct {
	root string
}

// New returns a Vault rooted at dir. The directory is not required to
// exist yet; it is created lazily on first write. It is an error for dir
// to already exist as a non-directory (a plain file, say), since the
// vault would then be unable to ever write a note into it.
func New(dir string) (*Vault, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Vault{root: dir}, nil
		}
		return nil, fmt.Errorf("vault: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: %s exists and is not a directory", dir)
	}
	return &Vault{root: dir}, nil
}

// Root returns the vault's root directory.
func (v *Vault) Root() string { return v.root }

func (v *Vault) path(id model.NoteID) string {
	return filepath.Join(v.root, id+Extension)
}

// Get loads and parses the note with the given id, or returns
// (nil, nil) if no such file exists.
func (v *Vault) Get(id model.NoteID) (*model.Note, error) {
	raw, err := os.ReadFile(v.path(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vault: reading %s: %w", id, err)
	}

	meta, keys, body, err := header.DecodeOrdered(string(raw))
	if err != nil {
		return nil, fmt.Errorf("vault: decoding header of %s: %w", id, err)
	}
	return &model.Note{
		ID:       id,
		Meta:     meta,
		Body:     parser.Parse(id, body),
		KeyOrder: keys,
	}, nil
}

// Put encodes note's header and body and atomically writes it to disk,
// creating the vault directory if necessary. The header is re-encoded
// with note.KeyOrder leading so a load-modify-save round trip never
// reshuffles keys the caller never touched; keys absent from KeyOrder
// (new fields) are appended in map iteration order.
func (v *Vault) Put(note *model.Note) error {
	if err := os.MkdirAll(v.root, 0o755); err != nil {
		return fmt.Errorf("vault: creating vault dir: %w", err)
	}
	contents, err := header.EncodeOrdered(note.Meta, note.KeyOrder, note.Body.Raw)
	if err != nil {
		return fmt.Errorf("vault: encoding %s: %w", note.ID, err)
	}
	return v.writeAtomic(note.ID, contents)
}

// WriteRaw atomically writes pre-rendered file contents for id, bypassing
// the header/parser round-trip. Used by the importer and formatter,
// which already have a fully assembled file body.
func (v *Vault) WriteRaw(id model.NoteID, contents string) error {
	if err := os.MkdirAll(v.root, 0o755); err != nil {
		return fmt.Errorf("vault: creating vault dir: %w", err)
	}
	return v.writeAtomic(id, contents)
}

// ReadRaw returns the unparsed file contents for id.
func (v *Vault) ReadRaw(id model.NoteID) (string, bool, error) {
	b, err := os.ReadFile(v.path(id))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("vault: reading %s: %w", id, err)
	}
	return string(b), true, nil
}

func (v *Vault) writeAtomic(id model.NoteID, contents string) error {
	dst := v.path(id)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("vault: writing temp file for %s: %w", id, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("vault: renaming temp file for %s: %w", id, err)
	}
	return nil
}

// Delete removes the note's file. Deleting a note that does not exist is
// not an error.
func (v *Vault) Delete(id model.NoteID) error {
	err := os.Remove(v.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("vault: deleting %s: %w", id, err)
	}
	return nil
}

// ListIDs returns every note id currently present in the vault, sorted.
func (v *Vault) ListIDs() ([]model.NoteID, error) {
	entries, err := os.ReadDir(v.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vault: listing %s: %w", v.root, err)
	}
	ids := make([]model.NoteID, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, Extension) {
			ids = append(ids, strings.TrimSuffix(name, Extension))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Stat returns the mtime (nanoseconds) and size in bytes of a note's
// file, used by the index's change detection.
func (v *Vault) Stat(id model.NoteID) (mtimeNs int64, size int64, ok bool, err error) {
	info, statErr := os.Stat(v.path(id))
	if os.IsNotExist(statErr) {
		return 0, 0, false, nil
	}
	if statErr != nil {
		return 0, 0, false, fmt.Errorf("vault: stat %s: %w", id, statErr)
	}
	return info.ModTime().UnixNano(), info.Size(), true, nil
}
