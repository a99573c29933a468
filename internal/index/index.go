// Package index is the durable SQLite-backed cache over a vault: schema,
// migrations, FTS5 full-text search, and incremental or full rebuilds.
// The database is always a rebuildable cache; the flat files in the
// vault remain the source of truth.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/vault"
)

// ErrNotFound is returned when a query targets a note id the index has
// no record of.
var ErrNotFound = errors.New("index: note not found")

// ErrCorruption is reported by the open-time probe when the on-disk
// database fails a basic integrity check and has been renamed aside; Open
// then logs a warning and creates a fresh database in its place.
var ErrCorruption = errors.New("index: database was corrupt, backed up and rebuilt")

// ErrBusy wraps SQLITE_BUSY after the configured busy-timeout elapses.
var ErrBusy = errors.New("index: database busy")

// Counts reports what a rebuild or targeted update did.
type Counts struct {
	Scanned  int
	Dirty    int
	Inserted int
	Updated  int
	Removed  int
	Failed   int
}

// Index is the durable index over a single vault.
type Index struct {
	db     *sql.DB
	dbPath string
	v      *vault.Vault
	log    *slog.Logger
	busyMs int

	// writeMu serializes write transactions (BEGIN IMMEDIATE .. COMMIT)
	// across goroutines, since SetMaxOpenConns(1) only guarantees a
	// shared connection, not that one caller's transaction statements
	// stay contiguous against another's.
	writeMu sync.Mutex
}

// Options configures Open.
type Options struct {
	// BusyTimeoutMs is passed as PRAGMA busy_timeout. Default 3000.
	BusyTimeoutMs int
	Log           *slog.Logger
}

// Open opens (creating if necessary) the SQLite database at dbPath
// backing vault v, running schema creation/migration and corruption
// recovery as needed.
func Open(dbPath string, v *vault.Vault, opts Options) (*Index, error) {
	if opts.BusyTimeoutMs == 0 {
		opts.BusyTimeoutMs = 3000
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	if err := recoverIfCorrupt(dbPath, opts.Log); err != nil && !errors.Is(err, ErrCorruption) {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("index: opening %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite is not safe for concurrent writers per connection pool entry

	idx := &Index{db: db, dbPath: dbPath, v: v, log: opts.Log, busyMs: opts.BusyTimeoutMs}
	if err := idx.pragma(); err != nil {
		db.Close()
		return nil, err
	}
	if err := idx.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) pragma() error {
	stmts := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		fmt.Sprintf("PRAGMA busy_timeout=%d", idx.busyMs),
		"PRAGMA foreign_keys=ON",
	}
	for _, s := range stmts {
		if _, err := idx.db.Exec(s); err != nil {
			return fmt.Errorf("index: pragma %q: %w", s, err)
		}
	}
	return nil
}

// recoverIfCorrupt performs a quick integrity probe on an existing
// database file. A failing probe renames the file aside with a
// ".bad-<unixnano>.sqlite" suffix, logs a warning and reports
// ErrCorruption; Open then creates a fresh schema in its place.
func recoverIfCorrupt(dbPath string, log *slog.Logger) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return renameCorrupt(dbPath, log, err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
		return renameCorrupt(dbPath, log, err)
	}
	return nil
}

func renameCorrupt(dbPath string, log *slog.Logger, cause error) error {
	backup := fmt.Sprintf("%s.bad-%d.sqlite", strings.TrimSuffix(dbPath, ".sqlite"), time.Now().UnixNano())
	if err := os.Rename(dbPath, backup); err != nil {
		return fmt.Errorf("index: renaming corrupt db: %w", err)
	}
	log.Warn("index database was corrupt, backed up", "backup", backup, "cause", cause)
	return fmt.Errorf("%w: %s", ErrCorruption, backup)
}

func (idx *Index) ensureSchema() error {
	if _, err := idx.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("index: creating schema: %w", err)
	}
	if err := idx.migrate(); err != nil {
		return err
	}
	return idx.setSchemaVersion(schemaVersion)
}

func (idx *Index) currentSchemaVersion() int {
	var v string
	err := idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&v)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func (idx *Index) setSchemaVersion(v int) error {
	_, err := idx.db.Exec(
		`INSERT INTO meta(key, value) VALUES('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		strconv.Itoa(v),
	)
	if err != nil {
		return fmt.Errorf("index: setting schema_version: %w", err)
	}
	return nil
}

// migrate brings an older on-disk schema up to schemaVersion. Each step
// is additive and idempotent so a half-applied migration can be retried.
func (idx *Index) migrate() error {
	current := idx.currentSchemaVersion()
	if current >= schemaVersion {
		return nil
	}

	if current < 2 {
		// v1 -> v2: the kv table gained multi-value-per-key support; the
		// CREATE TABLE IF NOT EXISTS above already defines the v2 shape,
		// so a fresh database needs nothing further here. An existing v1
		// kv table (single value per key, different column set) is
		// dropped and recreated empty; callers should run a full rebuild
		// afterward to repopulate it.
		if _, err := idx.db.Exec(`DROP TABLE IF EXISTS kv`); err != nil {
			return fmt.Errorf("index: migrating kv table: %w", err)
		}
		if _, err := idx.db.Exec(schemaDDL); err != nil {
			return fmt.Errorf("index: recreating schema post-migration: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

var mathRe = regexp.MustCompile(`(^|[^\\])\$`)

func detectMath(raw string) bool {
	return strings.Contains(raw, "$") && mathRe.MatchString(raw)
}

// extractTitle applies the stable title heuristic: core/title meta,
// then legacy title meta, then the first heading, then the first
// non-empty non-frontmatter-fence line.
func extractTitle(note *model.Note) string {
	if t := note.Meta.GetString("core/title"); t != "" {
		return t
	}
	if t := note.Meta.GetString("title"); t != "" {
		return t
	}
	for _, b := range note.Body.Blocks {
		if b.Kind == model.BlockHeading && b.HeadingText != "" {
			return b.HeadingText
		}
	}
	for _, line := range strings.Split(note.Body.Raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "---") {
			return trimmed
		}
	}
	return ""
}

func computeHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// isDirty reports whether note id needs reindexing, comparing filesystem
// stats (and optionally a content hash) against the stored row.
func (idx *Index) isDirty(id model.NoteID, useHash bool) (bool, error) {
	mtimeNs, size, ok, err := idx.v.Stat(id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var dbMtime, dbSize int64
	var dbHash sql.NullString
	err = idx.db.QueryRow(
		"SELECT mtime_ns, size_bytes, hash FROM notes WHERE id = ?", id,
	).Scan(&dbMtime, &dbSize, &dbHash)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("index: checking dirty state of %s: %w", id, err)
	}

	if dbMtime != mtimeNs || dbSize != size {
		return true, nil
	}
	if useHash {
		raw, _, err := idx.v.ReadRaw(id)
		if err != nil {
			return false, err
		}
		if computeHash(raw) != dbHash.String {
			return true, nil
		}
	}
	return false, nil
}

// indexNote re-derives one note's rows inside a single BEGIN IMMEDIATE
// transaction: notes row upsert, full replace of its blocks/links/kv
// rows, and its fts row.
func (idx *Index) indexNote(id model.NoteID, useHash bool) error {
	note, err := idx.v.Get(id)
	if err != nil {
		return fmt.Errorf("index: loading %s: %w", id, err)
	}
	if note == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	mtimeNs, size, ok, err := idx.v.Stat(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var fileHash string
	if useHash {
		raw, _, err := idx.v.ReadRaw(id)
		if err != nil {
			return err
		}
		fileHash = computeHash(raw)
	}

	title := extractTitle(note)
	hasMath := 0
	if detectMath(note.Body.Raw) {
		hasMath = 1
	}

	// modernc.org/sqlite's database/sql driver does not expose
	// BEGIN IMMEDIATE through sql.Tx (it always issues a plain BEGIN),
	// so the immediate write lock is acquired with a raw statement on
	// the pooled connection, which SetMaxOpenConns(1) guarantees is the
	// same connection for every subsequent statement in this
	// transaction. writeMu keeps two goroutines from interleaving their
	// BEGIN IMMEDIATE..COMMIT sequences on that shared connection.
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	if _, err := idx.db.Exec("BEGIN IMMEDIATE"); err != nil {
		return wrapBusy(fmt.Errorf("index: beginning transaction for %s: %w", note.ID, err))
	}

	if err := idx.writeNote(idx.db, note, title, hasMath, mtimeNs, size, fileHash); err != nil {
		idx.db.Exec("ROLLBACK")
		return err
	}
	if _, err := idx.db.Exec("COMMIT"); err != nil {
		idx.db.Exec("ROLLBACK")
		return wrapBusy(fmt.Errorf("index: committing %s: %w", note.ID, err))
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx; writeNote is always
// called against idx.db directly (see indexNote's comment on
// BEGIN IMMEDIATE) but keeping the narrower interface documents the
// actual dependency and eases testing against a fake.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (idx *Index) writeNote(tx execer, note *model.Note, title string, hasMath int, mtimeNs, size int64, hash string) error {
	var hashVal sql.NullString
	if hash != "" {
		hashVal = sql.NullString{String: hash, Valid: true}
	}

	_, err := tx.Exec(`
		INSERT INTO notes (id, mtime_ns, size_bytes, hash, title, has_math)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mtime_ns = excluded.mtime_ns,
			size_bytes = excluded.size_bytes,
			hash = excluded.hash,
			title = excluded.title,
			has_math = excluded.has_math
	`, note.ID, mtimeNs, size, hashVal, title, hasMath)
	if err != nil {
		return fmt.Errorf("index: upserting note %s: %w", note.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM blocks WHERE note_id = ?", note.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM links WHERE src = ?", note.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM kv WHERE note_id = ?", note.ID); err != nil {
		return err
	}

	for _, b := range note.Body.Blocks {
		var label sql.NullString
		if b.Label != nil {
			label = sql.NullString{String: b.Label.Name, Valid: true}
		}
		var level sql.NullInt64
		if b.Kind == model.BlockHeading {
			level = sql.NullInt64{Int64: int64(b.HeadingLevel), Valid: true}
		}
		var slugVal sql.NullString
		if b.HeadingSlug != "" {
			slugVal = sql.NullString{String: b.HeadingSlug, Valid: true}
		}
		_, err := tx.Exec(`
			INSERT INTO blocks (note_id, kind, start, end, level, slug, label)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, note.ID, string(b.Kind), b.Range.Start, b.Range.End, level, slugVal, label)
		if err != nil {
			return fmt.Errorf("index: inserting block for %s: %w", note.ID, err)
		}
	}

	for _, l := range note.Body.Links {
		var anchorKind, anchorValue sql.NullString
		if l.Target.Anchor != nil {
			anchorKind = sql.NullString{String: string(l.Target.Anchor.Kind), Valid: true}
			anchorValue = sql.NullString{String: l.Target.Anchor.Value, Valid: true}
		}
		var rel sql.NullString
		if l.Target.Rel != "" {
			rel = sql.NullString{String: l.Target.Rel, Valid: true}
		}
		_, err := tx.Exec(`
			INSERT INTO links (src, dst, start, end, rel, anchor_kind, anchor_value)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, note.ID, l.Target.ID, l.Range.Start, l.Range.End, rel, anchorKind, anchorValue)
		if err != nil {
			return fmt.Errorf("index: inserting link for %s: %w", note.ID, err)
		}
	}

	for _, alias := range note.Meta.GetStringSlice("core/aliases") {
		_, err := tx.Exec(`INSERT INTO kv (note_id, key, value) VALUES (?, 'core/alias', ?)`, note.ID, alias)
		if err != nil {
			return fmt.Errorf("index: inserting alias for %s: %w", note.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM fts WHERE id = ?", note.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO fts (id, body, title) VALUES (?, ?, ?)", note.ID, note.Body.Raw, title,
	); err != nil {
		return fmt.Errorf("index: updating fts for %s: %w", note.ID, err)
	}
	return nil
}

func wrapBusy(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "busy") || strings.Contains(err.Error(), "locked") {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return err
}

// IsEmpty reports whether the notes table has no rows, i.e. the index has
// never been built (or was deleted). Callers that must not serve search,
// graph, or link queries against a cold index check this before trusting
// it.
func (idx *Index) IsEmpty() (bool, error) {
	var n int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return false, fmt.Errorf("index: counting notes: %w", err)
	}
	return n == 0, nil
}

// Rebuild scans the vault and reconciles the index against it. When full
// is true every note is reindexed regardless of dirty state; otherwise
// only notes whose mtime/size (and optionally content hash) differ from
// the stored row are touched. Notes present in the index but no longer
// on disk are removed.
func (idx *Index) Rebuild(full, useHash bool) (Counts, error) {
	var counts Counts

	fileIDs, err := idx.v.ListIDs()
	if err != nil {
		return counts, err
	}
	counts.Scanned = len(fileIDs)
	fileSet := make(map[model.NoteID]bool, len(fileIDs))
	for _, id := range fileIDs {
		fileSet[id] = true
	}

	rows, err := idx.db.Query("SELECT id FROM notes")
	if err != nil {
		return counts, fmt.Errorf("index: listing db notes: %w", err)
	}
	dbIDs := map[model.NoteID]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return counts, err
		}
		dbIDs[id] = true
	}
	rows.Close()

	for id := range dbIDs {
		if !fileSet[id] {
			if _, err := idx.db.Exec("DELETE FROM notes WHERE id = ?", id); err != nil {
				return counts, err
			}
			if _, err := idx.db.Exec("DELETE FROM fts WHERE id = ?", id); err != nil {
				return counts, err
			}
			counts.Removed++
		}
	}

	for _, id := range fileIDs {
		isNew := !dbIDs[id]
		dirty := full
		if !dirty {
			dirty, err = idx.isDirty(id, useHash)
			if err != nil {
				return counts, err
			}
		}
		if !dirty {
			continue
		}
		counts.Dirty++
		if err := idx.indexNote(id, useHash); err != nil {
			idx.log.Warn("failed to index note", "id", id, "error", err)
			counts.Failed++
			continue
		}
		if isNew {
			counts.Inserted++
		} else {
			counts.Updated++
		}
	}

	if full {
		if _, err := idx.db.Exec("VACUUM"); err != nil {
			return counts, fmt.Errorf("index: vacuum: %w", err)
		}
		if _, err := idx.db.Exec("ANALYZE"); err != nil {
			return counts, fmt.Errorf("index: analyze: %w", err)
		}
	}
	return counts, nil
}

// UpdateNotes performs a targeted incremental update for exactly the
// note ids named in changed (created or modified) and deleted. This is
// the hot path the watcher drives after each debounce flush.
func (idx *Index) UpdateNotes(changed, deleted []model.NoteID) (Counts, error) {
	var counts Counts

	for _, id := range deleted {
		if _, err := idx.db.Exec("DELETE FROM notes WHERE id = ?", id); err != nil {
			return counts, err
		}
		if _, err := idx.db.Exec("DELETE FROM fts WHERE id = ?", id); err != nil {
			return counts, err
		}
		counts.Removed++
	}

	existing := map[model.NoteID]bool{}
	if len(changed) > 0 {
		placeholders := make([]string, len(changed))
		args := make([]any, len(changed))
		for i, id := range changed {
			placeholders[i] = "?"
			args[i] = id
		}
		rows, err := idx.db.Query(
			fmt.Sprintf("SELECT id FROM notes WHERE id IN (%s)", strings.Join(placeholders, ",")),
			args...,
		)
		if err != nil {
			return counts, err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return counts, err
			}
			existing[id] = true
		}
		rows.Close()
	}

	for _, id := range changed {
		isNew := !existing[id]
		if err := idx.indexNote(id, false); err != nil {
			idx.log.Warn("failed to index note", "id", id, "error", err)
			continue
		}
		if isNew {
			counts.Inserted++
		} else {
			counts.Updated++
		}
	}
	return counts, nil
}

// Search runs an FTS5 MATCH query and returns matching note ids ordered
// by relevance rank.
func (idx *Index) Search(query string, limit int) ([]model.NoteID, error) {
	var count int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM fts").Scan(&count); err != nil {
		return nil, fmt.Errorf("index: checking fts population: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	rows, err := idx.db.Query(
		"SELECT id FROM fts WHERE fts MATCH ? ORDER BY rank LIMIT ?", query, limit,
	)
	if err != nil {
		return nil, wrapBusy(fmt.Errorf("index: searching: %w", err))
	}
	defer rows.Close()

	var ids []model.NoteID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Snippet returns an FTS5-highlighted snippet of id's body for query, or
// "" if id has no fts row or does not match query.
func (idx *Index) Snippet(id model.NoteID, query string) (string, error) {
	var snippet sql.NullString
	err := idx.db.QueryRow(
		`SELECT snippet(fts, 1, '<b>', '</b>', ' ... ', 64) FROM fts WHERE id = ? AND fts MATCH ?`,
		id, query,
	).Scan(&snippet)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: snippet for %s: %w", id, err)
	}
	return snippet.String, nil
}

// LinksOut returns every outgoing link recorded for id, ordered by
// position in the source text.
func (idx *Index) LinksOut(id model.NoteID) ([]model.Link, error) {
	rows, err := idx.db.Query(`
		SELECT dst, start, end, rel, anchor_kind, anchor_value
		FROM links WHERE src = ? ORDER BY start
	`, id)
	if err != nil {
		return nil, fmt.Errorf("index: links_out for %s: %w", id, err)
	}
	defer rows.Close()
	return scanLinks(rows, id, true)
}

// LinksIn returns every link recorded as targeting id, ordered by
// source id then position.
func (idx *Index) LinksIn(id model.NoteID) ([]model.Link, error) {
	rows, err := idx.db.Query(`
		SELECT src, start, end, rel, anchor_kind, anchor_value
		FROM links WHERE dst = ? ORDER BY src, start
	`, id)
	if err != nil {
		return nil, fmt.Errorf("index: links_in for %s: %w", id, err)
	}
	defer rows.Close()
	return scanLinks(rows, id, false)
}

func scanLinks(rows *sql.Rows, id model.NoteID, outgoing bool) ([]model.Link, error) {
	var links []model.Link
	for rows.Next() {
		var other string
		var start, end int
		var rel, anchorKind, anchorValue sql.NullString
		if err := rows.Scan(&other, &start, &end, &rel, &anchorKind, &anchorValue); err != nil {
			return nil, err
		}
		var anchor *model.Anchor
		if anchorKind.Valid && anchorValue.Valid {
			anchor = &model.Anchor{Kind: model.AnchorKind(anchorKind.String), Value: anchorValue.String}
		}
		src, dst := id, other
		if outgoing {
			dst = other
		} else {
			src = other
			dst = id
		}
		links = append(links, model.Link{
			Source: src,
			Target: model.LinkTarget{ID: dst, Anchor: anchor, Rel: rel.String},
			Range:  model.Range{Start: start, End: end},
		})
	}
	return links, rows.Err()
}

// Blocks returns every block recorded for id, ordered by start offset.
func (idx *Index) Blocks(id model.NoteID) ([]model.Block, error) {
	rows, err := idx.db.Query(`
		SELECT kind, start, end, level, slug, label
		FROM blocks WHERE note_id = ? ORDER BY start
	`, id)
	if err != nil {
		return nil, fmt.Errorf("index: blocks for %s: %w", id, err)
	}
	defer rows.Close()

	var blocks []model.Block
	for rows.Next() {
		var kind string
		var start, end int
		var level sql.NullInt64
		var slugVal, labelVal sql.NullString
		if err := rows.Scan(&kind, &start, &end, &level, &slugVal, &labelVal); err != nil {
			return nil, err
		}
		b := model.Block{Kind: model.BlockKind(kind), Range: model.Range{Start: start, End: end}}
		if level.Valid {
			b.HeadingLevel = int(level.Int64)
		}
		if slugVal.Valid {
			b.HeadingSlug = slugVal.String
		}
		if labelVal.Valid {
			b.Label = &model.BlockLabel{Name: labelVal.String}
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// Orphans returns ids of notes with neither incoming nor outgoing links,
// sorted.
func (idx *Index) Orphans() ([]model.NoteID, error) {
	rows, err := idx.db.Query(`
		SELECT id FROM notes
		WHERE id NOT IN (SELECT src FROM links)
		  AND id NOT IN (SELECT dst FROM links)
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("index: orphans: %w", err)
	}
	defer rows.Close()

	var ids []model.NoteID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GraphNode is one note in GraphData's node list.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// GraphEdge is one deduplicated link in GraphData's edge list.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData is the full link graph, suitable for JSON export.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphData exports the full note/link graph for visualization or
// static-site export.
func (idx *Index) GraphData() (GraphData, error) {
	var g GraphData

	noteRows, err := idx.db.Query("SELECT id, title FROM notes ORDER BY id")
	if err != nil {
		return g, fmt.Errorf("index: graph nodes: %w", err)
	}
	for noteRows.Next() {
		var id string
		var title sql.NullString
		if err := noteRows.Scan(&id, &title); err != nil {
			noteRows.Close()
			return g, err
		}
		g.Nodes = append(g.Nodes, GraphNode{ID: id, Title: title.String})
	}
	noteRows.Close()

	edgeRows, err := idx.db.Query("SELECT DISTINCT src, dst FROM links ORDER BY src, dst")
	if err != nil {
		return g, fmt.Errorf("index: graph edges: %w", err)
	}
	for edgeRows.Next() {
		var src, dst string
		if err := edgeRows.Scan(&src, &dst); err != nil {
			edgeRows.Close()
			return g, err
		}
		g.Edges = append(g.Edges, GraphEdge{Source: src, Target: dst})
	}
	edgeRows.Close()
	return g, edgeRows.Err()
}

// IDsByTitle returns note ids whose stored title exactly matches title,
// implementing resolver.Lookup.
func (idx *Index) IDsByTitle(title string) ([]model.NoteID, error) {
	rows, err := idx.db.Query("SELECT id FROM notes WHERE title = ?", title)
	if err != nil {
		return nil, fmt.Errorf("index: title lookup: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// IDsByAlias returns note ids registered with the given alias,
// implementing resolver.Lookup.
func (idx *Index) IDsByAlias(alias string) ([]model.NoteID, error) {
	rows, err := idx.db.Query("SELECT note_id FROM kv WHERE key = 'core/alias' AND value = ?", alias)
	if err != nil {
		return nil, fmt.Errorf("index: alias lookup: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// Exists reports whether id has a row in the notes table, implementing
// linkmigrate.IDExists for path-style link resolution.
func (idx *Index) Exists(id model.NoteID) (bool, error) {
	var n int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM notes WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("index: exists %s: %w", id, err)
	}
	return n > 0, nil
}

func scanIDs(rows *sql.Rows) ([]model.NoteID, error) {
	var ids []model.NoteID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, rows.Err()
}
