package index

// schemaVersion is the current schema generation. Bumping it triggers
// migrate() on the next Open.
const schemaVersion = 2

const schemaDDL = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	mtime_ns INTEGER NOT NULL,
	size_bytes INTEGER NOT NULL,
	hash TEXT,
	title TEXT,
	has_math INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS blocks (
	note_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	start INTEGER NOT NULL,
	end INTEGER NOT NULL,
	level INTEGER,
	slug TEXT,
	label TEXT,
	PRIMARY KEY (note_id, start),
	FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS links (
	src TEXT NOT NULL,
	dst TEXT NOT NULL,
	start INTEGER NOT NULL,
	end INTEGER NOT NULL,
	rel TEXT,
	anchor_kind TEXT,
	anchor_value TEXT,
	PRIMARY KEY (src, start),
	FOREIGN KEY (src) REFERENCES notes(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS kv (
	note_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT,
	FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS kv_note_key_idx ON kv(note_id, key);
CREATE INDEX IF NOT EXISTS kv_key_value_idx ON kv(key, value);

CREATE VIRTUAL TABLE IF NOT EXISTS fts USING fts5(
	id UNINDEXED,
	body,
	title,
	tokenize = "unicode61 remove_diacritics 2"
);

CREATE INDEX IF NOT EXISTS links_dst_idx ON links(dst);
CREATE INDEX IF NOT EXISTS links_src_idx ON links(src);
CREATE INDEX IF NOT EXISTS blocks_label_idx ON blocks(note_id, label);
CREATE INDEX IF NOT EXISTS blocks_slug_idx ON blocks(note_id, slug);
`
