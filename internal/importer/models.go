// Package importer bulk-imports plain Markdown files from an external
// source directory into a vault, assigning ids, injecting title/alias
// frontmatter, and recording a manifest that supports later rollback.
package importer

// ItemStatus classifies one planned import item.
type ItemStatus string

const (
	StatusOK       ItemStatus = "ok"
	StatusConflict ItemStatus = "conflict"
	StatusError    ItemStatus = "error"
)

// Item is a single file staged for import.
type Item struct {
	Src     string // path relative to the plan's source directory
	ID      string
	Title   string
	Aliases []string
	Status  ItemStatus
	Reason  string
}

// IDStrategy selects how new note ids are generated during planning.
type IDStrategy string

const (
	StrategyRandom IDStrategy = "random"
	StrategyHash   IDStrategy = "hash"
	StrategySlug   IDStrategy = "slug"
)

// Plan is the result of scanning a source directory: one Item per
// matched file, plus any title/alias conflicts detected across them.
type Plan struct {
	Version     int
	GeneratedAt string
	Src         string
	IDStrategy  IDStrategy
	Items       []Item
	Conflicts   map[string][]string // "title:<text>" or "alias:<text>" -> paths
}

// ConflictPolicy controls how Apply handles a destination path that
// already exists in the vault.
type ConflictPolicy string

const (
	OnConflictSkip  ConflictPolicy = "skip"
	OnConflictNewID ConflictPolicy = "new-id"
	OnConflictFail  ConflictPolicy = "fail"
)

// Operation selects whether Apply copies or moves source files.
type Operation string

const (
	OpCopy Operation = "copy"
	OpMove Operation = "move"
)

// ManifestAction records what Apply did for one item, for Rollback.
type ManifestAction string

const (
	ActionCreate ManifestAction = "create"
	ActionCopy   ManifestAction = "copy"
	ActionMove   ManifestAction = "move"
)

// ManifestEntry is one applied import operation.
type ManifestEntry struct {
	Action ManifestAction
	Src    string // original source path, for move/copy
	Dst    string // destination path written
	Backup string // backup of a pre-existing dst, if one was overwritten
}

// Manifest records every file operation Apply performed, in order, so
// Rollback can reverse them.
type Manifest struct {
	Version   int
	Timestamp string
	SrcDir    string
	DstVault  string
	Operation Operation
	Entries   []ManifestEntry
}
