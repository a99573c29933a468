// Package config manages the persistent user configuration for noteweave.
//
// Configuration is stored in a JSON file at ~/.noteweave/config.json. The file
// is written only by Save; no noteweave command calls Save, and while the file
// is absent Load returns ErrNotConfigured.
//
// # Configuration Fields
//
//   - vault_dir:      The notes directory noteweave indexes and watches.
//   - db_path:        Path to the durable SQLite index file (default:
//     ~/.noteweave/index.sqlite).
//   - note_ext:       File extension for notes (default: ".md"). It is
//     normalized and stored but not read by the vault, which always uses ".md".
//   - debounce_ms:    Filesystem watcher debounce window in milliseconds.
//   - busy_timeout_ms: SQLite busy_timeout pragma value in milliseconds.
//   - snippet_window:  FTS5 snippet context size in tokens (default: 64). It is
//     normalized and stored but not read by the index, whose snippets always
//     use 64 tokens.
//
// # Path Normalization
//
// All directory and file paths stored in config are expanded (~ → home dir)
// and made absolute before use, so relative or tilde-prefixed paths in the
// JSON are handled transparently. See NormalizePath for details.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/noteweave/noteweave/internal/logging"
)

const (
	// configDirName is the hidden directory under the user's home where
	// noteweave's configuration (config.json, index.sqlite) is stored.
	configDirName = ".noteweave"

	// configFileName is the name of the JSON configuration file inside
	// configDirName.
	configFileName = "config.json"

	// DefaultNoteExt is the file extension a vault file must carry to be
	// treated as a note.
	DefaultNoteExt = ".md"

	// DefaultDebounceMS is the watcher's debounce window when unset.
	DefaultDebounceMS = 150

	// DefaultBusyTimeoutMS is the SQLite busy_timeout pragma value when
	// unset.
	DefaultBusyTimeoutMS = 3000

	// DefaultSnippetWindow is the FTS5 snippet context window when unset.
	DefaultSnippetWindow = 64
)

// ErrNotConfigured is returned by Load when no config file exists, signaling
// the caller to fall back to defaults or prompt for a vault directory.
var ErrNotConfigured = errors.New("noteweave is not configured")

// log is the structured logger for the config package, tagged with
// component="config".
var log = logging.New("config")

// Config stores user-defined noteweave settings.
//
// The struct is serialized to and deserialized from ~/.noteweave/config.json.
// Fields tagged with omitempty are excluded from the JSON output when empty.
type Config struct {
	// VaultDir is the notes directory noteweave indexes and watches
	// (absolute path).
	VaultDir string `json:"vault_dir"`

	// DBPath is the path to the durable SQLite index file. Defaults to
	// ~/.noteweave/index.sqlite if unset.
	DBPath string `json:"db_path,omitempty"`

	// NoteExt is the configured note file extension. Defaults to ".md".
	// The vault does not read it; note files always end in ".md".
	NoteExt string `json:"note_ext,omitempty"`

	// DebounceMS is the filesystem watcher's debounce window, in
	// milliseconds. Defaults to DefaultDebounceMS.
	DebounceMS int `json:"debounce_ms,omitempty"`

	// BusyTimeoutMS is the SQLite busy_timeout pragma value, in
	// milliseconds. Defaults to DefaultBusyTimeoutMS.
	BusyTimeoutMS int `json:"busy_timeout_ms,omitempty"`

	// SnippetWindow is the configured FTS5 snippet context size, in tokens.
	// Defaults to DefaultSnippetWindow. The index does not read it; its
	// snippets always use 64 tokens.
	SnippetWindow int `json:"snippet_window,omitempty"`
}

// DefaultDBPath returns the default SQLite index path.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName, "index.sqlite"), nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file exists on disk.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path %q: %w", path, err)
}

// Load reads, parses, and normalizes the saved configuration from disk.
//
// Normalization steps performed during load:
//  1. VaultDir is expanded (~ expanded, made absolute).
//  2. DBPath defaults to ~/.noteweave/index.sqlite if unset, then normalized.
//  3. NoteExt defaults to ".md" if unset, and is made to start with a dot.
//  4. DebounceMS, BusyTimeoutMS, and SnippetWindow default when zero or
//     negative.
//
// Returns ErrNotConfigured if the config file does not exist.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return normalize(cfg)
}

// Save writes configuration to disk at ~/.noteweave/config.json.
//
// Before writing, the configuration is normalized using the same rules as
// Load, so the persisted file is always in canonical form. The config
// directory is created if it doesn't exist. The file is written with
// restrictive permissions (0600) since it contains filesystem paths the
// user may consider private.
func Save(cfg Config) error {
	normalized, err := normalize(cfg)
	if err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir %q: %w", filepath.Dir(path), err)
	}

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	log.Info("saved config", "path", path, "vault_dir", normalized.VaultDir)
	return nil
}

func normalize(cfg Config) (Config, error) {
	vaultDir := strings.TrimSpace(cfg.VaultDir)
	if vaultDir == "" {
		return Config{}, fmt.Errorf("invalid vault_dir: %w", errors.New("path is required"))
	}
	normalizedVault, err := NormalizePath(vaultDir)
	if err != nil {
		return Config{}, fmt.Errorf("invalid vault_dir: %w", err)
	}
	cfg.VaultDir = normalizedVault

	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath, err = DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
	}
	dbPath, err = NormalizePath(dbPath)
	if err != nil {
		return Config{}, fmt.Errorf("invalid db_path: %w", err)
	}
	cfg.DBPath = dbPath

	noteExt := strings.TrimSpace(cfg.NoteExt)
	if noteExt == "" {
		noteExt = DefaultNoteExt
	}
	if !strings.HasPrefix(noteExt, ".") {
		noteExt = "." + noteExt
	}
	cfg.NoteExt = noteExt

	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = DefaultDebounceMS
	}
	if cfg.BusyTimeoutMS <= 0 {
		cfg.BusyTimeoutMS = DefaultBusyTimeoutMS
	}
	if cfg.SnippetWindow <= 0 {
		cfg.SnippetWindow = DefaultSnippetWindow
	}

	return cfg, nil
}

// NormalizePath expands and normalizes a filesystem path for use as a vault
// directory, db path, or any other config path field.
//
// Processing steps:
//  1. Trim whitespace.
//  2. Expand leading ~ or ~/ to the user's home directory.
//  3. Resolve to an absolute path.
//  4. Clean redundant separators and . / .. components.
//
// Returns an error if the path is empty or home directory resolution fails.
func NormalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", expanded, err)
	}

	return filepath.Clean(abs), nil
}

// expandHome replaces a leading ~ or ~/ with the current user's home
// directory. Paths that don't start with ~ are returned unchanged.
func expandHome(path string) (string, error) {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
