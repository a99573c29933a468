// Package main is noteweave's command-line entry point: a headless
// indexing daemon and query tool over a plain-text note vault, built
// around the durable SQLite index, the filesystem watcher, and the
// bulk import/export pipelines.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/config"
	"github.com/noteweave/noteweave/internal/index"
	"github.com/noteweave/noteweave/internal/logging"
	"github.com/noteweave/noteweave/internal/vault"
)

var log = logging.New("main")

var (
	// Global flags
	flagVault   string
	flagDB      string
	flagJSON    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "noteweave",
	Short: "Index, watch, and query a plain-text note vault",
	Long: `noteweave maintains a durable, queryable index over a directory of
plain-text notes: full-text search, wiki-link resolution, block-level
transclusion, and a filesystem watcher that keeps the index current.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagVault, "vault", "", "vault directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "index database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolvedConfig loads the persisted config (if any) and overlays the
// --vault/--db flags, so every subcommand can run against an
// unconfigured vault by passing --vault explicitly.
func resolvedConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		if flagVault == "" {
			return config.Config{}, err
		}
		cfg = config.Config{}
	}
	if flagVault != "" {
		cfg.VaultDir = flagVault
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	return cfg, nil
}

// openVault resolves config and opens the vault directory.
func openVault() (*vault.Vault, config.Config, error) {
	cfg, err := resolvedConfig()
	if err != nil {
		return nil, cfg, fmt.Errorf("load config: %w", err)
	}
	normalized, err := config.NormalizePath(cfg.VaultDir)
	if err != nil {
		return nil, cfg, fmt.Errorf("invalid vault dir: %w", err)
	}
	cfg.VaultDir = normalized
	v, err := vault.New(cfg.VaultDir)
	if err != nil {
		return nil, cfg, fmt.Errorf("open vault: %w", err)
	}
	return v, cfg, nil
}

// openIndex resolves config, opens the vault, and opens the durable
// index atop it. Callers must Close the returned Index.
func openIndex() (*index.Index, *vault.Vault, config.Config, error) {
	v, cfg, err := openVault()
	if err != nil {
		return nil, nil, cfg, err
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = config.DefaultDBPath()
		if err != nil {
			return nil, nil, cfg, err
		}
	}
	idx, err := index.Open(dbPath, v, index.Options{
		BusyTimeoutMs: cfg.BusyTimeoutMS,
		Log:           log,
	})
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("open index: %w", err)
	}
	return idx, v, cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printVerbose(format string, args ...any) {
	if flagVerbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
