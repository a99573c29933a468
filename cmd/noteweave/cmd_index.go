package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	indexFull bool
	indexHash bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the durable index against the vault's current state",
		Long: `index scans every note in the vault and reconciles the durable SQLite
index against it. By default only notes whose modification time or size
differ from the stored row are reindexed; --full forces every note to be
re-parsed and reindexed, and also runs VACUUM/ANALYZE afterward.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex()
		},
	}
	cmd.Flags().BoolVar(&indexFull, "full", false, "reindex every note regardless of dirty state")
	cmd.Flags().BoolVar(&indexHash, "hash", false, "also compare content hash, not just mtime/size")
	rootCmd.AddCommand(cmd)
}

func runIndex() error {
	idx, _, _, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	counts, err := idx.Rebuild(indexFull, indexHash)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	if flagJSON {
		return printJSON(counts)
	}
	fmt.Printf(
		"scanned=%d dirty=%d inserted=%d updated=%d removed=%d failed=%d\n",
		counts.Scanned, counts.Dirty, counts.Inserted, counts.Updated, counts.Removed, counts.Failed,
	)
	return nil
}
