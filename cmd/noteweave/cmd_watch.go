package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/watcher"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the vault and keep the index up to date",
		Long: `watch runs a filesystem watcher over the vault directory, flushing a
debounced batch of changed and deleted note ids into the durable index
as they settle. It runs until interrupted (Ctrl-C / SIGTERM).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}
	rootCmd.AddCommand(cmd)
}

func runWatch() error {
	idx, _, cfg, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	empty, err := idx.IsEmpty()
	if err != nil {
		return fmt.Errorf("checking index state: %w", err)
	}
	if empty {
		fmt.Fprintln(os.Stderr, "index is empty, running full rebuild before watching")
		counts, err := idx.Rebuild(true, false)
		if err != nil {
			return fmt.Errorf("initial rebuild: %w", err)
		}
		log.Info("initial rebuild complete",
			"scanned", counts.Scanned, "inserted", counts.Inserted, "failed", counts.Failed,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := time.Duration(cfg.DebounceMS) * time.Millisecond

	w, err := watcher.New(cfg.VaultDir, debounce, func(changed, deleted []model.NoteID) {
		counts, err := idx.UpdateNotes(changed, deleted)
		if err != nil {
			log.Error("update notes", "error", err)
			return
		}
		log.Info("flushed batch",
			"changed", len(changed), "deleted", len(deleted),
			"inserted", counts.Inserted, "updated", counts.Updated, "removed", counts.Removed,
		)
	}, log)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	fmt.Fprintf(os.Stderr, "watching %s (debounce=%s)\n", cfg.VaultDir, debounce)
	return w.Run(ctx)
}
