package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/linkmigrate"
	"github.com/noteweave/noteweave/internal/vault"
)

var (
	migrateFormat string
	migrateMode   string
	migratePrefer string
	migrateCheck  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate [id...]",
		Short: "Rewrite title/alias wiki links and relative path links to id-addressed links",
		Long: `migrate rewrites every note in the vault (or only the given ids),
turning title- or alias-addressed wiki links ("[[My Note]]") and relative
Markdown path links ("[text](other.md)") into id-addressed links
("[[abc123]]", "[text](abc123)"). A link that cannot be resolved, or
whose resolved path does not name a known note, is left untouched and
reported. With --check, no file is modified; the command reports which
notes would change and exits non-zero if any would or if any link failed
to resolve.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(args)
		},
	}
	cmd.Flags().StringVar(&migrateFormat, "format", "mixed", "link syntax to migrate: wiki, path, or mixed")
	cmd.Flags().StringVar(&migrateMode, "mode", "both", "wiki-link lookup mode: title, alias, or both")
	cmd.Flags().StringVar(&migratePrefer, "prefer", "title", "tie-break category when both match: title or alias")
	cmd.Flags().BoolVar(&migrateCheck, "check", false, "report would-be changes without writing them")
	rootCmd.AddCommand(cmd)
}

func runMigrate(ids []string) error {
	idx, v, _, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	format, err := parseMigrateFormat(migrateFormat)
	if err != nil {
		return err
	}
	mode, err := parseResolveMode(migrateMode)
	if err != nil {
		return err
	}
	prefer, err := parseResolvePrefer(migratePrefer)
	if err != nil {
		return err
	}

	targets := ids
	if len(targets) == 0 {
		all, err := v.ListIDs()
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		for _, id := range all {
			targets = append(targets, string(id))
		}
	}

	changedCount := 0
	errorCount := 0

	for _, id := range targets {
		raw, ok, err := v.ReadRaw(id)
		if err != nil {
			return fmt.Errorf("read %s: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("note not found: %s", id)
		}

		currentFile := filepath.Join(v.Root(), id+vault.Extension)
		result := linkmigrate.MigrateFileLinks(raw, v.Root(), currentFile, idx, idx, format, mode, prefer)

		for _, e := range result.Errors {
			errorCount++
			fmt.Fprintf(os.Stderr, "%s: %s\n", id, e)
		}
		if result.Changes == 0 {
			continue
		}
		changedCount++

		if migrateCheck {
			fmt.Printf("%s\twould migrate links\n", id)
			continue
		}
		if err := v.WriteRaw(id, result.Migrated); err != nil {
			return fmt.Errorf("write %s: %w", id, err)
		}
		printVerbose("migrated links in %s\n", id)
	}

	if flagJSON {
		return printJSON(map[string]int{"changed": changedCount, "errors": errorCount})
	}
	fmt.Printf("changed=%d errors=%d\n", changedCount, errorCount)

	if migrateCheck && changedCount > 0 {
		return fmt.Errorf("%d note(s) need link migration", changedCount)
	}
	if errorCount > 0 {
		return fmt.Errorf("%d link(s) could not be resolved", errorCount)
	}
	return nil
}

func parseMigrateFormat(s string) (linkmigrate.Format, error) {
	switch s {
	case "wiki":
		return linkmigrate.FormatWiki, nil
	case "path":
		return linkmigrate.FormatPath, nil
	case "mixed", "":
		return linkmigrate.FormatMixed, nil
	default:
		return "", fmt.Errorf("invalid --format: %s", s)
	}
}
