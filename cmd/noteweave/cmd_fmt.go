package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/format"
)

var fmtCheck bool

func init() {
	cmd := &cobra.Command{
		Use:   "fmt [id...]",
		Short: "Normalize frontmatter, link syntax, and text hygiene across notes",
		Long: `fmt rewrites every note in the vault (or only the given ids) through
the standard frontmatter/link/whitespace normalizer. With --check, no
file is modified; the command instead reports which notes would change
and exits non-zero if any would.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(args)
		},
	}
	cmd.Flags().BoolVar(&fmtCheck, "check", false, "report would-be changes without writing them")
	rootCmd.AddCommand(cmd)
}

func runFmt(ids []string) error {
	v, _, err := openVault()
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

	opts := format.DefaultOptions()
	changedCount := 0

	for _, id := range targets {
		raw, ok, err := v.ReadRaw(id)
		if err != nil {
			return fmt.Errorf("read %s: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("note not found: %s", id)
		}

		result, err := format.Format(id, raw, opts)
		if err != nil {
			return fmt.Errorf("format %s: %w", id, err)
		}
		if !result.Changed {
			continue
		}
		changedCount++

		if fmtCheck {
			fmt.Printf("%s\t%v\n", id, result.Changes)
			continue
		}
		if err := v.WriteRaw(id, result.Formatted); err != nil {
			return fmt.Errorf("write %s: %w", id, err)
		}
		printVerbose("formatted %s: %v\n", id, result.Changes)
	}

	if fmtCheck && changedCount > 0 {
		return fmt.Errorf("%d note(s) need formatting", changedCount)
	}
	return nil
}
