package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/model"
	"github.com/noteweave/noteweave/internal/slicer"
)

var yankCopy bool

func init() {
	cmd := &cobra.Command{
		Use:   "yank <id>[#anchor]",
		Short: "Extract a note or block/heading range and print or copy it",
		Long: `yank resolves "id", "id#heading", or "id#^label" against the vault and
prints the addressed text to stdout. With --copy, the text is written to
the system clipboard instead of stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYank(args[0])
		},
	}
	cmd.Flags().BoolVar(&yankCopy, "copy", false, "copy to the system clipboard instead of printing")
	rootCmd.AddCommand(cmd)
}

// parseIDAnchor splits a "id", "id#heading", or "id#^label" spec into its
// note id and optional anchor.
func parseIDAnchor(spec string) (model.NoteID, *model.Anchor) {
	if idx := strings.Index(spec, "#^"); idx >= 0 {
		return spec[:idx], &model.Anchor{Kind: model.AnchorBlock, Value: spec[idx+2:]}
	}
	if idx := strings.IndexByte(spec, '#'); idx >= 0 {
		return spec[:idx], &model.Anchor{Kind: model.AnchorHeading, Value: spec[idx+1:]}
	}
	return spec, nil
}

func runYank(spec string) error {
	v, _, err := openVault()
	if err != nil {
		return err
	}

	id, anchor := parseIDAnchor(spec)
	note, err := v.Get(id)
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	if note == nil {
		return fmt.Errorf("note not found: %s", id)
	}

	rng := slicer.SliceByAnchor(note, anchor)
	if anchor != nil && rng.Start == rng.End {
		return fmt.Errorf("anchor not found in %s: %s", id, anchor.Value)
	}
	text := slicer.Extract(note.Body.Raw, rng)

	if yankCopy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		printVerbose("copied %d characters from %s\n", len([]rune(text)), spec)
		return nil
	}
	fmt.Println(text)
	return nil
}
