package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/siteexport"
)

var exportOutDir string

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the vault to a static HTML-ready site directory",
		Long: `export expands every note's wiki links and transclusions and writes
the result, plus a graph.json of the note/link structure, to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport()
		},
	}
	cmd.Flags().StringVar(&exportOutDir, "out", "site", "output directory")
	rootCmd.AddCommand(cmd)
}

func runExport() error {
	idx, v, _, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := siteexport.Export(v, idx, exportOutDir); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	printVerbose("exported site to %s\n", exportOutDir)
	return nil
}
