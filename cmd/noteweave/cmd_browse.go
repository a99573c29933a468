package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open a read-only terminal browser over the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse()
		},
	}
	rootCmd.AddCommand(cmd)
}

func runBrowse() error {
	idx, v, _, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := tui.Run(idx, v); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
