package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/resolver"
)

var (
	resolveMode   string
	resolvePrefer string
)

func init() {
	cmd := &cobra.Command{
		Use:   "resolve <text>",
		Short: "Resolve a title or alias to a note id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args[0])
		},
	}
	cmd.Flags().StringVar(&resolveMode, "mode", "both", "lookup mode: title, alias, or both")
	cmd.Flags().StringVar(&resolvePrefer, "prefer", "title", "tie-break category when both match: title or alias")
	rootCmd.AddCommand(cmd)
}

func runResolve(text string) error {
	idx, _, _, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	mode, err := parseResolveMode(resolveMode)
	if err != nil {
		return err
	}
	prefer, err := parseResolvePrefer(resolvePrefer)
	if err != nil {
		return err
	}

	id, err := resolver.Resolve(idx, text, mode, prefer)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return fmt.Errorf("no note matches %q", text)
		}
		if errors.Is(err, resolver.ErrAmbiguous) {
			return fmt.Errorf("%q is ambiguous: %w", text, err)
		}
		return err
	}

	if flagJSON {
		return printJSON(map[string]string{"id": id})
	}
	fmt.Println(id)
	return nil
}

func parseResolveMode(s string) (resolver.Mode, error) {
	switch s {
	case "title":
		return resolver.ModeTitle, nil
	case "alias":
		return resolver.ModeAlias, nil
	case "both", "":
		return resolver.ModeBoth, nil
	default:
		return "", fmt.Errorf("invalid --mode: %s", s)
	}
}

func parseResolvePrefer(s string) (resolver.Prefer, error) {
	switch s {
	case "title", "":
		return resolver.PreferTitle, nil
	case "alias":
		return resolver.PreferAlias, nil
	default:
		return "", fmt.Errorf("invalid --prefer: %s", s)
	}
}
