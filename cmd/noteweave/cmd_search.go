package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across the vault via the durable index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args[0])
		},
	}
	cmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(cmd)
}

type searchHit struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet,omitempty"`
}

func runSearch(query string) error {
	idx, _, _, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	ids, err := idx.Search(query, searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	hits := make([]searchHit, 0, len(ids))
	for _, id := range ids {
		snippet, err := idx.Snippet(id, query)
		if err != nil {
			return fmt.Errorf("snippet for %s: %w", id, err)
		}
		hits = append(hits, searchHit{ID: id, Snippet: snippet})
	}

	if flagJSON {
		return printJSON(hits)
	}
	for _, h := range hits {
		if h.Snippet != "" {
			fmt.Printf("%s\t%s\n", h.ID, h.Snippet)
		} else {
			fmt.Println(h.ID)
		}
	}
	return nil
}
