package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/importer"
)

var auditStrict bool

func init() {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check a vault for dead links, unknown anchors, and duplicate block labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit()
		},
	}
	cmd.Flags().BoolVar(&auditStrict, "strict", false, "also flag links that still look title-addressed rather than id-addressed")
	rootCmd.AddCommand(cmd)
}

func runAudit() error {
	v, _, err := openVault()
	if err != nil {
		return err
	}

	report, err := importer.AuditVault(v, auditStrict)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if flagJSON {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		for _, f := range report.Findings {
			fmt.Printf("%s\t%s\t%s\n", f.Severity, f.NoteID, f.Message)
		}
		fmt.Printf("notes=%d links=%d dead=%d unknown_anchors=%d duplicate_labels=%d unmigrated=%d\n",
			report.TotalNotes, report.TotalLinks, report.DeadLinks,
			report.UnknownAnchors, report.DuplicateLabels, report.UnmigratedLinks,
		)
	}

	if report.HasErrors() {
		return fmt.Errorf("audit found %d error-level finding(s)", countErrors(report))
	}
	return nil
}

func countErrors(report importer.Report) int {
	n := 0
	for _, f := range report.Findings {
		if f.Severity == importer.SeverityError {
			n++
		}
	}
	return n
}
