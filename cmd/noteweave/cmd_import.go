package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noteweave/noteweave/internal/importer"
)

var (
	importPlanOut     string
	importIDStrategy  string
	importTitleKey    string
	importAliasKeys   []string
	importApplyOp     string
	importOnConflict  string
	importDryRun      bool
	importManifestOut string
)

func init() {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Plan, apply, and roll back bulk imports of external Markdown files",
	}
	rootCmd.AddCommand(importCmd)

	planCmd := &cobra.Command{
		Use:   "plan <src-dir>",
		Short: "Scan a source directory and write an import plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportPlan(args[0])
		},
	}
	planCmd.Flags().StringVar(&importPlanOut, "out", "", "file to write the plan JSON to (default: stdout)")
	planCmd.Flags().StringVar(&importIDStrategy, "id-strategy", "random", "id generation strategy: random, hash, or slug")
	planCmd.Flags().StringVar(&importTitleKey, "title-key", "", "frontmatter key to read as title")
	planCmd.Flags().StringSliceVar(&importAliasKeys, "alias-key", nil, "frontmatter key(s) to read as aliases")
	importCmd.AddCommand(planCmd)

	applyCmd := &cobra.Command{
		Use:   "apply <plan.json>",
		Short: "Apply a previously generated plan into the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportApply(args[0])
		},
	}
	applyCmd.Flags().StringVar(&importApplyOp, "operation", "copy", "copy or move source files")
	applyCmd.Flags().StringVar(&importOnConflict, "on-conflict", "skip", "skip, new-id, or fail when a destination already exists")
	applyCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate without writing any files")
	applyCmd.Flags().StringVar(&importManifestOut, "manifest-out", "", "file to write the applied manifest JSON to (default: stdout)")
	importCmd.AddCommand(applyCmd)

	rollbackCmd := &cobra.Command{
		Use:   "rollback <manifest.json>",
		Short: "Reverse a previously applied import using its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportRollback(args[0])
		},
	}
	importCmd.AddCommand(rollbackCmd)
}

func runImportPlan(srcDir string) error {
	opts := importer.PlanOptions{
		IDStrategy: importer.IDStrategy(importIDStrategy),
		TitleKey:   importTitleKey,
		AliasKeys:  importAliasKeys,
	}
	plan, err := importer.BuildPlan(srcDir, opts, importer.Now())
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	if err := writeJSONOut(plan, importPlanOut); err != nil {
		return err
	}
	if len(plan.Conflicts) > 0 {
		printVerbose("warning: %d conflicting title/alias group(s) detected\n", len(plan.Conflicts))
	}
	return nil
}

func runImportApply(planPath string) error {
	var plan importer.Plan
	if err := readJSONIn(planPath, &plan); err != nil {
		return fmt.Errorf("reading plan: %w", err)
	}

	_, cfg, err := openVault()
	if err != nil {
		return err
	}

	opts := importer.ApplyOptions{
		Operation:  importer.Operation(importApplyOp),
		OnConflict: importer.ConflictPolicy(importOnConflict),
		DryRun:     importDryRun,
	}
	manifest, err := importer.Apply(plan, cfg.VaultDir, opts)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	return writeJSONOut(manifest, importManifestOut)
}

func runImportRollback(manifestPath string) error {
	var manifest importer.Manifest
	if err := readJSONIn(manifestPath, &manifest); err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	if err := importer.Rollback(manifest); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	printVerbose("rolled back %d entries\n", len(manifest.Entries))
	return nil
}

func writeJSONOut(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSONIn(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
