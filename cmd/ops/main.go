package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/LifeXP-create/LifeXP/internal/ops"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var snapshotPath string

	root := &cobra.Command{
		Use:           "lifexp-ops",
		Short:         "Offline maintenance for the lifexp snapshot file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&snapshotPath, "snapshot", filepath.Join("data", "state.json"), "path to the snapshot file")

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := ops.Inspect(snapshotPath)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}

	repair := &cobra.Command{
		Use:   "repair",
		Short: "Normalize a snapshot file in place",
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := ops.Repair(snapshotPath)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "repaired")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "clean")
			}
			return nil
		},
	}

	var out string
	backup := &cobra.Command{
		Use:   "backup",
		Short: "Write a gzip backup of the snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "lifexp-"+ts+".json.gz")
			}
			if err := ops.Backup(snapshotPath, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	backup.Flags().StringVar(&out, "out", "", "output archive path (.json.gz)")

	var archive string
	restore := &cobra.Command{
		Use:   "restore",
		Short: "Restore the snapshot file from a backup archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			return ops.Restore(archive, snapshotPath)
		},
	}
	restore.Flags().StringVar(&archive, "archive", "", "input backup archive (.json.gz)")

	root.AddCommand(inspect, repair, backup, restore)
	return root
}
