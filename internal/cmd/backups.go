package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/iftool/internal/backup"
	"github.com/cameronsjo/iftool/internal/config"
	"github.com/cameronsjo/iftool/internal/lock"
	"github.com/cameronsjo/iftool/internal/ui"
)

// backupsCmd lists backups of replaced files.
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backups of replaced files",
	Long: `List the backups taken whenever configure --overwrite replaced files,
newest first. At most ` + fmt.Sprint(backup.MaxBackups) + ` backups are kept.`,
	Args: cobra.NoArgs,
	RunE: runBackups,
}

// restoreCmd puts a backup's files back.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup>",
	Short: "Restore files from a backup",
	Long: `Copy the files of a backup back to the directory they were taken from.

Without --yes the files that would be restored are only listed.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBackupNames,
	RunE:              runRestore,
}

func init() {
	addStateDirFlag(backupsCmd.Flags())

	addStateDirFlag(restoreCmd.Flags())
	restoreCmd.Flags().BoolP("yes", "y", false, "Required for files to be restored")

	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackups(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	backups, err := backup.List(opts.StateDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(backups) == 0 {
		ui.Info(out, "No backups in %s", backup.Dir(opts.StateDir))
		return nil
	}

	for _, b := range backups {
		ui.Plain(out, "%s  %-14s %2d file(s)  %s", b.Name, humanize.Time(b.Created), len(b.Files), b.Destination)
	}
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	backups, err := backup.List(opts.StateDir)
	if err != nil {
		return err
	}

	var target *backup.Info
	for i := range backups {
		if backups[i].Name == args[0] {
			target = &backups[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", backup.ErrNotFound, args[0])
	}

	out := cmd.OutOrStdout()
	if opts.DryRun() {
		ui.Yellow.Fprintf(out, "<DRY-RUN> not restoring %s into %s\n", target.Name, target.Destination)
		for _, f := range target.Files {
			ui.Plain(out, "> %s", f)
		}
		ui.Plain(out, `Use "--yes" option to restore files.`)
		return nil
	}

	return lock.WithLock(opts.StateDir, lock.ForDestination(target.Destination), func() error {
		m, err := backup.Restore(opts.StateDir, target.Name)
		if err != nil {
			return err
		}
		ui.Success(out, "Restored %d file(s) into %s", len(m.Files), m.Destination)
		return nil
	})
}
