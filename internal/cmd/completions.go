package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/iftool/internal/backup"
	"github.com/cameronsjo/iftool/internal/config"
)

// completeBackupNames completes backup names for restore.
func completeBackupNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Don't complete if we already have an argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	backups, err := backup.List(opts.StateDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, b := range backups {
		if strings.HasPrefix(b.Name, toComplete) {
			names = append(names, b.Name+"\t"+b.Destination)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
