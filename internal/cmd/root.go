// Package cmd provides the CLI commands for iftool.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/iftool/internal/ui"
)

const version = "1.0.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "iftool",
	Short: "Network interface configuration control tool",
	Long: `iftool - network interface configuration control tool

Renders network-script files (VLAN device, static routes, routing rules and
one file per interface) for one host from a YAML topology document whose
templates section holds the file name and content templates.

Nothing is written unless --yes is given; without it every file is shown
as a dry run.

COMMANDS
  configure <template> [destination]  Generate the host's network scripts
  validate <template>                 Check a topology without output
  hosts <template>                    List hosts in a topology
  backups                             List backups of replaced files
  restore <backup>                    Put a backup's files back

ENVIRONMENT
  IFTOOL_HOST          Default for --host (otherwise the local hostname)
  IFTOOL_DESTINATION   Default destination directory
  IFTOOL_STATE_DIR     Default for --state-dir
  IFTOOL_VERBOSE       Default for --verbose`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Red.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Display extra output")

	rootCmd.SetVersionTemplate("iftool version {{.Version}}\n")
}
