package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/iftool/internal/config"
	"github.com/cameronsjo/iftool/internal/output"
	"github.com/cameronsjo/iftool/internal/render"
	"github.com/cameronsjo/iftool/internal/ui"
)

// configureCmd generates the network scripts for one host.
var configureCmd = &cobra.Command{
	Use:   "configure <template> [destination]",
	Short: "Generate network configuration files",
	Long: `Generate network configuration files described by <template>.

<destination> is where to place the files (default: ` + config.DefaultDestination + `)
and --host is the server to write the files for (default: the local hostname).

Without --yes nothing is written; each file is printed as a dry run.
Existing files are only replaced with --overwrite, and are backed up to
--state-dir first.

Examples:
  iftool configure topology.yml                    # Dry run for this host
  iftool configure --host web1 topology.yml out/   # Dry run for web1 into out/
  iftool configure -y --overwrite topology.yml     # Write, replacing files`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigure,
}

func init() {
	flags := configureCmd.Flags()
	addHostFlag(flags)
	addStateDirFlag(flags)
	addWriteFlags(flags)

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if len(args) > 1 {
		if err := opts.SetDestination(args[1]); err != nil {
			return err
		}
	}

	doc, host, err := loadTopology(args[0], opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.Verbose(out, opts.Verbose, "Configuring %s (device %s) into %s", host.Name, host.Device, opts.Destination)

	files, err := render.New(doc, host, opts.Destination).All()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	result, err := output.NewSink(out, opts).Emit(files)
	if err != nil {
		return err
	}

	if opts.DryRun() {
		return nil
	}
	ui.Success(out, "Wrote %d file(s) to %s", len(result.Written), opts.Destination)
	if result.Backup != "" {
		ui.Info(out, "Replaced files backed up as %s", result.Backup)
	}
	return nil
}
