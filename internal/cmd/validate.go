package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/iftool/internal/config"
	"github.com/cameronsjo/iftool/internal/preflight"
	"github.com/cameronsjo/iftool/internal/render"
	"github.com/cameronsjo/iftool/internal/ui"
)

// validateCmd checks a topology document without output.
var validateCmd = &cobra.Command{
	Use:   "validate <template>",
	Short: "Validate a topology document",
	Long: `Validate a topology document for one host without writing anything.

This command performs validation checks:
  1. The document and its includes load
  2. The host resolves
  3. Tables are complete and every table interface has an address
  4. Every template renders
  5. The destination and state directory are writable (warnings only)

Examples:
  iftool validate topology.yml              # Validate for this host
  iftool validate --host web1 topology.yml  # Validate for web1
  iftool validate --destination ./out topology.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	addHostFlag(validateCmd.Flags())
	addStateDirFlag(validateCmd.Flags())
	validateCmd.Flags().String("destination", "", "Directory files would be written to (default: "+config.DefaultDestination+")")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	doc, host, err := loadTopology(args[0], opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.Success(out, "Host %s resolves (device %s)", host.Name, host.Device)

	if err := doc.Validate(host); err != nil {
		return fmt.Errorf("invalid topology:\n%w", err)
	}
	ui.Success(out, "%d table(s) complete", len(doc.Tables))

	files, err := render.New(doc, host, opts.Destination).All()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	ui.Success(out, "%d file(s) render", len(files))
	for _, f := range files {
		ui.Verbose(out, opts.Verbose, "  %-10s %s", f.Section, f.Path)
	}

	// Environment problems do not make the document invalid; the same
	// document is usually validated away from the machine it targets.
	warnings, problems := preflight.CheckAll(opts.Destination, opts.StateDir)
	for _, p := range problems {
		ui.Error(out, "%s", p)
	}
	for _, w := range warnings {
		ui.Warning(out, "%s", w)
	}
	return nil
}
