package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/iftool/internal/config"
	"github.com/cameronsjo/iftool/internal/topology"
	"github.com/cameronsjo/iftool/internal/ui"
)

// hostsCmd lists the hosts of a topology document.
var hostsCmd = &cobra.Command{
	Use:   "hosts <template>",
	Short: "List hosts in a topology document",
	Long: `List the hosts section of a topology document in document order.

The host that --host (or the local hostname) resolves to is marked with *.`,
	Args: cobra.ExactArgs(1),
	RunE: runHosts,
}

func init() {
	addHostFlag(hostsCmd.Flags())

	rootCmd.AddCommand(hostsCmd)
}

func runHosts(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	path, err := config.ExpandPath(args[0])
	if err != nil {
		return err
	}
	doc, err := topology.Load(path)
	if err != nil {
		return fmt.Errorf("load topology: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(doc.Hosts) == 0 {
		ui.Warning(out, "No hosts defined in %s", args[0])
		return nil
	}

	// An unresolved host is not an error here; nothing gets marked.
	resolved, resolveErr := doc.ResolveHost(opts.Host)
	var notFound *topology.HostNotFoundError
	if resolveErr != nil && !errors.As(resolveErr, &notFound) {
		return resolveErr
	}

	ui.Header(out, "%-2s%-30s %-12s %s", "", "HOST", "DEVICE", "INTERFACES")
	for _, nh := range doc.Hosts {
		marker := ""
		if resolveErr == nil && nh.Name == resolved.Name {
			marker = "*"
		}
		ui.Plain(out, "%-2s%-30s %-12s %s", marker, nh.Name, nh.Host.Device, strings.Join(interfaceNames(nh.Host), ", "))
	}
	return nil
}

func interfaceNames(h topology.Host) []string {
	names := make([]string, 0, len(h.Addresses))
	for name := range h.Addresses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
