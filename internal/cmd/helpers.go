package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/cameronsjo/iftool/internal/config"
	"github.com/cameronsjo/iftool/internal/topology"
)

// addHostFlag registers --host on flags.
func addHostFlag(flags *pflag.FlagSet) {
	flags.String("host", "", "Host to generate files for (default: local hostname)")
}

// addStateDirFlag registers --state-dir on flags.
func addStateDirFlag(flags *pflag.FlagSet) {
	flags.String("state-dir", "", "Directory for locks and backups (default: "+config.DefaultStateDir+" as root, "+config.UserStateDir+" otherwise)")
}

// addWriteFlags registers the switches that allow changes on disk.
func addWriteFlags(flags *pflag.FlagSet) {
	flags.BoolP("yes", "y", false, "Required for changes to take effect and files to be written")
	flags.Bool("overwrite", false, "Required to replace existing files")
}

// loadTopology loads the document at path and resolves the target host
// once for the whole run.
func loadTopology(path string, opts *config.Options) (*topology.Document, topology.ResolvedHost, error) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, topology.ResolvedHost{}, err
	}

	doc, err := topology.Load(path)
	if err != nil {
		return nil, topology.ResolvedHost{}, fmt.Errorf("load topology: %w", err)
	}

	host, err := doc.ResolveHost(opts.Host)
	if err != nil {
		return nil, topology.ResolvedHost{}, err
	}
	return doc, host, nil
}
