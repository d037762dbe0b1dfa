// Package config builds the options a run is executed with.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultDestination is where network scripts are written.
	DefaultDestination = "/etc/sysconfig/network-scripts"

	// DefaultStateDir holds locks and backups when running as root.
	DefaultStateDir = "/var/lib/iftool"

	// UserStateDir holds locks and backups for everyone else.
	UserStateDir = "~/.local/state/iftool"

	// EnvPrefix prefixes environment overrides, e.g. IFTOOL_DESTINATION.
	EnvPrefix = "IFTOOL"
)

// Options holds everything a run needs beyond the topology document. It is
// built once per command and passed down; nothing reads global flags.
type Options struct {
	// Host is the target host name; empty means the local hostname.
	Host string

	// Destination is the directory rendered files are placed in.
	Destination string

	// StateDir holds locks and backups.
	StateDir string

	// Verbose enables extra output.
	Verbose bool

	// Confirm must be set for files to be written; otherwise the run is a
	// dry run.
	Confirm bool

	// Overwrite allows replacing files that already exist.
	Overwrite bool
}

// Load reads options from flags, falling back to IFTOOL_* environment
// variables and then defaults. The write switches (--yes, --overwrite) are
// only ever taken from flags.
func Load(flags *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("destination", DefaultDestination)
	v.SetDefault("state-dir", defaultStateDir())

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	opts := &Options{
		Host:      v.GetString("host"),
		Verbose:   v.GetBool("verbose"),
		Confirm:   boolFlag(flags, "yes"),
		Overwrite: boolFlag(flags, "overwrite"),
	}

	var err error
	if opts.Destination, err = expand(v.GetString("destination")); err != nil {
		return nil, err
	}
	if opts.StateDir, err = expand(v.GetString("state-dir")); err != nil {
		return nil, err
	}
	return opts, nil
}

// SetDestination overrides the destination, expanding a leading ~.
func (o *Options) SetDestination(path string) error {
	expanded, err := expand(path)
	if err != nil {
		return err
	}
	o.Destination = expanded
	return nil
}

// DryRun reports whether files will only be previewed.
func (o *Options) DryRun() bool {
	return !o.Confirm
}

// ExpandPath expands a leading ~ in path.
func ExpandPath(path string) (string, error) {
	return expand(path)
}

func expand(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return expanded, nil
}

// geteuid is swapped in tests.
var geteuid = os.Geteuid

func defaultStateDir() string {
	if geteuid() == 0 {
		return DefaultStateDir
	}
	return UserStateDir
}

func boolFlag(flags *pflag.FlagSet, name string) bool {
	if flags.Lookup(name) == nil {
		return false
	}
	v, err := flags.GetBool(name)
	return err == nil && v
}
