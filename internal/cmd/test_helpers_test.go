package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag in the command tree back to its default so
// values do not leak between executions of the shared rootCmd.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCmd executes the root command with the given args and returns the output.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = oldNoColor })

	resetFlags(rootCmd)
	for _, sub := range rootCmd.Commands() {
		sub.SetContext(context.TODO())
	}

	buf := new(bytes.Buffer)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

// fixture is a topology document on disk plus empty destination and state
// directories.
type fixture struct {
	template    string
	destination string
	stateDir    string
}

const fixtureTopology = `global:
  vlan: 100
hosts:
  db1.example.com:
    device: bond0
    addresses:
      bond0.101: 10.0.1.9
  web1:
    device: eth0
    addresses: !include addresses/web1.yml
tables: !include tables.yml
templates:
  device:
    filename: ifcfg-{{ .device }}
    content: |
      DEVICE={{ .device }}
      VLAN_ID={{ .vlan }}
  route:
    filename: route-{{ .device }}
    content: |
      {{ range .tables -}}
      default via {{ .gateway }} dev {{ .ifname }} table {{ .table }}
      {{ end -}}
  rule:
    filename: rule-{{ .device }}
    content: |
      {{ range .tables -}}
      from {{ .subnet }} table {{ .table }}
      {{ end -}}
  interface:
    filename: ifcfg-{{ .ifname }}
    content: |
      DEVICE={{ .ifname }}
      IPADDR={{ .address }}
      NETWORK={{ .network_address }}
      NETMASK={{ .netmask }}
`

const fixtureTables = `public:
  primary ifname: eth0.101
  subnet: 10.0.1.0/24
  default gateway: 10.0.1.1
backend:
  primary ifname: eth0.102
  subnet: 10.0.2.0/24
  default gateway: 10.0.2.1
`

const fixtureAddresses = `eth0.101: 10.0.1.5
eth0.102: 10.0.2.5
`

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("topology.yml", fixtureTopology)
	write("tables.yml", fixtureTables)
	write("addresses/web1.yml", fixtureAddresses)

	// Keep the environment from changing defaults.
	for _, key := range []string{"IFTOOL_HOST", "IFTOOL_DESTINATION", "IFTOOL_STATE_DIR", "IFTOOL_VERBOSE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	return fixture{
		template:    filepath.Join(dir, "topology.yml"),
		destination: t.TempDir(),
		stateDir:    t.TempDir(),
	}
}

func (f fixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.destination)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.destination, name))
	require.NoError(t, err)
	return string(data)
}
