package topology

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Template section names.
const (
	SectionDevice    = "device"
	SectionRoute     = "route"
	SectionRule      = "rule"
	SectionInterface = "interface"
)

// Sections lists the template sections in render order.
var Sections = []string{SectionDevice, SectionRoute, SectionRule, SectionInterface}

// Document is a parsed topology document.
type Document struct {
	// Global holds settings shared by every host.
	Global Global `yaml:"global"`

	// Hosts maps host names to their records, in document order.
	Hosts Hosts `yaml:"hosts"`

	// Tables maps routing table names to their records.
	Tables Tables `yaml:"tables"`

	// Templates maps a section name to its filename and content templates.
	Templates map[string]Template `yaml:"templates"`
}

// Global holds the document-wide settings.
type Global struct {
	// VLAN is the VLAN identifier; any truthy scalar enables the device file.
	VLAN any `yaml:"vlan"`
}

// Host is a single host record.
type Host struct {
	// Device is the physical network device name, e.g. "eth0".
	Device string `yaml:"device"`

	// Addresses maps interface names to IPv4 addresses.
	Addresses map[string]string `yaml:"addresses"`
}

// NamedHost pairs a host record with its key in the hosts section.
type NamedHost struct {
	Name string
	Host Host
}

// Hosts is the hosts section with document order preserved.
type Hosts []NamedHost

// UnmarshalYAML decodes a mapping node while keeping key order.
func (h *Hosts) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*h = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: hosts must be a mapping", value.Line)
	}

	hosts := make(Hosts, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("decode host name: %w", err)
		}
		var host Host
		if err := value.Content[i+1].Decode(&host); err != nil {
			return fmt.Errorf("decode host %s: %w", name, err)
		}
		hosts = append(hosts, NamedHost{Name: name, Host: host})
	}

	*h = hosts
	return nil
}

// Names returns the host names in document order.
func (h Hosts) Names() []string {
	names := make([]string, 0, len(h))
	for _, nh := range h {
		names = append(names, nh.Name)
	}
	return names
}

// Table is a policy routing table record.
type Table struct {
	// PrimaryIfname is the interface that carries the table's traffic.
	PrimaryIfname string `yaml:"primary ifname"`

	// Subnet is the table's IPv4 network in CIDR notation.
	Subnet string `yaml:"subnet"`

	// DefaultGateway is the table's default route next hop.
	DefaultGateway string `yaml:"default gateway"`

	// Integer keys (routing table numbers) sort numerically.
	number   int64
	numbered bool
}

// Tables is the tables section keyed by table name.
type Tables map[string]Table

// UnmarshalYAML decodes a mapping node, remembering which keys are integers.
func (t *Tables) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*t = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tables must be a mapping", value.Line)
	}

	tables := make(Tables, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		var name string
		if err := key.Decode(&name); err != nil {
			return fmt.Errorf("decode table name: %w", err)
		}
		var table Table
		if err := value.Content[i+1].Decode(&table); err != nil {
			return fmt.Errorf("decode table %s: %w", name, err)
		}
		if key.ShortTag() == "!!int" {
			if err := key.Decode(&table.number); err != nil {
				return fmt.Errorf("decode table number %s: %w", name, err)
			}
			table.numbered = true
		}
		tables[name] = table
	}

	*t = tables
	return nil
}

// less orders integer keys numerically ahead of names, and names lexically.
func (t Tables) less(a, b string) bool {
	ta, tb := t[a], t[b]
	switch {
	case ta.numbered && tb.numbered:
		if ta.number != tb.number {
			return ta.number < tb.number
		}
		return a < b
	case ta.numbered != tb.numbered:
		return ta.numbered
	default:
		return a < b
	}
}

// Template is a pair of filename and content templates.
type Template struct {
	Filename string `yaml:"filename"`
	Content  string `yaml:"content"`
}

// TableNames returns the table names sorted ascending: numbered tables
// first in numeric order, then named tables.
func (d *Document) TableNames() []string {
	names := make([]string, 0, len(d.Tables))
	for name := range d.Tables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return d.Tables.less(names[i], names[j])
	})
	return names
}

// VLANEnabled reports whether global.vlan is set to a truthy value.
func (d *Document) VLANEnabled() bool {
	return truthy(d.Global.VLAN)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
