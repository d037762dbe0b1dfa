package topology

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sort"
)

// ErrDuplicateInterface indicates two tables share a primary interface.
var ErrDuplicateInterface = errors.New("duplicate interface assignment")

// TableContext is the per-table data handed to route, rule and interface
// templates.
type TableContext struct {
	Table   string
	Device  string
	Ifname  string
	Subnet  string
	Gateway string
}

// Vars returns the template variables for the context.
func (c TableContext) Vars() map[string]any {
	return map[string]any{
		"table":   c.Table,
		"device":  c.Device,
		"ifname":  c.Ifname,
		"subnet":  c.Subnet,
		"gateway": c.Gateway,
	}
}

// TableContexts builds one context per table for device, sorted by table
// name.
func (d *Document) TableContexts(device string) []TableContext {
	contexts := make([]TableContext, 0, len(d.Tables))
	for _, name := range d.TableNames() {
		t := d.Tables[name]
		contexts = append(contexts, TableContext{
			Table:   name,
			Device:  device,
			Ifname:  t.PrimaryIfname,
			Subnet:  t.Subnet,
			Gateway: t.DefaultGateway,
		})
	}
	return contexts
}

// InterfaceContexts indexes contexts by interface name and returns the
// interface names sorted ascending. Two contexts naming the same interface
// are an error.
func InterfaceContexts(contexts []TableContext) (map[string]TableContext, []string, error) {
	byIfname := make(map[string]TableContext, len(contexts))
	for _, c := range contexts {
		if prev, ok := byIfname[c.Ifname]; ok {
			return nil, nil, fmt.Errorf("%w: tables %s and %s both use %s", ErrDuplicateInterface, prev.Table, c.Table, c.Ifname)
		}
		byIfname[c.Ifname] = c
	}

	names := make([]string, 0, len(byIfname))
	for name := range byIfname {
		names = append(names, name)
	}
	sort.Strings(names)
	return byIfname, names, nil
}

// Subnet is a parsed IPv4 network.
type Subnet struct {
	NetworkAddress string
	Netmask        string
	Bits           int
}

// ParseSubnet parses an IPv4 CIDR. Host bits must be zero.
func ParseSubnet(cidr string) (Subnet, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return Subnet{}, fmt.Errorf("parse subnet %q: %w", cidr, err)
	}
	if !prefix.Addr().Is4() {
		return Subnet{}, fmt.Errorf("subnet %q is not IPv4", cidr)
	}
	if prefix.Masked() != prefix {
		return Subnet{}, fmt.Errorf("subnet %q has host bits set", cidr)
	}

	return Subnet{
		NetworkAddress: prefix.Addr().String(),
		Netmask:        net.IP(net.CIDRMask(prefix.Bits(), 32)).String(),
		Bits:           prefix.Bits(),
	}, nil
}
