package topology

import (
	"fmt"
	"os"
	"strings"
)

// hostname is swapped in tests.
var hostname = os.Hostname

// HostNotFoundError is returned when no host record matches the target.
type HostNotFoundError struct {
	Host string
}

func (e *HostNotFoundError) Error() string {
	return fmt.Sprintf("%s not found in template hosts section", e.Host)
}

// ResolvedHost is the host record selected for a run.
type ResolvedHost struct {
	// Name is the key of the matching entry in the hosts section.
	Name string

	Host
}

// ShortName returns the portion of name before the first dot.
func ShortName(name string) string {
	short, _, _ := strings.Cut(name, ".")
	return short
}

// ResolveHost finds the host record for target. An empty target means the
// local hostname. An exact key match is preferred; otherwise the first host
// whose short name equals the target's short name wins.
func (d *Document) ResolveHost(target string) (ResolvedHost, error) {
	if target == "" {
		name, err := hostname()
		if err != nil {
			return ResolvedHost{}, fmt.Errorf("get hostname: %w", err)
		}
		target = name
	}

	for _, nh := range d.Hosts {
		if nh.Name == target {
			return ResolvedHost{Name: nh.Name, Host: nh.Host}, nil
		}
	}

	short := ShortName(target)
	for _, nh := range d.Hosts {
		if ShortName(nh.Name) == short {
			return ResolvedHost{Name: nh.Name, Host: nh.Host}, nil
		}
	}

	return ResolvedHost{}, &HostNotFoundError{Host: target}
}

// Address returns the address assigned to ifname on this host.
func (h ResolvedHost) Address(ifname string) (string, error) {
	addr, ok := h.Addresses[ifname]
	if !ok {
		return "", fmt.Errorf("host %s has no address for interface %s", h.Name, ifname)
	}
	return addr, nil
}
