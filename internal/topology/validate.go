package topology

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	// ErrMissingTemplate indicates a required template section is absent.
	ErrMissingTemplate = errors.New("missing template")

	// ErrIncompleteTable indicates a table record lacks a required field.
	ErrIncompleteTable = errors.New("incomplete table")

	// ErrMissingAddress indicates a host lacks an address for a table's interface.
	ErrMissingAddress = errors.New("missing address")
)

// Validate checks the document against host and reports every problem it
// finds rather than stopping at the first one.
func (d *Document) Validate(host ResolvedHost) error {
	var errs []error

	for _, section := range Sections {
		if section == SectionDevice && !d.VLANEnabled() {
			continue
		}
		tmpl, ok := d.Templates[section]
		if !ok || tmpl.Filename == "" {
			errs = append(errs, fmt.Errorf("%w: templates.%s.filename", ErrMissingTemplate, section))
		}
	}

	for _, name := range d.TableNames() {
		t := d.Tables[name]
		if t.PrimaryIfname == "" {
			errs = append(errs, fmt.Errorf("%w: %s has no primary ifname", ErrIncompleteTable, name))
		}
		if t.Subnet == "" {
			errs = append(errs, fmt.Errorf("%w: %s has no subnet", ErrIncompleteTable, name))
		} else if _, err := ParseSubnet(t.Subnet); err != nil {
			errs = append(errs, fmt.Errorf("table %s: %w", name, err))
		}
		if t.DefaultGateway == "" {
			errs = append(errs, fmt.Errorf("%w: %s has no default gateway", ErrIncompleteTable, name))
		}
		if t.PrimaryIfname != "" {
			if _, ok := host.Addresses[t.PrimaryIfname]; !ok {
				errs = append(errs, fmt.Errorf("%w: host %s has no address for %s (table %s)", ErrMissingAddress, host.Name, t.PrimaryIfname, name))
			}
		}
	}

	if _, _, err := InterfaceContexts(d.TableContexts(host.Device)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
