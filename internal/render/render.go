// Package render turns a topology document into network-script files for
// one host.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/cameronsjo/iftool/internal/topology"
)

// ErrUnsafeFilename indicates a rendered filename escapes the destination.
var ErrUnsafeFilename = errors.New("filename escapes destination")

// File is a rendered output file.
type File struct {
	// Section is the template section that produced the file.
	Section string

	// Path is the destination path, joined to the destination directory.
	Path string

	// Content is the rendered file content.
	Content string
}

// Renderer renders the template sections of a document for one host.
type Renderer struct {
	doc         *topology.Document
	host        topology.ResolvedHost
	destination string
	tables      []topology.TableContext
}

// New creates a Renderer. Rendered filenames are placed in destination.
func New(doc *topology.Document, host topology.ResolvedHost, destination string) *Renderer {
	return &Renderer{
		doc:         doc,
		host:        host,
		destination: destination,
		tables:      doc.TableContexts(host.Device),
	}
}

// All renders every section in order: device (only when a VLAN is set),
// routes, rules, then one file per interface.
func (r *Renderer) All() ([]*File, error) {
	var files []*File

	if r.doc.VLANEnabled() {
		device, err := r.Device()
		if err != nil {
			return nil, err
		}
		files = append(files, device)
	}

	routes, err := r.Routes()
	if err != nil {
		return nil, err
	}
	rules, err := r.Rules()
	if err != nil {
		return nil, err
	}
	files = append(files, routes, rules)

	interfaces, err := r.Interfaces()
	if err != nil {
		return nil, err
	}
	return append(files, interfaces...), nil
}

// Device renders the VLAN device file.
func (r *Renderer) Device() (*File, error) {
	vars := map[string]any{
		"device": r.host.Device,
		"vlan":   r.doc.Global.VLAN,
	}
	return r.render(topology.SectionDevice, vars, vars)
}

// Routes renders the static route file.
func (r *Renderer) Routes() (*File, error) {
	return r.renderTables(topology.SectionRoute)
}

// Rules renders the routing rule file.
func (r *Renderer) Rules() (*File, error) {
	return r.renderTables(topology.SectionRule)
}

func (r *Renderer) renderTables(section string) (*File, error) {
	tables := make([]map[string]any, 0, len(r.tables))
	for _, c := range r.tables {
		tables = append(tables, c.Vars())
	}

	return r.render(section,
		map[string]any{"device": r.host.Device},
		map[string]any{"device": r.host.Device, "tables": tables},
	)
}

// Interfaces renders one file per interface named by a table, in interface
// name order.
func (r *Renderer) Interfaces() ([]*File, error) {
	byIfname, names, err := topology.InterfaceContexts(r.tables)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(names))
	for _, ifname := range names {
		c := byIfname[ifname]

		address, err := r.host.Address(ifname)
		if err != nil {
			return nil, err
		}
		subnet, err := topology.ParseSubnet(c.Subnet)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", c.Table, err)
		}

		vars := map[string]any{
			"device":          r.host.Device,
			"ifname":          ifname,
			"address":         address,
			"network_address": subnet.NetworkAddress,
			"netmask":         subnet.Netmask,
			"prefix":          subnet.Bits,
			"gateway":         c.Gateway,
			"table":           c.Table,
		}
		f, err := r.render(topology.SectionInterface, vars, vars)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", ifname, err)
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *Renderer) render(section string, filenameVars, contentVars map[string]any) (*File, error) {
	tmpl, ok := r.doc.Templates[section]
	if !ok {
		return nil, fmt.Errorf("templates.%s: section not defined", section)
	}

	name, err := execute(section+".filename", tmpl.Filename, filenameVars)
	if err != nil {
		return nil, err
	}
	path, err := r.join(name)
	if err != nil {
		return nil, fmt.Errorf("templates.%s.filename: %w", section, err)
	}

	content, err := execute(section+".content", tmpl.Content, contentVars)
	if err != nil {
		return nil, err
	}

	return &File{Section: section, Path: path, Content: content}, nil
}

// join places name inside the destination directory.
func (r *Renderer) join(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("rendered filename is empty")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeFilename, name)
	}

	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeFilename, name)
	}
	return filepath.Join(r.destination, clean), nil
}

// execute renders text with the sprig function map. Missing variables are
// errors.
func execute(name, text string, vars map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
