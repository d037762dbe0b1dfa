package topology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// IncludeTag marks a scalar whose value names a file to inline.
const IncludeTag = "!include"

// ErrIncludeCycle indicates a file includes itself, directly or indirectly.
var ErrIncludeCycle = errors.New("include cycle")

// Load reads the topology document at path, resolving includes, and
// decodes it.
func Load(path string) (*Document, error) {
	root, err := LoadTree(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

// LoadTree reads the YAML file at path and returns its root node with every
// !include directive replaced by the root node of the referenced file.
func LoadTree(path string) (*yaml.Node, error) {
	return loadTree(path, make(map[string]bool))
}

func loadTree(path string, active map[string]bool) (*yaml.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if active[abs] {
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, path)
	}
	active[abs] = true
	defer delete(active, abs)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Empty files decode to a zero node.
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}

	root := doc.Content[0]
	if err := resolveIncludes(root, filepath.Dir(path), active); err != nil {
		return nil, fmt.Errorf("include in %s: %w", path, err)
	}
	return root, nil
}

func resolveIncludes(node *yaml.Node, dir string, active map[string]bool) error {
	if node.Tag == IncludeTag {
		if node.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s expects a file name", node.Line, IncludeTag)
		}

		target := node.Value
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}

		included, err := loadTree(target, active)
		if err != nil {
			return err
		}
		*node = *included
		return nil
	}

	for _, child := range node.Content {
		if err := resolveIncludes(child, dir, active); err != nil {
			return err
		}
	}
	return nil
}
