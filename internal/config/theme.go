package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ThemeConfig carries navigation and sidebar structure for the renderer.
type ThemeConfig struct {
	Nav          []NavItem `yaml:"nav,omitempty"`
	Sidebar      Sidebar   `yaml:"sidebar,omitempty"`
	SidebarDepth int       `yaml:"sidebar_depth,omitempty"`
	LastUpdated  bool      `yaml:"last_updated,omitempty"`
	RepoURL      string    `yaml:"repo_url,omitempty"`
	EditLinks    bool      `yaml:"edit_links,omitempty"`
	EditLinkText string    `yaml:"edit_link_text,omitempty"`
}

// NavItem is a top-level navigation entry.
type NavItem struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

// SidebarGroup is one collapsible navigation section: a route prefix and the
// ordered page entries beneath it. An empty entry denotes the group's index
// page; entries ending in "/" denote the index page of that subdirectory.
type SidebarGroup struct {
	Prefix  string
	Entries []string
}

// Sidebar holds the sidebar groups in authored order.
//
// The YAML form is a mapping of route prefix to entry list. Group order
// drives rendering, so decoding walks the document nodes instead of a Go map.
type Sidebar struct {
	Groups []SidebarGroup
}

// UnmarshalYAML decodes the mapping form while preserving document order and
// rejecting duplicate prefixes.
func (s *Sidebar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("sidebar must be a mapping of route prefix to entries (line %d)", value.Line)
	}

	seen := make(map[string]bool, len(value.Content)/2)
	groups := make([]SidebarGroup, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var prefix string
		if err := keyNode.Decode(&prefix); err != nil {
			return fmt.Errorf("sidebar prefix at line %d: %w", keyNode.Line, err)
		}
		if seen[prefix] {
			return fmt.Errorf("duplicate sidebar prefix: %s", prefix)
		}
		seen[prefix] = true

		var entries []string
		if err := valNode.Decode(&entries); err != nil {
			return fmt.Errorf("sidebar group %s: %w", prefix, err)
		}
		groups = append(groups, SidebarGroup{Prefix: prefix, Entries: entries})
	}

	s.Groups = groups
	return nil
}

// MarshalYAML emits the mapping form in group order.
func (s Sidebar) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, g := range s.Groups {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: g.Prefix}
		valNode := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range g.Entries {
			entryNode := &yaml.Node{Kind: yaml.ScalarNode, Value: e}
			if e == "" {
				entryNode.Style = yaml.DoubleQuotedStyle
			}
			valNode.Content = append(valNode.Content, entryNode)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Len returns the number of groups.
func (s Sidebar) Len() int { return len(s.Groups) }

// Group returns the group for prefix, if present.
func (s Sidebar) Group(prefix string) (SidebarGroup, bool) {
	for _, g := range s.Groups {
		if g.Prefix == prefix {
			return g, true
		}
	}
	return SidebarGroup{}, false
}

// Prefixes returns the group prefixes in authored order.
func (s Sidebar) Prefixes() []string {
	out := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = g.Prefix
	}
	return out
}

// PluginDecl instructs the renderer to enable an optional behavior.
//
// Two YAML forms are accepted: a bare name scalar, or a {name, options}
// mapping. Declaration order is preserved.
type PluginDecl struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand for option-less plugins.
func (p *PluginDecl) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		p.Name = name
		p.Options = nil
		return nil
	case yaml.MappingNode:
		type plain PluginDecl
		var decoded plain
		if err := value.Decode(&decoded); err != nil {
			return err
		}
		*p = PluginDecl(decoded)
		return nil
	default:
		return fmt.Errorf("plugin declaration must be a name or a {name, options} mapping (line %d)", value.Line)
	}
}
