package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
)

// InspectCmd implements the 'inspect' command. It shows how navigation,
// sidebar and plugin declarations resolve against the content tree without
// emitting anything.
type InspectCmd struct {
	Pages bool `help:"Also list every discovered page with its route"`
}

func (i *InspectCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	inv, err := content.Scan(ResolveContentDir(cfg, root.Config))
	if err != nil {
		return fmt.Errorf("scan content: %w", err)
	}

	return RunInspect(os.Stdout, cfg, inv, i.Pages)
}

// RunInspect writes the resolved site view to w.
func RunInspect(w io.Writer, cfg *config.Config, inv *content.Inventory, listPages bool) error {
	fmt.Fprintf(w, "Site: %s\n", cfg.Site.Title)
	if cfg.Site.Description != "" {
		fmt.Fprintf(w, "  %s\n", cfg.Site.Description)
	}
	fmt.Fprintf(w, "  base_url=%s lang=%s content=%s\n", cfg.Site.BaseURL, cfg.Site.Lang, inv.Dir)
	fmt.Fprintln(w)

	inspectNav(w, cfg, inv)
	inspectSidebar(w, cfg, inv)
	inspectPlugins(w, cfg)

	fmt.Fprintf(w, "Pages: %d markdown, %d assets\n", len(inv.Pages), len(inv.Assets))
	if listPages {
		for _, p := range inv.Pages {
			fmt.Fprintf(w, "  %-40s %s\n", p.Route, p.RelativePath)
		}
	}
	return nil
}

func inspectNav(w io.Writer, cfg *config.Config, inv *content.Inventory) {
	fmt.Fprintf(w, "Navigation (%d items):\n", len(cfg.Theme.Nav))
	for _, item := range cfg.Theme.Nav {
		route := content.NavRoute(item.Link)
		switch {
		case route == "":
			fmt.Fprintf(w, "  - %-20s %s (external)\n", item.Text, item.Link)
		case inv.HasRoute(route):
			fmt.Fprintf(w, "  ✓ %-20s %s -> %s\n", item.Text, item.Link, route)
		default:
			fmt.Fprintf(w, "  ✗ %-20s %s -> %s (no page)\n", item.Text, item.Link, route)
		}
	}
	fmt.Fprintln(w)
}

func inspectSidebar(w io.Writer, cfg *config.Config, inv *content.Inventory) {
	groups := cfg.Theme.Sidebar.Groups
	fmt.Fprintf(w, "Sidebar (%d groups):\n", len(groups))
	for _, group := range groups {
		fmt.Fprintf(w, "  %s\n", group.Prefix)
		for _, entry := range group.Entries {
			label := entry
			if label == "" {
				label = "''"
			}
			route := content.ResolveEntry(group.Prefix, entry)
			if inv.HasRoute(route) {
				fmt.Fprintf(w, "    ✓ %-20s -> %s\n", label, route)
			} else {
				candidates := content.EntryCandidates(group.Prefix, entry)
				fmt.Fprintf(w, "    ✗ %-20s -> %s (expected %s)\n",
					label, route, strings.Join(candidates, " or "))
			}
		}
	}
	fmt.Fprintln(w)
}

func inspectPlugins(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Plugins (%d):\n", len(cfg.Plugins))
	for i, plugin := range cfg.Plugins {
		if len(plugin.Options) > 0 {
			fmt.Fprintf(w, "  %d. %s (%d options)\n", i+1, plugin.Name, len(plugin.Options))
		} else {
			fmt.Fprintf(w, "  %d. %s\n", i+1, plugin.Name)
		}
	}
	fmt.Fprintln(w)
}
