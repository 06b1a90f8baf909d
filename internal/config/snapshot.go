package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of record-affecting normalized configuration fields.
// It is intentionally narrower than full serialization to avoid noisy rebuilds when
// unrelated config fields change. Nav order, sidebar group order, and plugin order are
// semantic in this document, so those fields hash in authored order; only plugin option
// maps are key-sorted. Callers SHOULD run NormalizeConfig + applyDefaults before
// computing a snapshot to ensure canonical field values.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	// Site essentials
	w("site.title", c.Site.Title)
	w("site.description", c.Site.Description)
	w("site.base_url", c.Site.BaseURL)
	w("site.lang", c.Site.Lang)
	// Theme structure
	for i, item := range c.Theme.Nav {
		w("theme.nav."+strconv.Itoa(i), item.Text, item.Link)
	}
	for _, g := range c.Theme.Sidebar.Groups {
		w("theme.sidebar."+g.Prefix, strings.Join(g.Entries, ","))
	}
	w("theme.sidebar_depth", strconv.Itoa(c.Theme.SidebarDepth))
	w("theme.last_updated", strconv.FormatBool(c.Theme.LastUpdated))
	// Plugins
	for i, p := range c.Plugins {
		w("plugins."+strconv.Itoa(i), p.Name)
		if len(p.Options) > 0 {
			keys := make([]string, 0, len(p.Options))
			for k := range p.Options {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				w("plugins."+strconv.Itoa(i)+".options."+k, fmt.Sprintf("%v", p.Options[k]))
			}
		}
	}
	// Inputs and outputs
	w("content.dir", c.Content.Dir)
	w("emit.directory", c.Emit.Directory)
	return hex.EncodeToString(h.Sum(nil))
}
