package sitecheck

import (
	"fmt"
	"sort"
)

// PluginConflictRule flags duplicate plugin declarations and option keys
// set to different values by more than one plugin. Which value the
// renderer applies in that case is implementation-defined, so the finding
// is a warning rather than an error.
type PluginConflictRule struct{}

// Name returns the rule identifier.
func (r *PluginConflictRule) Name() string {
	return "plugin-conflict"
}

// Check scans the declaration list in order.
func (r *PluginConflictRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	type optionOwner struct {
		plugin string
		value  any
	}
	seenPlugins := make(map[string]bool)
	optionOwners := make(map[string]optionOwner)

	for i, plugin := range ctx.Config.Plugins {
		if seenPlugins[plugin.Name] {
			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("plugins[%d]", i),
				Ref:      plugin.Name,
				Message:  fmt.Sprintf("plugin %q is declared more than once", plugin.Name),
				Fix:      "merge the declarations",
			})
		}
		seenPlugins[plugin.Name] = true

		keys := make([]string, 0, len(plugin.Options))
		for key := range plugin.Options {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := plugin.Options[key]
			owner, exists := optionOwners[key]
			if !exists {
				optionOwners[key] = optionOwner{plugin: plugin.Name, value: value}
				continue
			}
			if owner.plugin == plugin.Name {
				continue
			}
			if fmt.Sprintf("%v", owner.value) == fmt.Sprintf("%v", value) {
				continue // same value, no ambiguity
			}
			issues = append(issues, Issue{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("plugins[%d]", i),
				Ref:      key,
				Message: fmt.Sprintf("option %q set to %v by %q conflicts with %v set by %q",
					key, value, plugin.Name, owner.value, owner.plugin),
				Fix: "align the option values or scope them per plugin",
			})
		}
	}

	return issues, nil
}
