package sitecheck

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/logfields"
)

// Checker applies structural rules to a site.
type Checker struct {
	cfg   *Config
	rules []Rule
}

// NewChecker creates a checker with the full rule set.
func NewChecker(cfg *Config) *Checker {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}

	return &Checker{
		cfg: cfg,
		rules: []Rule{
			&SidebarMissingPageRule{},
			&SidebarDuplicateEntryRule{},
			&NavUnknownTargetRule{},
			&PluginConflictRule{},
			&PageMissingTitleRule{},
			&PageMissingDescriptionRule{},
			&LinkBrokenRule{},
			&PageOrphanedRule{},
		},
	}
}

// Run checks the configuration against the content inventory.
func (c *Checker) Run(siteCfg *config.Config, inv *content.Inventory) (*Result, error) {
	if siteCfg == nil {
		return nil, fmt.Errorf("site configuration is nil")
	}
	if inv == nil {
		return nil, fmt.Errorf("content inventory is nil")
	}

	start := time.Now()
	ctx := &Context{Config: siteCfg, Inventory: inv}
	result := &Result{
		Issues:     []Issue{},
		PagesTotal: inv.Len(),
	}

	for _, rule := range c.rules {
		if c.skipped(rule.Name()) {
			slog.Debug("rule skipped", logfields.Rule(rule.Name()))
			continue
		}

		issues, err := rule.Check(ctx)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}

		for _, issue := range issues {
			if c.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}

	slog.Debug("check complete",
		logfields.Count(len(result.Issues)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return result, nil
}

func (c *Checker) skipped(name string) bool {
	for _, skip := range c.cfg.SkipRules {
		if skip == name {
			return true
		}
	}
	return false
}
