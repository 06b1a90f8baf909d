package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

// newConfigurationValidator creates a comprehensive configuration validator.
func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

// validate performs comprehensive configuration validation using domain-specific methods.
func (cv *configurationValidator) validate() error {
	// Validate in order of dependencies
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateNav(); err != nil {
		return err
	}
	if err := cv.validateSidebar(); err != nil {
		return err
	}
	if err := cv.validatePlugins(); err != nil {
		return err
	}
	if err := cv.validateContent(); err != nil {
		return err
	}
	if err := cv.validateWatch(); err != nil {
		return err
	}
	if err := cv.validateEvents(); err != nil {
		return err
	}
	if err := cv.validatePaths(); err != nil {
		return err
	}
	return nil
}

// validateSite validates site-wide metadata.
func (cv *configurationValidator) validateSite() error {
	base := cv.config.Site.BaseURL
	if base == "" {
		return nil // default applied elsewhere
	}
	if strings.HasPrefix(base, "/") {
		return nil
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute path or http(s) URL: %s", base)
	}
	return nil
}

// validateNav checks that every navigation entry is a resolvable-looking target.
// Whether the target actually exists is a check-time concern, not a load error.
func (cv *configurationValidator) validateNav() error {
	for i, item := range cv.config.Theme.Nav {
		if strings.TrimSpace(item.Text) == "" {
			return fmt.Errorf("theme.nav[%d]: text cannot be empty", i)
		}
		if item.Link == "" {
			return fmt.Errorf("theme.nav[%d] (%s): link cannot be empty", i, item.Text)
		}
		if !strings.HasPrefix(item.Link, "/") && !isAbsoluteHTTP(item.Link) {
			return fmt.Errorf("theme.nav[%d] (%s): link must start with / or be an http(s) URL: %s", i, item.Text, item.Link)
		}
	}
	return nil
}

// validateSidebar checks group prefixes and entry shapes.
func (cv *configurationValidator) validateSidebar() error {
	for _, group := range cv.config.Theme.Sidebar.Groups {
		if !strings.HasPrefix(group.Prefix, "/") || !strings.HasSuffix(group.Prefix, "/") {
			return fmt.Errorf("sidebar prefix must start and end with /: %s", group.Prefix)
		}
		for _, entry := range group.Entries {
			if entry == "" {
				continue // group index page
			}
			if strings.HasPrefix(entry, "/") {
				return fmt.Errorf("sidebar group %s: entry must be relative to the group: %s", group.Prefix, entry)
			}
			if strings.Contains(entry, "..") {
				return fmt.Errorf("sidebar group %s: entry may not traverse directories: %s", group.Prefix, entry)
			}
		}
	}
	return nil
}

// validatePlugins validates plugin declarations.
func (cv *configurationValidator) validatePlugins() error {
	for i, plugin := range cv.config.Plugins {
		if strings.TrimSpace(plugin.Name) == "" {
			return fmt.Errorf("plugins[%d]: name cannot be empty", i)
		}
	}
	return nil
}

// validateContent validates the content location.
func (cv *configurationValidator) validateContent() error {
	if cv.config.Content.Dir == "" {
		return errors.New("content.dir cannot be empty")
	}
	return nil
}

// validateWatch validates watch-mode settings.
func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	if w == nil {
		return nil
	}

	if _, err := time.ParseDuration(w.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce: %s: %w", w.Debounce, err)
	}
	if _, err := time.ParseDuration(w.LinkRecheckInterval); err != nil {
		return fmt.Errorf("invalid watch.link_recheck_interval: %s: %w", w.LinkRecheckInterval, err)
	}
	if w.QueueSize < w.Workers {
		return fmt.Errorf("watch.queue_size (%d) must be >= watch.workers (%d)", w.QueueSize, w.Workers)
	}
	return nil
}

// validateEvents validates link-event settings and their TTL relationship.
func (cv *configurationValidator) validateEvents() error {
	e := cv.config.Events
	if e == nil {
		return nil
	}

	ttl, err := time.ParseDuration(e.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid events.cache_ttl: %s: %w", e.CacheTTL, err)
	}
	failTTL, err := time.ParseDuration(e.CacheTTLFailures)
	if err != nil {
		return fmt.Errorf("invalid events.cache_ttl_failures: %s: %w", e.CacheTTLFailures, err)
	}
	if failTTL > ttl {
		return fmt.Errorf("events.cache_ttl_failures (%s) must be <= events.cache_ttl (%s)", e.CacheTTLFailures, e.CacheTTL)
	}
	if _, err := time.ParseDuration(e.RequestTimeout); err != nil {
		return fmt.Errorf("invalid events.request_timeout: %s: %w", e.RequestTimeout, err)
	}
	return nil
}

// validatePaths ensures the emitted record cannot clobber the sources.
func (cv *configurationValidator) validatePaths() error {
	out := filepath.Clean(cv.config.Emit.Directory)
	src := filepath.Clean(cv.config.Content.Dir)
	if out == src {
		return fmt.Errorf("emit.directory (%s) must not equal content.dir (%s)", cv.config.Emit.Directory, cv.config.Content.Dir)
	}
	return nil
}

func isAbsoluteHTTP(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
