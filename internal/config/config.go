package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the authored site configuration document.
type Config struct {
	Version string        `yaml:"version"`
	Site    SiteConfig    `yaml:"site"`
	Theme   ThemeConfig   `yaml:"theme"`
	Plugins []PluginDecl  `yaml:"plugins,omitempty"`
	Content ContentConfig `yaml:"content"`
	Check   CheckConfig   `yaml:"check,omitempty"`
	Emit    EmitConfig    `yaml:"emit"`
	Watch   *WatchConfig  `yaml:"watch,omitempty"`
	Events  *EventsConfig `yaml:"events,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
}

// SiteConfig carries the site-wide metadata the renderer record starts with.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Lang        string `yaml:"lang,omitempty"`
}

// ContentConfig locates the course pages on disk.
type ContentConfig struct {
	Dir            string   `yaml:"dir"`
	IgnorePatterns []string `yaml:"ignore_patterns,omitempty"`
}

// Load loads a configuration file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; existing process env wins.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate version
	if config.Version == "" {
		config.Version = "1.0"
	}
	if !strings.HasPrefix(config.Version, "1.") {
		return nil, fmt.Errorf("unsupported configuration version: %s (expected 1.x)", config.Version)
	}

	// Normalization pass (case-fold enumerations, bounds, early coercions)
	if nres, nerr := NormalizeConfig(&config); nerr != nil {
		return nil, fmt.Errorf("normalize: %w", nerr)
	} else if nres != nil && len(nres.Warnings) > 0 {
		for _, w := range nres.Warnings {
			fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
		}
	}
	// Apply defaults (after normalization so canonical values drive defaults)
	if err := applyDefaults(&config); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	// Validate configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults applies default values to configuration
func applyDefaults(config *Config) error {
	applier := NewDefaultApplier()
	return applier.ApplyDefaults(config)
}

// loadEnvFiles loads environment variables from the first .env-style file
// found. Existing process environment variables are never overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}

// Init writes an example configuration file describing a small course site.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Version: "1.0",
		Site: SiteConfig{
			Title:       "Exceptions and Errors",
			Description: "A course on exception handling in object-oriented programs",
			BaseURL:     "/",
			Lang:        "en-US",
		},
		Theme: ThemeConfig{
			Nav: []NavItem{
				{Text: "Home", Link: "/"},
				{Text: "Introduction", Link: "/introduction/"},
				{Text: "Basics", Link: "/basics/"},
				{Text: "Advanced", Link: "/advanced/"},
			},
			Sidebar: Sidebar{Groups: []SidebarGroup{
				{Prefix: "/introduction/", Entries: []string{"", "01_introduction/", "02_basics/"}},
				{Prefix: "/basics/", Entries: []string{"", "01_trycatch/", "02_throwing/"}},
				{Prefix: "/advanced/", Entries: []string{"", "01_custom_errors/", "02_best_practices/"}},
			}},
			SidebarDepth: 2,
			LastUpdated:  true,
		},
		Plugins: []PluginDecl{
			{Name: "image-zoom", Options: map[string]any{"selector": ".content img", "margin": 16}},
			{Name: "back-to-top"},
		},
		Content: ContentConfig{
			Dir: "docs",
		},
		Emit: EmitConfig{
			Directory: "./site",
			Clean:     true,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
