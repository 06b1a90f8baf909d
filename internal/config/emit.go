package config

// EmitConfig controls where the renderer record is assembled.
type EmitConfig struct {
	Directory string `yaml:"directory"`
	// BaseDirectory, when set, roots relative working paths (staging, store).
	BaseDirectory string `yaml:"base_directory,omitempty"`
	Clean         bool   `yaml:"clean,omitempty"` // Remove a previous record before finalizing
}

// StoreConfig locates the run-history database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}
