package config

// WatchConfig configures author watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after a filesystem event before a job is
	// queued. Duration string ("2s").
	Debounce string `yaml:"debounce,omitempty"`
	// HTTPAddr is the status/metrics listen address.
	HTTPAddr string `yaml:"http_addr,omitempty"`
	Workers  int    `yaml:"workers,omitempty"`
	// QueueSize bounds pending jobs; further triggers are coalesced.
	QueueSize   int `yaml:"queue_size,omitempty"`
	HistorySize int `yaml:"history_size,omitempty"`
	// LinkRecheckInterval is how often scheduled external link verification
	// runs ("1h"). Requires events configuration.
	LinkRecheckInterval string `yaml:"link_recheck_interval,omitempty"`
}

// EventsConfig wires external link verification to NATS JetStream.
type EventsConfig struct {
	URL      string `yaml:"url,omitempty"`
	Subject  string `yaml:"subject,omitempty"`
	KVBucket string `yaml:"kv_bucket,omitempty"`
	// CacheTTL is how long verified-alive results are reused.
	CacheTTL string `yaml:"cache_ttl,omitempty"`
	// CacheTTLFailures is the shorter reuse window for failed checks.
	CacheTTLFailures string `yaml:"cache_ttl_failures,omitempty"`
	MaxConcurrent    int    `yaml:"max_concurrent,omitempty"`
	RequestTimeout   string `yaml:"request_timeout,omitempty"`
	// MaxRedirects bounds redirect following; 0 disables it.
	MaxRedirects int `yaml:"max_redirects,omitempty"`
}
