package model

import "time"

// Config is the complete pipeline configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Live        LiveConfig        `yaml:"live" json:"live"`
	Quality     QualityConfig     `yaml:"quality" json:"quality"`
	Search      SearchConfig      `yaml:"search" json:"search"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	Browser     BrowserConfig     `yaml:"browser" json:"browser"`
	Preview     PreviewConfig     `yaml:"preview" json:"preview"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig configures outbound HTTP behavior.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy"`
}

// CacheConfig configures the layered result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	Dir     string        `yaml:"dir" json:"dir"` // disk layer; empty = memory only
}

// LiveConfig configures the live fetch strategy chain.
type LiveConfig struct {
	// Timeout bounds the whole live branch of a search. Must stay below any
	// caller-facing request timeout so a hung fetch cannot stall the search.
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	StrategyTimeout   time.Duration `yaml:"strategy_timeout" json:"strategy_timeout"`
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	SearchPath        string        `yaml:"search_path" json:"search_path"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
	RespectRobots     bool          `yaml:"respect_robots" json:"respect_robots"`
}

// QualityConfig holds the completeness gate thresholds. Hand-tuned per source;
// deliberately configuration, not constants.
type QualityConfig struct {
	MinAcceptedChars      int `yaml:"min_accepted_chars" json:"min_accepted_chars"`
	MinArticleCount       int `yaml:"min_article_count" json:"min_article_count"`
	MaxBoilerplatePhrases int `yaml:"max_boilerplate_phrases" json:"max_boilerplate_phrases"`
}

// SearchConfig configures the hybrid coordinator.
type SearchConfig struct {
	MaxResultsPerPage int `yaml:"max_results_per_page" json:"max_results_per_page"`
	// ResultBufferPages caps merged-list work at page+N pages worth of items.
	ResultBufferPages int `yaml:"result_buffer_pages" json:"result_buffer_pages"`
}

// StoreConfig configures the local document store.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

// BrowserConfig configures the browser-automation fetch strategy.
type BrowserConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	RemoteURL string `yaml:"remote_url" json:"remote_url"` // external Chrome websocket; empty = launch local
	Headless  bool   `yaml:"headless" json:"headless"`
}

// PreviewConfig configures the optional LLM preview summarizer. It only fills
// PreviewText for live items and never affects search results or ranking.
type PreviewConfig struct {
	Provider string `yaml:"provider" json:"provider"` // "" disables
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"api_key" json:"api_key"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
}

// ConcurrencyConfig bounds worker fan-out.
type ConcurrencyConfig struct {
	ProbeWorkers int `yaml:"probe_workers" json:"probe_workers"`
	BatchWorkers int `yaml:"batch_workers" json:"batch_workers"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults for all settings.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Mevra/0.1 (+https://github.com/kodhane/mevra)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Live: LiveConfig{
			Timeout:           20 * time.Second,
			StrategyTimeout:   8 * time.Second,
			BaseURL:           "https://www.mevzuat.gov.tr",
			SearchPath:        "/arama",
			RequestsPerSecond: 1.0,
			Burst:             2,
			RespectRobots:     true,
		},
		Quality: QualityConfig{
			MinAcceptedChars:      2000,
			MinArticleCount:       3,
			MaxBoilerplatePhrases: 2,
		},
		Search: SearchConfig{
			MaxResultsPerPage: 50,
			ResultBufferPages: 3,
		},
		Store: StoreConfig{
			SQLitePath: "mevra.db",
		},
		Browser: BrowserConfig{
			Enabled:  false,
			Headless: true,
		},
		Concurrency: ConcurrencyConfig{
			ProbeWorkers: 3,
			BatchWorkers: 4,
		},
	}
}
