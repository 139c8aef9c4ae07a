package model

import "time"

// Config holds the complete propfacts configuration
type Config struct {
	Provider     ProviderConfig    `yaml:"provider" mapstructure:"provider"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Extract      ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	History      HistoryConfig     `yaml:"history" mapstructure:"history"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// ProviderConfig selects and configures the search result source
type ProviderConfig struct {
	Name    string        `yaml:"name" mapstructure:"name"` // mock, serpapi, searxng, scrape
	Num     int           `yaml:"num" mapstructure:"num"`   // Results requested per query
	Fixture string        `yaml:"fixture" mapstructure:"fixture"`
	SerpAPI SerpAPIConfig `yaml:"serpapi" mapstructure:"serpapi"`
	SearXNG SearXNGConfig `yaml:"searxng" mapstructure:"searxng"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
}

// SerpAPIConfig configures the SerpAPI provider
type SerpAPIConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Engine  string `yaml:"engine" mapstructure:"engine"`
	APIKey  string `yaml:"-" mapstructure:"api_key"` // From SERPAPI_API_KEY, never written to disk
}

// SearXNGConfig configures the SearXNG provider
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ScrapeConfig configures the scraped search page provider
type ScrapeConfig struct {
	SearchURL       string `yaml:"search_url" mapstructure:"search_url"` // Query is appended as the q parameter
	ResultSelector  string `yaml:"result_selector" mapstructure:"result_selector"`
	TitleSelector   string `yaml:"title_selector" mapstructure:"title_selector"`
	SnippetSelector string `yaml:"snippet_selector" mapstructure:"snippet_selector"`
	LinkSelector    string `yaml:"link_selector" mapstructure:"link_selector"`
	RespectRobots   bool   `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// HTTPConfig holds HTTP client settings shared by network providers
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig holds search result caching settings
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig holds per-host rate limiting settings
type RateLimitConfig struct {
	RequestsPerSecond float64            `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int                `yaml:"burst_size" mapstructure:"burst_size"`
	Hosts             map[string]float64 `yaml:"hosts,omitempty" mapstructure:"hosts"` // Per-host requests per second, 0 for unlimited
}

// ExtractConfig selects the extraction mode and pattern variants
type ExtractConfig struct {
	Mode     string            `yaml:"mode" mapstructure:"mode"`         // regex or keyword
	Variants map[string]string `yaml:"variants" mapstructure:"variants"` // category -> pattern variant
	Details  bool              `yaml:"details" mapstructure:"details"`   // Keep per-fact provenance in reports
}

// ConcurrencyConfig holds batch processing settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	TopResults int  `yaml:"top_results" mapstructure:"top_results"`
	TopFacts   int  `yaml:"top_facts" mapstructure:"top_facts"`
	Verbose    bool `yaml:"verbose" mapstructure:"verbose"`
}

// HistoryConfig controls the lookup history store
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Bind            string        `yaml:"bind" mapstructure:"bind"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LLMConfig configures the optional fact summary
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // openai, ollama or empty (disabled)
	Model          string `yaml:"model" mapstructure:"model"`
	BaseURL        string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey         string `yaml:"-" mapstructure:"api_key"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:    "mock",
			Num:     3,
			Fixture: "luxury",
			SerpAPI: SerpAPIConfig{
				BaseURL: "https://serpapi.com/search.json",
				Engine:  "google",
			},
			SearXNG: SearXNGConfig{
				BaseURL: "http://localhost:8080",
			},
			Scrape: ScrapeConfig{
				SearchURL:       "https://www.google.com/search",
				ResultSelector:  "div.g",
				TitleSelector:   "h3",
				SnippetSelector: "div.IsZvec",
				LinkSelector:    "a",
				RespectRobots:   true,
			},
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "propfacts/0.1 (+https://github.com/ppiankov/propfacts)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".propfacts-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Extract: ExtractConfig{
			Mode: "regex",
			Variants: map[string]string{
				string(CategoryPricing):       "amount",
				string(CategoryDeveloper):     "default",
				string(CategoryLocation):      "open",
				string(CategoryConfiguration): "default",
			},
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			TopResults: 3,
			TopFacts:   2,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "propfacts-history.db",
		},
		Server: ServerConfig{
			Bind:            "127.0.0.1:8089",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		LLM: LLMConfig{
			Timeout:        30,
			MaxTokens:      500,
			StrictEvidence: true,
		},
	}
}
