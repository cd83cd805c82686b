package model

import "time"

// Config holds the full runtime configuration, assembled from defaults,
// the config file, VOTECAST_* environment variables, and CLI flags.
type Config struct {
	Inputs       InputConfig       `yaml:"inputs"`
	Forecast     ForecastConfig    `yaml:"forecast"`
	Cache        CacheConfig       `yaml:"cache"`
	Output       OutputConfig      `yaml:"output"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	LLM          LLMConfig         `yaml:"llm"`
}

// InputConfig names the source CSV files.
type InputConfig struct {
	PopularVote string `yaml:"popular_vote"`
	StateVotes  string `yaml:"state_votes"`
	Allocations string `yaml:"allocations"`
	Polygons    string `yaml:"polygons"`
}

// ForecastConfig controls the projection.
type ForecastConfig struct {
	TargetYear int             `yaml:"target_year"`
	BaseYear   int             `yaml:"base_year"`
	Weights    ForecastWeights `yaml:"weights"`
}

// CacheConfig controls the parsed-table cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig controls report and chart emission.
type OutputConfig struct {
	Dir           string  `yaml:"dir"`
	Verbose       bool    `yaml:"verbose"`
	IncludeFooter bool    `yaml:"include_footer"`
	ChartWidth    float64 `yaml:"chart_width"`  // inches
	ChartHeight   float64 `yaml:"chart_height"` // inches
}

// ConcurrencyConfig sizes the worker pools.
type ConcurrencyConfig struct {
	RenderWorkers int `yaml:"render_workers"`
	SweepWorkers  int `yaml:"sweep_workers"`
}

// RateLimitConfig throttles outbound LLM calls during sweeps.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// LLMConfig configures the optional narrative summarizer.
type LLMConfig struct {
	Provider     string `yaml:"provider"` // "openai", "ollama", "" (disabled)
	Model        string `yaml:"model"`
	APIKey       string `yaml:"-"` // from environment only, never persisted
	BaseURL      string `yaml:"base_url"`
	Timeout      int    `yaml:"timeout_seconds"`
	MaxTokens    int    `yaml:"max_tokens"`
	StrictStates bool   `yaml:"strict_states"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Inputs: InputConfig{
			PopularVote: "data/popvote_1948-2020.csv",
			StateVotes:  "data/clean_wide_state_2yr_forecast.csv",
			Allocations: "data/ec_full.csv",
			Polygons:    "data/us_states_polygons.csv",
		},
		Forecast: ForecastConfig{
			TargetYear: 2024,
			BaseYear:   2020,
			Weights:    DefaultForecastWeights(),
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".votecast-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:           "./votecast-out",
			IncludeFooter: true,
			ChartWidth:    10,
			ChartHeight:   6,
		},
		Concurrency: ConcurrencyConfig{
			RenderWorkers: 3,
			SweepWorkers:  4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		LLM: LLMConfig{
			Provider:     "",
			Model:        "",
			Timeout:      30,
			MaxTokens:    1000,
			StrictStates: true,
		},
	}
}
