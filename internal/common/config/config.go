// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Redis        RedisConfig             `mapstructure:"redis"`
	Fetch        FetchConfig             `mapstructure:"fetch"`
	Search       SearchConfig            `mapstructure:"search"`
	Extraction   ExtractionConfig        `mapstructure:"extraction"`
	Orchestrator OrchestratorConfig      `mapstructure:"orchestrator"`
	PostalCode   PostalCodeConfig        `mapstructure:"postal_code"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Metrics      MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// RedisConfig is optional; an empty address disables the postal-code cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Harvesting ---

// FetchConfig configures the shared page fetcher.
type FetchConfig struct {
	TimeoutMs    int      `mapstructure:"timeout_ms"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
	UserAgents   []string `mapstructure:"user_agents"`
}

// SearchConfig configures the results-page request.
type SearchConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Language   string `mapstructure:"language"`
	Country    string `mapstructure:"country"`
	NumResults int    `mapstructure:"num_results"`
}

type ExtractionConfig struct {
	DefaultRegion string   `mapstructure:"default_region"`
	DeepScan      bool     `mapstructure:"deep_scan"`
	DeepScanPaths []string `mapstructure:"deep_scan_paths"`
}

type OrchestratorConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// PostalCodeConfig configures the ViaCEP lookup worker.
type PostalCodeConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
	CacheTTLMs int    `mapstructure:"cache_ttl_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
