package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
)

const (
	databasePathEnv = "SCOUT_DATABASE_PATH"
	providerEnv     = "SCOUT_LLM_PROVIDER"
	openAIKeyEnv    = "OPENAI_API_KEY"
	anthropicKeyEnv = "ANTHROPIC_API_KEY"
	sheetIDEnv      = "SCOUT_SHEET_ID"
	sheetCredsEnv   = "GOOGLE_APPLICATION_CREDENTIALS"
	csvPathEnv      = "SCOUT_OUTPUT_CSV"
)

// Provider names accepted by the llm factory.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all settings required across the application.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Logging     LoggingConfig     `yaml:"logging"`
	LLM         LLMConfig         `yaml:"llm"`
	Feeds       []FeedConfig      `yaml:"feeds"`
	Keywords    KeywordsConfig    `yaml:"keywords"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Weights     WeightsConfig     `yaml:"weights"`
	Limits      LimitsConfig      `yaml:"limits"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Output      OutputConfig      `yaml:"output"`

	// DebugKeepNonmatching keeps candidates that fail vetting, for tuning
	// preferences against real extractions.
	DebugKeepNonmatching bool `yaml:"debugKeepNonmatching"`
}

// DatabaseConfig describes the dedup ledger's SQLite location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LLMConfig defines which model provider to use and how to reach it.
type LLMConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"apiKey"`
	BaseURL    string `yaml:"baseUrl"`
	MaxRetries int    `yaml:"maxRetries"`
}

// FeedConfig is one RSS/Atom source.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// KeywordsConfig steers the relevance filter.
type KeywordsConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// PreferencesConfig captures who the user wants to meet.
type PreferencesConfig struct {
	Schools         []string `yaml:"schools"`
	Roles           []string `yaml:"roles"`
	Industries      []string `yaml:"industries"`
	SeniorityLevels []string `yaml:"seniorityLevels"`
	Locations       []string `yaml:"locations"`
}

// WeightsConfig holds the fit-score weights.
type WeightsConfig struct {
	SchoolMatch    float64 `yaml:"schoolMatch"`
	RoleMatch      float64 `yaml:"roleMatch"`
	IndustryMatch  float64 `yaml:"industryMatch"`
	SeniorityMatch float64 `yaml:"seniorityMatch"`
	LocationMatch  float64 `yaml:"locationMatch"`
}

// LimitsConfig bounds per-stage work and gates the scoring output.
type LimitsConfig struct {
	MaxArticlesPerFeed     int     `yaml:"maxArticlesPerFeed"`
	MaxCompaniesPerArticle int     `yaml:"maxCompaniesPerArticle"`
	MaxPeoplePerCompany    int     `yaml:"maxPeoplePerCompany"`
	MinResponseThreshold   float64 `yaml:"minResponseThreshold"`
	MinScoreThreshold      float64 `yaml:"minScoreThreshold"`
}

// FetchConfig tunes outbound HTTP behavior.
type FetchConfig struct {
	TimeoutSeconds     int    `yaml:"timeoutSeconds"`
	RequestDelayMillis int    `yaml:"requestDelayMillis"`
	UserAgent          string `yaml:"userAgent"`
}

// Timeout resolves the configured request timeout.
func (f FetchConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// RequestDelay resolves the minimum delay between outbound calls.
func (f FetchConfig) RequestDelay() time.Duration {
	if f.RequestDelayMillis <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(f.RequestDelayMillis) * time.Millisecond
}

// OutputConfig selects where the ranked candidates go.
type OutputConfig struct {
	CSVPath string        `yaml:"csvPath"`
	Sheets  *SheetsConfig `yaml:"sheets"`
}

// SheetsConfig wires the optional Google Sheets sink.
type SheetsConfig struct {
	SheetID         string `yaml:"sheetId"`
	CredentialsPath string `yaml:"credentialsPath"`
}

// Load reads YAML configuration from path (if present), applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(providerEnv); v != "" {
		c.LLM.Provider = v
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			c.LLM.APIKey = os.Getenv(openAIKeyEnv)
		case ProviderAnthropic:
			c.LLM.APIKey = os.Getenv(anthropicKeyEnv)
		}
	}
	if v := os.Getenv(csvPathEnv); v != "" {
		c.Output.CSVPath = v
	}
	if v := os.Getenv(sheetIDEnv); v != "" {
		if c.Output.Sheets == nil {
			c.Output.Sheets = &SheetsConfig{}
		}
		c.Output.Sheets.SheetID = v
	}
	if c.Output.Sheets != nil && c.Output.Sheets.CredentialsPath == "" {
		c.Output.Sheets.CredentialsPath = os.Getenv(sheetCredsEnv)
	}
}

// Validate reports the first configuration problem found. All problems are
// fatal at startup, before the ledger is opened.
func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return &domain.ConfigError{Field: "feeds", Reason: "at least one feed is required"}
	}
	for i, feed := range c.Feeds {
		if feed.URL == "" {
			return &domain.ConfigError{Field: fmt.Sprintf("feeds[%d].url", i), Reason: "must not be empty"}
		}
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return &domain.ConfigError{Field: "llm.provider", Reason: fmt.Sprintf("unknown provider %q", c.LLM.Provider)}
	}
	if c.LLM.APIKey == "" {
		return &domain.ConfigError{Field: "llm.apiKey", Reason: "API key is not set"}
	}
	if c.Limits.MaxArticlesPerFeed <= 0 || c.Limits.MaxCompaniesPerArticle <= 0 || c.Limits.MaxPeoplePerCompany <= 0 {
		return &domain.ConfigError{Field: "limits", Reason: "per-stage limits must be positive"}
	}
	if c.Limits.MinResponseThreshold < 0 || c.Limits.MinResponseThreshold > 1 {
		return &domain.ConfigError{Field: "limits.minResponseThreshold", Reason: "must be within [0, 1]"}
	}
	if c.Database.Path == "" {
		return &domain.ConfigError{Field: "database.path", Reason: "must not be empty"}
	}
	if c.Output.CSVPath == "" {
		return &domain.ConfigError{Field: "output.csvPath", Reason: "must not be empty"}
	}
	return nil
}

// DomainFeeds converts the feed configuration to domain values.
func (c *Config) DomainFeeds() []domain.Feed {
	feeds := make([]domain.Feed, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		name := f.Name
		if name == "" {
			name = f.URL
		}
		feeds = append(feeds, domain.Feed{Name: name, URL: f.URL})
	}
	return feeds
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "data/scout.db"},
		Logging:  LoggingConfig{Level: "info"},
		LLM: LLMConfig{
			Provider:   ProviderAnthropic,
			Model:      "claude-haiku-4-5",
			MaxRetries: 2,
		},
		Weights: WeightsConfig{
			SchoolMatch:    1.0,
			RoleMatch:      1.0,
			IndustryMatch:  1.0,
			SeniorityMatch: 0.5,
			LocationMatch:  0.3,
		},
		Limits: LimitsConfig{
			MaxArticlesPerFeed:     50,
			MaxCompaniesPerArticle: 10,
			MaxPeoplePerCompany:    20,
			MinResponseThreshold:   0.3,
			MinScoreThreshold:      0.5,
		},
		Fetch: FetchConfig{
			TimeoutSeconds:     10,
			RequestDelayMillis: 500,
			UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Output: OutputConfig{CSVPath: "data/output/candidates.csv"},
	}
}
