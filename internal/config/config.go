package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset" mapstructure:"dataset"`
	Resolver   ResolverConfig   `yaml:"resolver" mapstructure:"resolver"`
	Verifier   VerifierConfig   `yaml:"verifier" mapstructure:"verifier"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Serper     SerperConfig     `yaml:"serper" mapstructure:"serper"`
	Delays     DelayConfig      `yaml:"delays" mapstructure:"delays"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the restaurant table and maps its columns.
type DatasetConfig struct {
	Input        string `yaml:"input" mapstructure:"input"`
	Output       string `yaml:"output" mapstructure:"output"`
	NameColumn   string `yaml:"name_column" mapstructure:"name_column"`
	MarketColumn string `yaml:"market_column" mapstructure:"market_column"`
	DomainColumn string `yaml:"domain_column" mapstructure:"domain_column"`
	Charset      string `yaml:"charset" mapstructure:"charset"`
	WorkDir      string `yaml:"work_dir" mapstructure:"work_dir"`
}

// ResolverConfig selects the research backend and its call timeout.
type ResolverConfig struct {
	Backend     string `yaml:"backend" mapstructure:"backend"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// VerifierConfig configures the secondary verification pass.
type VerifierConfig struct {
	KeywordsFile string `yaml:"keywords_file" mapstructure:"keywords_file"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SerperConfig holds Serper search API settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DelayConfig paces the batch loop.
type DelayConfig struct {
	InterRowSecs          int `yaml:"inter_row_secs" mapstructure:"inter_row_secs"`
	InterVerificationSecs int `yaml:"inter_verification_secs" mapstructure:"inter_verification_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HOSPITALITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key gets one, empty strings included, so values set
	// only through the environment survive Unmarshal.
	v.SetDefault("dataset.input", "")
	v.SetDefault("dataset.output", "")
	v.SetDefault("dataset.name_column", "Company name")
	v.SetDefault("dataset.market_column", "Macro Geo (NYC, SF, CHS, DC, LA, NASH, DEN)")
	v.SetDefault("dataset.domain_column", "Company Domain Name")
	v.SetDefault("dataset.charset", "")
	v.SetDefault("dataset.work_dir", ".")
	v.SetDefault("resolver.backend", "perplexity")
	v.SetDefault("resolver.timeout_secs", 60)
	v.SetDefault("verifier.keywords_file", "")
	v.SetDefault("perplexity.key", "")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("serper.key", "")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("delays.inter_row_secs", 2)
	v.SetDefault("delays.inter_verification_secs", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
