package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/eshaffer321/wealth-go/internal/logging"
	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

// Config holds all configuration for the wealth CLI
type Config struct {
	API     APIConfig      `mapstructure:"api"`
	Retry   RetryConfig    `mapstructure:"retry"`
	Logging logging.Config `mapstructure:"logging"`
	Sentry  SentryConfig   `mapstructure:"sentry"`
	Report  ReportConfig   `mapstructure:"report"`
}

// APIConfig points the client at the API
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Token       string        `mapstructure:"token"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RetryConfig mirrors wealth.RetryConfig; MaxRetries 0 disables retries
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Wait       time.Duration `mapstructure:"wait"`
	MaxWait    time.Duration `mapstructure:"max_wait"`
}

// SentryConfig enables error reporting when DSN is set
type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ReportConfig holds report defaults that flags can override
type ReportConfig struct {
	Scope   string `mapstructure:"scope"`
	Type    string `mapstructure:"type"`
	Compare bool   `mapstructure:"compare"`
	Chart   string `mapstructure:"chart"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", wealth.DefaultBaseURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.session_file", "")
	v.SetDefault("api.timeout", wealth.DefaultTimeout)
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.wait", time.Second)
	v.SetDefault("retry.max_wait", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("report.scope", string(wealth.ScopeMonth))
	v.SetDefault("report.type", string(wealth.FlowExpense))
	v.SetDefault("report.compare", false)
	v.SetDefault("report.chart", "")
}

// LoadConfiguration reads configPath, or wealth.yaml from the working
// directory when configPath is empty, and overlays WEALTH_* environment
// variables (WEALTH_API_TOKEN sets api.token).
func LoadConfiguration(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", configPath)
		}
	} else {
		v.SetConfigName("wealth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "error reading config file")
			}
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(err, "unable to decode into struct")
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

// Validate checks the values flags and files cannot type-check
func (c *Config) Validate() error {
	if _, err := wealth.ParseScope(c.Report.Scope); err != nil {
		return err
	}
	if !wealth.FlowType(c.Report.Type).Valid() {
		return &wealth.ValidationError{Field: "report.type", Message: "must be income or expense", Value: c.Report.Type}
	}
	if c.Retry.MaxRetries < 0 {
		return &wealth.ValidationError{Field: "retry.max_retries", Message: "must not be negative", Value: c.Retry.MaxRetries}
	}
	return nil
}

// ClientOptions maps the config onto the library's client options
func (c *Config) ClientOptions(logger wealth.Logger) *wealth.ClientOptions {
	opts := &wealth.ClientOptions{
		BaseURL:     c.API.BaseURL,
		Token:       c.API.Token,
		SessionFile: c.API.SessionFile,
		Timeout:     c.API.Timeout,
		Logger:      logger,
		SentryDSN:   c.Sentry.DSN,
	}
	if c.Retry.MaxRetries > 0 {
		opts.RetryConfig = &wealth.RetryConfig{
			MaxRetries: c.Retry.MaxRetries,
			RetryWait:  c.Retry.Wait,
			MaxWait:    c.Retry.MaxWait,
		}
	}
	return opts
}
