// Package config loads agentcli settings from .agentcli/config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// StateDirName is the per-tree directory holding backups, journal and config.
	StateDirName = ".agentcli"
	// BackupsDirName lives under StateDirName.
	BackupsDirName = "backups"
	configName     = "config"
	envPrefix      = "AGENTCLI"
)

// Rollback policies applied when a file cannot be restored.
const (
	RestorePolicyReport   = "report"
	RestorePolicyRetry    = "retry"
	RestorePolicyEscalate = "escalate"
)

// Config is the complete agentcli configuration.
type Config struct {
	Scan        ScanConfig        `mapstructure:"scan" yaml:"scan"`
	Preview     PreviewConfig     `mapstructure:"preview" yaml:"preview"`
	Backups     BackupsConfig     `mapstructure:"backups" yaml:"backups"`
	Transaction TransactionConfig `mapstructure:"transaction" yaml:"transaction"`
	Rollback    RollbackConfig    `mapstructure:"rollback" yaml:"rollback"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// ScanConfig controls candidate file selection.
type ScanConfig struct {
	ExcludeDirs      []string `mapstructure:"excludeDirs" yaml:"excludeDirs"`
	MaxFileSizeBytes int64    `mapstructure:"maxFileSizeBytes" yaml:"maxFileSizeBytes"`
	Workers          int      `mapstructure:"workers" yaml:"workers"`
}

// PreviewConfig controls the pre-confirmation report.
type PreviewConfig struct {
	MaxSamples int `mapstructure:"maxSamples" yaml:"maxSamples"`
}

// BackupsConfig controls the durable backup store.
type BackupsConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Retention int    `mapstructure:"retention" yaml:"retention"`
}

// TransactionConfig controls multi-file renames.
type TransactionConfig struct {
	// DurableSnapshots also copies every file into the backup store before
	// it is rewritten, so a committed rename can be undone file by file.
	DurableSnapshots bool `mapstructure:"durableSnapshots" yaml:"durableSnapshots"`
}

// RollbackConfig controls what happens when a restore fails.
type RollbackConfig struct {
	OnRestoreFailure string `mapstructure:"onRestoreFailure" yaml:"onRestoreFailure"`
	Retries          int    `mapstructure:"retries" yaml:"retries"`
	RetryDelayMs     int    `mapstructure:"retryDelayMs" yaml:"retryDelayMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Level  string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			ExcludeDirs:      []string{"target", "build", ".git", "node_modules", StateDirName},
			MaxFileSizeBytes: 10 * 1024 * 1024,
			Workers:          4,
		},
		Preview: PreviewConfig{MaxSamples: 5},
		Backups: BackupsConfig{
			Dir:       filepath.Join(StateDirName, BackupsDirName),
			Retention: 10,
		},
		Transaction: TransactionConfig{DurableSnapshots: false},
		Rollback: RollbackConfig{
			OnRestoreFailure: RestorePolicyReport,
			Retries:          2,
			RetryDelayMs:     50,
		},
		Logging: LoggingConfig{Format: "human", Level: "warn"},
	}
}

// Load reads configuration for the tree at root. An explicit path wins over
// <root>/.agentcli/config.yaml; a missing default file yields defaults.
// AGENTCLI_* environment variables override file values
// (e.g. AGENTCLI_BACKUPS_RETENTION=3).
func Load(root, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(root, StateDirName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("scan.excludeDirs", d.Scan.ExcludeDirs)
	v.SetDefault("scan.maxFileSizeBytes", d.Scan.MaxFileSizeBytes)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("preview.maxSamples", d.Preview.MaxSamples)
	v.SetDefault("backups.dir", d.Backups.Dir)
	v.SetDefault("backups.retention", d.Backups.Retention)
	v.SetDefault("transaction.durableSnapshots", d.Transaction.DurableSnapshots)
	v.SetDefault("rollback.onRestoreFailure", d.Rollback.OnRestoreFailure)
	v.SetDefault("rollback.retries", d.Rollback.Retries)
	v.SetDefault("rollback.retryDelayMs", d.Rollback.RetryDelayMs)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scan.MaxFileSizeBytes <= 0 {
		return &ConfigError{Field: "scan.maxFileSizeBytes", Message: "must be positive"}
	}

	if c.Scan.Workers <= 0 {
		return &ConfigError{Field: "scan.workers", Message: "must be positive"}
	}

	if c.Preview.MaxSamples < 0 {
		return &ConfigError{Field: "preview.maxSamples", Message: "must not be negative"}
	}

	if c.Backups.Retention <= 0 {
		return &ConfigError{Field: "backups.retention", Message: "must be positive"}
	}

	if c.Backups.Dir == "" {
		return &ConfigError{Field: "backups.dir", Message: "must not be empty"}
	}

	switch c.Rollback.OnRestoreFailure {
	case RestorePolicyReport, RestorePolicyRetry, RestorePolicyEscalate:
	default:
		return &ConfigError{Field: "rollback.onRestoreFailure", Message: "must be one of report, retry, escalate"}
	}

	if c.Rollback.Retries < 0 || c.Rollback.RetryDelayMs < 0 {
		return &ConfigError{Field: "rollback", Message: "retries and retryDelayMs must not be negative"}
	}

	return nil
}

// BackupsDir returns the absolute backup directory for root.
func (c *Config) BackupsDir(root string) string {
	if filepath.IsAbs(c.Backups.Dir) {
		return c.Backups.Dir
	}

	return filepath.Join(root, c.Backups.Dir)
}

// StateDir returns <root>/.agentcli.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// Save writes the configuration as YAML to <root>/.agentcli/config.yaml.
func (c *Config) Save(root string) (string, error) {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	path := filepath.Join(dir, configName+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return path, nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
