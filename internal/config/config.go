package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Calibration CalibrationConfig `mapstructure:"calibration"`
	Tasks       TasksConfig       `mapstructure:"tasks"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DataConfig holds storage locations.
type DataConfig struct {
	Dir         string `mapstructure:"dir"`
	Database    string `mapstructure:"database"`
	ResultsFile string `mapstructure:"results_file"`
	ContentFile string `mapstructure:"content_file"`
}

// CalibrationConfig holds the latency calibration tunables. The outlier
// threshold and minimum survivor count are deliberately configurable.
type CalibrationConfig struct {
	AutomatedSamples  int     `mapstructure:"automated_samples"`
	ManualSamples     int     `mapstructure:"manual_samples"`
	OutlierMultiplier float64 `mapstructure:"outlier_multiplier"`
	MinSurvivors      int     `mapstructure:"min_survivors"`
	SampleTimeoutSecs float64 `mapstructure:"sample_timeout_secs"`
	MaxCompensationMs float64 `mapstructure:"max_compensation_ms"`
}

// TasksConfig holds per-task parameters.
type TasksConfig struct {
	ReactionTrials     int     `mapstructure:"reaction_trials"`
	DigitSpanStart     int     `mapstructure:"digit_span_start"`
	DigitSpanMax       int     `mapstructure:"digit_span_max"`
	MathDurationSecs   int     `mapstructure:"math_duration_secs"`
	RecallWords        int     `mapstructure:"recall_words"`
	RecallStudySecs    int     `mapstructure:"recall_study_secs"`
	RecallWindowSecs   int     `mapstructure:"recall_window_secs"`
	StroopTrials       int     `mapstructure:"stroop_trials"`
	StroopTimeoutSecs  float64 `mapstructure:"stroop_timeout_secs"`
	AttentionStartFrom int     `mapstructure:"attention_start_from"`
}

// DashboardConfig holds settings for the local trend dashboard.
type DashboardConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("data.dir", ".")
	v.SetDefault("data.database", "cogbench.db")
	v.SetDefault("data.results_file", "results.jsonl")
	v.SetDefault("data.content_file", "") // empty = embedded task content

	// Calibration defaults
	v.SetDefault("calibration.automated_samples", 10)
	v.SetDefault("calibration.manual_samples", 25)
	v.SetDefault("calibration.outlier_multiplier", 2.0)
	v.SetDefault("calibration.min_survivors", 3)
	v.SetDefault("calibration.sample_timeout_secs", 5.0)
	v.SetDefault("calibration.max_compensation_ms", 500.0)

	// Task defaults
	v.SetDefault("tasks.reaction_trials", 5)
	v.SetDefault("tasks.digit_span_start", 3)
	v.SetDefault("tasks.digit_span_max", 10)
	v.SetDefault("tasks.math_duration_secs", 60)
	v.SetDefault("tasks.recall_words", 12)
	v.SetDefault("tasks.recall_study_secs", 30)
	v.SetDefault("tasks.recall_window_secs", 120)
	v.SetDefault("tasks.stroop_trials", 25)
	v.SetDefault("tasks.stroop_timeout_secs", 3.0)
	v.SetDefault("tasks.attention_start_from", 100)

	// Dashboard defaults
	v.SetDefault("dashboard.addr", "localhost:5071")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs
}

// Init initializes the configuration with Viper.
func Init(configDir string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(configDir)
	v.AddConfigPath(filepath.Join(configDir, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("COGBENCH") // e.g., COGBENCH_DATA_DIR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Debug("Configuration loaded successfully")
	return nil
}

// DatabasePath returns the path of the sqlite database inside the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, c.Data.Database)
}

// ResultsPath returns the path of the append-only results journal.
func (c *Config) ResultsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.ResultsFile)
}
