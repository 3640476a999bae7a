package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultFilenameTemplate = "{tag}_p{page}.json"
	DefaultAutosaveSeconds  = 30
	DefaultAutosaveDir      = ".acu_autosave"
	DefaultLogLevel         = "info"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the ACU annotator
type Config struct {
	// Registry configuration
	PluginsDir string
	Aliases    map[string]string // extra token -> type id mappings

	// Export configuration
	FilenameTemplate string
	Pretty           bool

	// Autosave configuration
	AutosaveEnabled bool
	AutosaveSeconds int
	AutosaveDir     string

	// Application configuration
	Version  string
	AppName  string
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PluginsDir: "",
		Aliases: map[string]string{
			"gas": "GasHeater",
			"ec":  "ECM",
		},
		FilenameTemplate: DefaultFilenameTemplate,
		Pretty:           true,
		AutosaveEnabled:  true,
		AutosaveSeconds:  DefaultAutosaveSeconds,
		AutosaveDir:      DefaultAutosaveDir,
		Version:          "1.0.0",
		AppName:          "acu-annotator",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags, the optional config file and the
// environment, and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	if err := readConfigFile(); err != nil {
		return nil, err
	}

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PluginsDir != "" {
		if expandedPath, err := filepath.Abs(cfg.PluginsDir); err == nil {
			cfg.PluginsDir = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("ACU")
	viper.AutomaticEnv()

	viper.SetDefault("plugins", cfg.PluginsDir)
	viper.SetDefault("aliases", cfg.Aliases)
	viper.SetDefault("template", cfg.FilenameTemplate)
	viper.SetDefault("pretty", cfg.Pretty)
	viper.SetDefault("autosave", cfg.AutosaveEnabled)
	viper.SetDefault("autosaveseconds", cfg.AutosaveSeconds)
	viper.SetDefault("autosavedir", cfg.AutosaveDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("config", "", "Path to a config.yaml (optional)")
	pflag.String("plugins", cfg.PluginsDir, "Directory of component spec YAML plugins")
	pflag.String("template", cfg.FilenameTemplate, "Export filename template ({tag} and {page} expand)")
	pflag.Bool("pretty", cfg.Pretty, "Pretty-print exported JSON")
	pflag.Bool("autosave", cfg.AutosaveEnabled, "Enable periodic autosave")
	pflag.Int("autosaveseconds", cfg.AutosaveSeconds, "Seconds between autosave attempts")
	pflag.String("autosavedir", cfg.AutosaveDir, "Directory for autosave snapshots")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("plugins", pflag.Lookup("plugins"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("pretty", pflag.Lookup("pretty"))
	_ = viper.BindPFlag("autosave", pflag.Lookup("autosave"))
	_ = viper.BindPFlag("autosaveseconds", pflag.Lookup("autosaveseconds"))
	_ = viper.BindPFlag("autosavedir", pflag.Lookup("autosavedir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// readConfigFile loads the optional YAML config file. An explicit --config
// path must exist; the implicit ./config.yaml is best effort.
func readConfigFile() error {
	if path, _ := pflag.CommandLine.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("cannot read config file %s: %w", path, err)
		}
		return nil
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("cannot read config file: %w", err)
	}
	return nil
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s [flags] [pdf-file]:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nACU Annotator - Keyboard-driven HVAC unit annotation over PDF submittals\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s AHU-23.pdf                         # annotate a submittal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --plugins=./specs AHU-23.pdf       # with custom component specs\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --pretty=false --autosave=false    # compact output, no autosave\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  ACU_PLUGINS          Plugin spec directory\n")
		fmt.Fprintf(os.Stderr, "  ACU_TEMPLATE         Export filename template\n")
		fmt.Fprintf(os.Stderr, "  ACU_PRETTY           Pretty-print exports\n")
		fmt.Fprintf(os.Stderr, "  ACU_AUTOSAVE         Enable autosave\n")
		fmt.Fprintf(os.Stderr, "  ACU_AUTOSAVESECONDS  Autosave interval\n")
		fmt.Fprintf(os.Stderr, "  ACU_AUTOSAVEDIR      Autosave directory\n")
		fmt.Fprintf(os.Stderr, "  ACU_LOGLEVEL         Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.PluginsDir = viper.GetString("plugins")
	cfg.FilenameTemplate = viper.GetString("template")
	cfg.Pretty = viper.GetBool("pretty")
	cfg.AutosaveEnabled = viper.GetBool("autosave")
	cfg.AutosaveSeconds = viper.GetInt("autosaveseconds")
	cfg.AutosaveDir = viper.GetString("autosavedir")
	cfg.LogLevel = viper.GetString("loglevel")
	if aliases := viper.GetStringMapString("aliases"); len(aliases) > 0 {
		cfg.Aliases = aliases
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.FilenameTemplate == "" {
		return errors.New("filename template cannot be empty")
	}
	if !strings.Contains(c.FilenameTemplate, "{tag}") && !strings.Contains(c.FilenameTemplate, "{page}") {
		return errors.New("filename template must contain {tag} or {page}")
	}

	if c.AutosaveEnabled {
		if c.AutosaveSeconds <= 0 {
			return errors.New("autosave interval must be positive")
		}
		if c.AutosaveDir == "" {
			return errors.New("autosave directory cannot be empty")
		}
	}

	// Plugins directory is optional, but when given it must exist
	if c.PluginsDir != "" {
		if info, err := os.Stat(c.PluginsDir); err != nil {
			return fmt.Errorf("cannot access plugins directory %s: %w", c.PluginsDir, err)
		} else if !info.IsDir() {
			return fmt.Errorf("plugins path %s is not a directory", c.PluginsDir)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{PluginsDir: %s, Template: %s, Pretty: %t, Autosave: %t/%ds, LogLevel: %s}",
		c.PluginsDir, c.FilenameTemplate, c.Pretty, c.AutosaveEnabled, c.AutosaveSeconds, c.LogLevel)
}
