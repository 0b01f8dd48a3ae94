// Package config loads and validates liscraper configuration from defaults,
// a YAML file, .env files, environment variables, and command line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the LinkedIn feed scraper.
type Config struct {
	// LinkedIn account credentials
	LinkedIn LinkedInConfig `yaml:"linkedin" json:"linkedin"`

	// Browser process settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Feed extraction settings
	Scraper ScraperConfig `yaml:"scraper" json:"scraper"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LinkedInConfig holds the login credentials. Both fields may stay empty
// here when credentials come from the credential store.
type LinkedInConfig struct {
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"password"`
}

// BrowserConfig holds Chrome process settings.
type BrowserConfig struct {
	Headless     bool          `yaml:"headless" json:"headless"`
	WindowWidth  int           `yaml:"window_width" json:"window_width"`
	WindowHeight int           `yaml:"window_height" json:"window_height"`
	LoginSettle  time.Duration `yaml:"login_settle" json:"login_settle"`
	NavTimeout   time.Duration `yaml:"nav_timeout" json:"nav_timeout"`
}

// ScraperConfig holds the extraction pipeline settings. The settle durations
// are upper ceilings; element lookups poll and finish early when the page
// quiesces sooner.
type ScraperConfig struct {
	ScrollCount      int           `yaml:"scroll_count" json:"scroll_count"`
	ScrollPause      time.Duration `yaml:"scroll_pause" json:"scroll_pause"`
	MaxComments      int           `yaml:"max_comments" json:"max_comments"`
	PageSettle       time.Duration `yaml:"page_settle" json:"page_settle"`
	RenderSettle     time.Duration `yaml:"render_settle" json:"render_settle"`
	CommentSettle    time.Duration `yaml:"comment_settle" json:"comment_settle"`
	ExpandWait       time.Duration `yaml:"expand_wait" json:"expand_wait"`
	DisableEarlyStop bool          `yaml:"disable_early_stop" json:"disable_early_stop"`
}

// OutputConfig holds result file settings.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	AutoSave  bool   `yaml:"auto_save" json:"auto_save"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  1200,
			WindowHeight: 900,
			LoginSettle:  5 * time.Second,
			NavTimeout:   30 * time.Second,
		},
		Scraper: ScraperConfig{
			ScrollCount:      12,
			ScrollPause:      2500 * time.Millisecond,
			MaxComments:      15,
			PageSettle:       4 * time.Second,
			RenderSettle:     time.Second,
			CommentSettle:    time.Second,
			ExpandWait:       5 * time.Second,
			DisableEarlyStop: false,
		},
		Output: OutputConfig{
			Directory: "./results",
			AutoSave:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if email := os.Getenv("LISCRAPER_EMAIL"); email != "" {
		c.LinkedIn.Email = email
	}
	if password := os.Getenv("LISCRAPER_PASSWORD"); password != "" {
		c.LinkedIn.Password = password
	}
	if headless := os.Getenv("LISCRAPER_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}

	if scrolls := os.Getenv("LISCRAPER_SCROLL_COUNT"); scrolls != "" {
		var val int
		fmt.Sscanf(scrolls, "%d", &val)
		if val >= 0 {
			c.Scraper.ScrollCount = val
		}
	}
	if maxComments := os.Getenv("LISCRAPER_MAX_COMMENTS"); maxComments != "" {
		var val int
		fmt.Sscanf(maxComments, "%d", &val)
		if val >= 0 {
			c.Scraper.MaxComments = val
		}
	}
	if pause := os.Getenv("LISCRAPER_SCROLL_PAUSE"); pause != "" {
		if d, err := time.ParseDuration(pause); err == nil && d > 0 {
			c.Scraper.ScrollPause = d
		}
	}

	if outputDir := os.Getenv("LISCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel := os.Getenv("LISCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".liscraper.yaml",
		".liscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "liscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "liscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".liscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credentials are not
// required here; the scraper refuses to run without an authenticated
// session, and credentials may come from the credential store at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.Scraper.ScrollCount < 0 {
		errs = append(errs, errors.New("scroll count cannot be negative"))
	}
	if c.Scraper.ScrollPause <= 0 {
		errs = append(errs, errors.New("scroll pause must be positive"))
	}
	if c.Scraper.MaxComments < 0 {
		errs = append(errs, errors.New("max comments cannot be negative"))
	}
	if c.Scraper.PageSettle <= 0 || c.Scraper.RenderSettle <= 0 || c.Scraper.CommentSettle <= 0 {
		errs = append(errs, errors.New("settle durations must be positive"))
	}
	if c.Scraper.ExpandWait < 0 {
		errs = append(errs, errors.New("expand wait cannot be negative"))
	}

	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		errs = append(errs, errors.New("browser window size must be positive"))
	}
	if c.Browser.NavTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if email, ok := flags["email"].(string); ok && email != "" {
		c.LinkedIn.Email = email
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if scrolls, ok := flags["scrolls"].(int); ok && scrolls >= 0 {
		c.Scraper.ScrollCount = scrolls
	}
	if maxComments, ok := flags["max-comments"].(int); ok && maxComments >= 0 {
		c.Scraper.MaxComments = maxComments
	}
	if pause, ok := flags["scroll-pause"].(time.Duration); ok && pause > 0 {
		c.Scraper.ScrollPause = pause
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if noSave, ok := flags["no-save"].(bool); ok && noSave {
		c.Output.AutoSave = false
	}
	if fullScroll, ok := flags["full-scroll"].(bool); ok && fullScroll {
		c.Scraper.DisableEarlyStop = true
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".liscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
