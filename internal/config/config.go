package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// OllamaConfig selects the local model used for title resolution.
type OllamaConfig struct {
	// Host is the Ollama endpoint, e.g. "http://localhost:11434".
	Host string `yaml:"host" json:"host"`
	// Model is the model tag, e.g. "llama3.1:8b".
	Model string `yaml:"model" json:"model"`
	// Temperature is the sampling temperature for title generation.
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// EmailConfig controls the local email extraction pipeline.
type EmailConfig struct {
	// InputFolder holds the saved .txt email files.
	InputFolder string `yaml:"input_folder" json:"input_folder"`
	// ParallelWorkers bounds how many emails are processed concurrently.
	ParallelWorkers int `yaml:"parallel_workers" json:"parallel_workers"`

	Ollama OllamaConfig `yaml:"ollama" json:"ollama"`
}

// Config is the top-level application configuration.
type Config struct {
	// GoogleDocURL is the calendar document, as pasted from the browser.
	GoogleDocURL string `yaml:"google_doc_url" json:"google_doc_url"`

	// OutputFile is where the generated .ics file is written.
	OutputFile string `yaml:"output_file" json:"output_file"`

	// CalendarName is the display name embedded in the calendar file.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// Timezone is the IANA timezone events are published in
	// (e.g. "America/Los_Angeles").
	Timezone string `yaml:"timezone" json:"timezone"`

	// SchoolYearStart is the calendar year the school year begins in;
	// August-December dates resolve to this year, January-July to the
	// year after.
	SchoolYearStart int `yaml:"school_year_start" json:"school_year_start"`

	Email EmailConfig `yaml:"email" json:"email"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputFile:      "output/school_calendar.ics",
		CalendarName:    "School Calendar",
		Timezone:        "America/Los_Angeles",
		SchoolYearStart: 2025,
		Email: EmailConfig{
			InputFolder:     "input_emails/",
			ParallelWorkers: 4,
			Ollama: OllamaConfig{
				Host:        "http://localhost:11434",
				Model:       "llama3.1:8b",
				Temperature: 0.1,
			},
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.OutputFile == "" {
		c.OutputFile = def.OutputFile
	}
	if c.CalendarName == "" {
		c.CalendarName = def.CalendarName
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.SchoolYearStart <= 0 {
		c.SchoolYearStart = def.SchoolYearStart
	}
	if c.Email.InputFolder == "" {
		c.Email.InputFolder = def.Email.InputFolder
	}
	if c.Email.ParallelWorkers <= 0 {
		c.Email.ParallelWorkers = def.Email.ParallelWorkers
	}
	if c.Email.Ollama.Host == "" {
		c.Email.Ollama.Host = def.Email.Ollama.Host
	}
	if c.Email.Ollama.Model == "" {
		c.Email.Ollama.Model = def.Email.Ollama.Model
	}
	if c.Email.Ollama.Temperature == 0 {
		c.Email.Ollama.Temperature = def.Email.Ollama.Temperature
	}
}

// Validate checks the settings a run cannot proceed without. These are
// fatal before any extraction begins.
func (c *Config) Validate() error {
	if c.GoogleDocURL == "" {
		return errors.New("google_doc_url is not set")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600) and
// returned; validation will then tell the user what to fill in.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to the specified path atomically with 0600
// permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".schoolcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
