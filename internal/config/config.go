// Package config loads and validates the application configuration from
// defaults, an optional YAML file and APU_-prefixed environment variables,
// in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"apucli/internal/extraction"
	"apucli/internal/grid"
)

// envPrefix is the environment variable prefix, e.g. APU_LOGGING_LEVEL.
const envPrefix = "APU"

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Extraction ExtractionConfig `yaml:"extraction" envconfig:"EXTRACTION"`
	HTTP       HTTPConfig       `yaml:"http" envconfig:"HTTP"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the working directories and registry file location
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	MappedDir string `yaml:"mapped_dir" envconfig:"MAPPED_DIR"`
	URISFile  string `yaml:"uris_file" envconfig:"URIS_FILE"`
}

// ExtractionConfig mirrors the worksheet layout knobs of the extraction
// engine. Defaults match the standard quotation-table layout.
type ExtractionConfig struct {
	AnchorText       string `yaml:"anchor_text" envconfig:"ANCHOR_TEXT"`
	CodeColumn       string `yaml:"code_column" envconfig:"CODE_COLUMN"`
	CodeRowStart     int    `yaml:"code_row_start" envconfig:"CODE_ROW_START"`
	ElemColStart     string `yaml:"elem_col_start" envconfig:"ELEM_COL_START"`
	ElemColEnd       string `yaml:"elem_col_end" envconfig:"ELEM_COL_END"`
	ElemRowStart     int    `yaml:"elem_row_start" envconfig:"ELEM_ROW_START"`
	ElemRowEnd       int    `yaml:"elem_row_end" envconfig:"ELEM_ROW_END"`
	StepRows         int    `yaml:"step_rows" envconfig:"STEP_ROWS"`
	RequireCodeLabel bool   `yaml:"require_code_label" envconfig:"REQUIRE_CODE_LABEL"`
	Workers          int    `yaml:"workers" envconfig:"WORKERS"`
}

// HTTPConfig contains the lookup client settings
type HTTPConfig struct {
	AuthToken         string            `yaml:"auth_token" envconfig:"AUTH_TOKEN"`
	Timeout           time.Duration     `yaml:"timeout" envconfig:"TIMEOUT"`
	RequestsPerSecond float64           `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int               `yaml:"burst" envconfig:"BURST"`
	Headers           map[string]string `yaml:"headers" envconfig:"HEADERS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/apucli.log",
		},
		Paths: PathsConfig{
			InputDir:  "input_xlsx",
			OutputDir: "output_json",
			MappedDir: "output_json_mapped",
			URISFile:  "URIS.json",
		},
		Extraction: ExtractionConfig{
			AnchorText:       extraction.DefaultAnchorText,
			CodeColumn:       "B",
			CodeRowStart:     9,
			ElemColStart:     "F",
			ElemColEnd:       "S",
			ElemRowStart:     12,
			ElemRowEnd:       27,
			StepRows:         33,
			RequireCodeLabel: true,
			Workers:          4,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             1,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at filePath if
// it exists, then environment variables.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	e := c.Extraction
	if _, err := grid.ColumnNumber(e.CodeColumn); err != nil {
		return err
	}
	if _, err := grid.ColumnNumber(e.ElemColStart); err != nil {
		return err
	}
	if _, err := grid.ColumnNumber(e.ElemColEnd); err != nil {
		return err
	}
	if e.CodeRowStart < 1 || e.ElemRowStart < 1 {
		return fmt.Errorf("row numbers are 1-based, got code=%d elem=%d", e.CodeRowStart, e.ElemRowStart)
	}
	if e.ElemRowEnd < e.ElemRowStart {
		return fmt.Errorf("element row range is inverted: %d..%d", e.ElemRowStart, e.ElemRowEnd)
	}
	if e.StepRows < 1 {
		return fmt.Errorf("step_rows must be positive, got %d", e.StepRows)
	}
	if e.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", e.Workers)
	}
	if c.Paths.InputDir == "" || c.Paths.OutputDir == "" || c.Paths.MappedDir == "" {
		return fmt.Errorf("input, output and mapped directories must be set")
	}
	return nil
}

// Params converts the extraction section into engine parameters.
func (e ExtractionConfig) Params() extraction.Params {
	return extraction.Params{
		AnchorText:       e.AnchorText,
		CodeColumn:       e.CodeColumn,
		CodeRowStart:     e.CodeRowStart,
		ElemColStart:     e.ElemColStart,
		ElemColEnd:       e.ElemColEnd,
		ElemRowStart:     e.ElemRowStart,
		ElemRowEnd:       e.ElemRowEnd,
		StepRows:         e.StepRows,
		RequireCodeLabel: e.RequireCodeLabel,
	}
}
