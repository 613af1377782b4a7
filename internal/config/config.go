// Package config loads and validates reportgen YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-reportgen/internal/fileutil"
	"github.com/alnah/go-reportgen/internal/scrape"
	"github.com/alnah/go-reportgen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxModelLength     = 100
	MaxPromptLength    = 4000
	MaxEnvNameLength   = 100
	MaxURLLength       = 2048
	MaxUserAgentLength = 512
	MaxPathLength      = 4096
	MaxAddressLength   = 255
	MaxImages          = 5
	MinImageWidth      = 1.0
	MaxImageWidth      = 6.5 // Letter width inside one inch margins
	MaxWorkers         = 64
)

// Supported output formats.
const (
	FormatDOCX = "docx"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// Formats lists the supported output formats, default first.
var Formats = []string{FormatDOCX, FormatHTML, FormatPDF}

// configDirName is the directory under the user config dir searched for named configs.
const configDirName = "reportgen"

// Config holds every setting of the CLI and server.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Images     ImagesConfig     `yaml:"images"`
	Output     OutputConfig     `yaml:"output"`
	Assets     AssetsConfig     `yaml:"assets"`
	Server     ServerConfig     `yaml:"server"`
}

// GenerationConfig configures the text generation service.
type GenerationConfig struct {
	Model     string        `yaml:"model"`     // empty = library default
	Prompt    string        `yaml:"prompt"`    // must contain exactly one %s; empty = library default
	APIKeyEnv string        `yaml:"apiKeyEnv"` // environment variable holding the API key
	Timeout   time.Duration `yaml:"timeout"`   // per generation call, 0 = no extra limit
}

// ImagesConfig configures image search and download.
type ImagesConfig struct {
	SearchURL   string        `yaml:"searchURL"`   // results page, query replaces %s
	Max         int           `yaml:"max"`         // 0..5
	UserAgent   string        `yaml:"userAgent"`   //
	MaxBytes    int64         `yaml:"maxBytes"`    // per image
	Timeout     time.Duration `yaml:"timeout"`     // HTTP client timeout
	WidthInches float64       `yaml:"widthInches"` // display width in the document
}

// OutputConfig configures the produced artifact.
type OutputConfig struct {
	Format string `yaml:"format"` // docx, html or pdf
	Dir    string `yaml:"dir"`    // CLI output directory, empty = current directory
}

// AssetsConfig selects stylesheet and templates for html and pdf output.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath"`    // empty = embedded assets only
	Style       string `yaml:"style"`       // stylesheet name
	TemplateSet string `yaml:"templateSet"` // template set name
}

// ServerConfig configures `reportgen serve`.
type ServerConfig struct {
	Address        string        `yaml:"address"`
	Workers        int           `yaml:"workers"`        // 0 = auto
	RequestTimeout time.Duration `yaml:"requestTimeout"` // per report, CLI and server
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			APIKeyEnv: "GEMINI_API_KEY",
			Timeout:   90 * time.Second,
		},
		Images: ImagesConfig{
			SearchURL:   scrape.DefaultSearchURL,
			Max:         MaxImages,
			UserAgent:   scrape.DefaultUserAgent,
			MaxBytes:    scrape.DefaultMaxImageBytes,
			Timeout:     scrape.DefaultTimeout,
			WidthInches: 4.0,
		},
		Output: OutputConfig{Format: FormatDOCX},
		Assets: AssetsConfig{
			Style:       "report",
			TemplateSet: "default",
		},
		Server: ServerConfig{
			Address:        ":8080",
			RequestTimeout: 3 * time.Minute,
		},
	}
}

// Validate checks field lengths, enums and numeric bounds.
// Called by LoadConfig; also used after environment and flag overrides.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"generation.model", c.Generation.Model, MaxModelLength},
		{"generation.prompt", c.Generation.Prompt, MaxPromptLength},
		{"generation.apiKeyEnv", c.Generation.APIKeyEnv, MaxEnvNameLength},
		{"images.searchURL", c.Images.SearchURL, MaxURLLength},
		{"images.userAgent", c.Images.UserAgent, MaxUserAgentLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"server.address", c.Server.Address, MaxAddressLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Generation.Prompt != "" {
		if err := ValidatePrompt(c.Generation.Prompt); err != nil {
			return err
		}
	}
	if c.Generation.Timeout < 0 {
		return invalid("generation.timeout", "must not be negative, got %s", c.Generation.Timeout)
	}

	if c.Images.SearchURL != "" {
		if err := scrape.ValidateSearchURL(c.Images.SearchURL); err != nil {
			return invalid("images.searchURL", "%v", err)
		}
	}
	if c.Images.Max < 0 || c.Images.Max > MaxImages {
		return invalid("images.max", "must be between 0 and %d, got %d", MaxImages, c.Images.Max)
	}
	if c.Images.MaxBytes < 0 {
		return invalid("images.maxBytes", "must not be negative, got %d", c.Images.MaxBytes)
	}
	if c.Images.Timeout < 0 {
		return invalid("images.timeout", "must not be negative, got %s", c.Images.Timeout)
	}
	if c.Images.WidthInches != 0 && (c.Images.WidthInches < MinImageWidth || c.Images.WidthInches > MaxImageWidth) {
		return invalid("images.widthInches", "must be between %.1f and %.1f, got %.2f", MinImageWidth, MaxImageWidth, c.Images.WidthInches)
	}

	if c.Output.Format != "" && !IsFormat(c.Output.Format) {
		return invalid("output.format", "%q (must be one of %s)", c.Output.Format, strings.Join(Formats, ", "))
	}

	for field, name := range map[string]string{"assets.style": c.Assets.Style, "assets.templateSet": c.Assets.TemplateSet} {
		if name != "" && strings.ContainsAny(name, "/\\.") {
			return invalid(field, "%q must be a name, not a path", name)
		}
	}

	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return invalid("server.workers", "must be between 0 and %d, got %d", MaxWorkers, c.Server.Workers)
	}
	if c.Server.RequestTimeout < 0 {
		return invalid("server.requestTimeout", "must not be negative, got %s", c.Server.RequestTimeout)
	}
	return nil
}

// ValidatePrompt checks that a prompt template has exactly one %s and no
// other formatting verbs. A literal percent sign is written %%.
func ValidatePrompt(prompt string) error {
	rest := strings.ReplaceAll(prompt, "%%", "")
	if strings.Count(rest, "%s") != 1 || strings.Count(rest, "%") != 1 {
		return invalid("generation.prompt", "must contain exactly one %%s placeholder")
	}
	return nil
}

// IsFormat reports whether f is a supported output format.
func IsFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, field, fmt.Sprintf(format, args...))
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads a configuration file on top of DefaultConfig.
// A value containing a path separator is a file path; anything else is a
// config name looked up in the current directory, then in the user config
// directory. A missing file is an error, never a silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the locations LoadConfig tries for a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, configDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
