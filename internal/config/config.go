package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"autodocstring/internal/docstring"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = ".autodocstring.yaml"

// ErrInvalid is returned when a loaded config fails validation.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Style string `yaml:"style" validate:"oneof=google numpy sphinx auto auto_google auto_numpy auto_sphinx"`

	DefaultType        string `yaml:"default_type"`
	DefaultDescription string `yaml:"default_description"`
	DefaultSummary     string `yaml:"default_summary"`
	DefaultReturnName  string `yaml:"default_return_name"`
	OptionalTag        string `yaml:"optional_tag"`

	SortClassAttributes  bool `yaml:"sort_class_attributes"`
	SortExceptions       bool `yaml:"sort_exceptions"`
	SortModuleAttributes bool `yaml:"sort_module_attributes"`

	StartWithNewline          StyleSet `yaml:"start_with_newline"`
	TemplateOrder             bool     `yaml:"template_order"`
	PreserveOriginalOnRewrite bool     `yaml:"preserve_original_on_rewrite"`

	InspectFunctionParameters bool `yaml:"inspect_function_parameters"`
	InspectExceptions         bool `yaml:"inspect_exceptions"`
	InspectClassAttributes    bool `yaml:"inspect_class_attributes"`
	InspectModuleAttributes   bool `yaml:"inspect_module_attributes"`

	DefaultQStyle      string `yaml:"default_qstyle" validate:"qstyle"`
	ForceDefaultQStyle bool   `yaml:"force_default_qstyle"`

	CacheSize int           `yaml:"cache_size" validate:"gte=0"`
	CacheTTL  time.Duration `yaml:"cache_ttl" validate:"gte=0"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Style:                     "auto_google",
		DefaultType:               "TYPE",
		DefaultDescription:        "Description",
		DefaultSummary:            "Summary",
		DefaultReturnName:         "name",
		OptionalTag:               "optional",
		SortClassAttributes:       true,
		SortExceptions:            true,
		SortModuleAttributes:      true,
		InspectFunctionParameters: true,
		InspectExceptions:         true,
		InspectClassAttributes:    true,
		InspectModuleAttributes:   true,
		DefaultQStyle:             `"""`,
		ForceDefaultQStyle:        true,
		CacheSize:                 128,
		CacheTTL:                  10 * time.Minute,
	}
}

// Load reads the YAML config at path on fs over the defaults, then applies
// AUTODOCSTRING_* environment overrides. An empty path falls back to
// DefaultFile when it exists.
func Load(fs afero.Fs, path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	cfg := Default()
	if path == "" {
		if ok, _ := afero.Exists(fs, DefaultFile); ok {
			path = DefaultFile
		}
	}
	if path != "" {
		file, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.Style = strings.ToLower(strings.TrimSpace(cfg.Style))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if style := os.Getenv("AUTODOCSTRING_STYLE"); style != "" {
		c.Style = style
	}
	if typ := os.Getenv("AUTODOCSTRING_DEFAULT_TYPE"); typ != "" {
		c.DefaultType = typ
	}
	if desc := os.Getenv("AUTODOCSTRING_DEFAULT_DESCRIPTION"); desc != "" {
		c.DefaultDescription = desc
	}
	if tag, ok := os.LookupEnv("AUTODOCSTRING_OPTIONAL_TAG"); ok {
		c.OptionalTag = tag
	}
	if q := os.Getenv("AUTODOCSTRING_DEFAULT_QSTYLE"); q != "" {
		c.DefaultQStyle = q
	}
	if v := os.Getenv("AUTODOCSTRING_PRESERVE_ORIGINAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse AUTODOCSTRING_PRESERVE_ORIGINAL: %w", err)
		}
		c.PreserveOriginalOnRewrite = b
	}
	if v := os.Getenv("AUTODOCSTRING_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("failed to parse AUTODOCSTRING_CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	return nil
}

// DocStyle reports the configured style. When auto is set, style is the
// fallback for buffers without a detectable docstring.
func (c *Config) DocStyle() (style docstring.Style, auto bool, err error) {
	name := strings.ToLower(strings.TrimSpace(c.Style))
	if rest, ok := strings.CutPrefix(name, "auto"); ok {
		auto = true
		name = strings.TrimPrefix(rest, "_")
		if name == "" {
			name = "google"
		}
	}
	style, err = docstring.ParseStyle(name)
	return style, auto, err
}

// WantsNewline reports whether new summaries start on the line after the
// opening quotes for style.
func (c *Config) WantsNewline(style docstring.Style) bool {
	return c.StartWithNewline.Has(style.String())
}
