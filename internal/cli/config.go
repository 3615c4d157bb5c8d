package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultFormat     = "markdown"
	defaultConfigFile = ".dustdoc.yml"
)

// GenerateConfig holds configuration for documentation generation.
type GenerateConfig struct {
	SourcePath string `validate:"required"`
	OutputPath string
	Format     string `validate:"oneof=markdown md html json yaml yml"`
	HTML       bool
	Name       string
	Workers    int `validate:"min=0"`
	ConfigPath string
	Verbose    bool

	// setFlags holds the values given on the command line, keyed by flag
	// name ("output" for the positional output).
	setFlags map[string]bool
}

// explicit reports whether the named value was given on the command line.
// Without flag information a non-default value counts as given.
func (c *GenerateConfig) explicit(name string, nonDefault bool) bool {
	if c.setFlags != nil {
		return c.setFlags[name]
	}
	return nonDefault
}

// fileConfig mirrors the `dustdoc` section of a config file.
type fileConfig struct {
	Dustdoc struct {
		Format  string `yaml:"format" toml:"format"`
		Output  string `yaml:"output" toml:"output"`
		Name    string `yaml:"name" toml:"name"`
		Workers int    `yaml:"workers" toml:"workers"`
		HTML    bool   `yaml:"html" toml:"html"`
	} `yaml:"dustdoc" toml:"dustdoc"`
}

var validate = validator.New()

// loadConfigFile merges values from the config file into config. Values are
// taken from the file only where no flag was given. When
// no path is given, .dustdoc.yml in the working directory is used if present.
func loadConfigFile(config *GenerateConfig, fsys FileSystem) (string, error) {
	path := config.ConfigPath
	if path == "" {
		if _, err := fsys.Stat(defaultConfigFile); err != nil {
			return "", nil
		}
		path = defaultConfigFile
	}

	data, err := fsys.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := decodeConfig(path, data, &cfg); err != nil {
		return "", fmt.Errorf("parse config: %w", err)
	}

	// Apply config values if flags weren't set
	if !config.explicit("format", config.Format != defaultFormat) && cfg.Dustdoc.Format != "" {
		config.Format = cfg.Dustdoc.Format
	}
	if !config.explicit("output", config.OutputPath != "") && cfg.Dustdoc.Output != "" {
		config.OutputPath = cfg.Dustdoc.Output
	}
	if !config.explicit("name", config.Name != "") && cfg.Dustdoc.Name != "" {
		config.Name = cfg.Dustdoc.Name
	}
	if !config.explicit("workers", config.Workers != 0) && cfg.Dustdoc.Workers != 0 {
		config.Workers = cfg.Dustdoc.Workers
	}
	if !config.explicit("html", config.HTML) {
		config.HTML = cfg.Dustdoc.HTML
	}

	return path, nil
}

func decodeConfig(path string, data []byte, cfg *fileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func validateConfig(config *GenerateConfig) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
