package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"foflow/common"
	"foflow/content/text"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// PageConfig is in points.
	PageConfig struct {
		Width        float64 `yaml:"width" validate:"gt=0"`
		Height       float64 `yaml:"height" validate:"gt=0"`
		MarginTop    float64 `yaml:"margin_top" validate:"gte=0"`
		MarginBottom float64 `yaml:"margin_bottom" validate:"gte=0"`
		MarginLeft   float64 `yaml:"margin_left" validate:"gte=0"`
		MarginRight  float64 `yaml:"margin_right" validate:"gte=0"`
	}

	FontConfig struct {
		Size       float64 `yaml:"size" validate:"gt=0"`
		LineHeight float64 `yaml:"line_height" validate:"gte=1"`
		Path       string  `yaml:"path,omitempty" sanitize:"assure_file_access"`
	}

	BreakingConfig struct {
		LineStrategy          common.Strategy  `yaml:"line_strategy"`
		PageStrategy          common.Strategy  `yaml:"page_strategy"`
		PageAlignment         common.Alignment `yaml:"page_alignment" validate:"oneof=0 3"`
		Tolerance             float64          `yaml:"tolerance" validate:"gt=0"`
		LinePenalty           int              `yaml:"line_penalty" validate:"gte=0"`
		FlaggedDemerits       int              `yaml:"flagged_demerits" validate:"gte=0"`
		FitnessDemerits       int              `yaml:"fitness_demerits" validate:"gte=0"`
		OverfullDemerits      int              `yaml:"overfull_demerits" validate:"gte=0"`
		HyphenPenalty         int              `yaml:"hyphen_penalty" validate:"gte=0,lt=1000"`
		ExplicitHyphenPenalty int              `yaml:"explicit_hyphen_penalty" validate:"gte=0,lt=1000"`
	}

	HyphenationConfig struct {
		Enable        bool                          `yaml:"enable"`
		MinWordLength int                           `yaml:"min_word_length" validate:"min=2"`
		LeftMin       int                           `yaml:"left_min" validate:"min=1"`
		RightMin      int                           `yaml:"right_min" validate:"min=1"`
		Patterns      map[string]text.PatternSource `yaml:"patterns" validate:"dive"`
	}

	TextConfig struct {
		Language        string  `yaml:"language" validate:"required,bcp47_language_tag"`
		FrenchSpacing   bool    `yaml:"french_spacing"`
		SentenceStretch float64 `yaml:"sentence_stretch" validate:"gte=1"`
	}

	OutputConfig struct {
		// FileNameTransliterate turns generated output names into ASCII slugs
		FileNameTransliterate bool `yaml:"file_name_transliterate"`
	}

	LayoutConfig struct {
		Page        PageConfig        `yaml:"page"`
		Font        FontConfig        `yaml:"font"`
		Breaking    BreakingConfig    `yaml:"breaking"`
		Hyphenation HyphenationConfig `yaml:"hyphenation"`
		Text        TextConfig        `yaml:"text"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Layout    LayoutConfig   `yaml:"layout"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
