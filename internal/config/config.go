package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a preprocessing run.
type Config struct {
	TrainImages string `yaml:"train_images"`
	TrainLabels string `yaml:"train_labels"`
	TestImages  string `yaml:"test_images"`

	ResizeDim     int     `yaml:"resize_dim"`
	NumClasses    int     `yaml:"num_classes"`
	BlurKernel    int     `yaml:"blur_kernel"`
	BlurSigma     float64 `yaml:"blur_sigma"`
	UnsharpAmount float64 `yaml:"unsharp_amount"`

	ValidFraction float64 `yaml:"valid_fraction"`
	Epochs        int     `yaml:"epochs"`
	BatchSize     int     `yaml:"batch_size"`
	LearningRate  float64 `yaml:"learning_rate"`
	Seed          int64   `yaml:"seed"`
	LogEvery      int     `yaml:"log_every"`

	PreviewPath    string `yaml:"preview_path"`
	PreviewCount   int    `yaml:"preview_count"`
	PreviewPerRow  int    `yaml:"preview_per_row"`
	SubmissionPath string `yaml:"submission_path"`
	LogLevel       string `yaml:"log_level"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	TrainImages    string
	TrainLabels    string
	TestImages     string
	ResizeDim      int
	NumClasses     int
	Epochs         int
	Seed           int64
	PreviewPath    string
	SubmissionPath string
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.TrainImages != "" {
		c.TrainImages = o.TrainImages
	}
	if o.TrainLabels != "" {
		c.TrainLabels = o.TrainLabels
	}
	if o.TestImages != "" {
		c.TestImages = o.TestImages
	}
	if o.ResizeDim > 0 {
		c.ResizeDim = o.ResizeDim
	}
	if o.NumClasses > 0 {
		c.NumClasses = o.NumClasses
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.PreviewPath != "" {
		c.PreviewPath = o.PreviewPath
	}
	if o.SubmissionPath != "" {
		c.SubmissionPath = o.SubmissionPath
	}
}

// Validate verifies the config is runnable and fills in defaults.
// num_classes has no default and must always be set explicitly.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.TrainImages == "" {
		return errors.New("train_images must be set")
	}
	if c.NumClasses <= 0 {
		return fmt.Errorf("num_classes must be > 0 (got %d)", c.NumClasses)
	}
	if c.ResizeDim < 0 {
		return fmt.Errorf("resize_dim must be >= 0 (got %d)", c.ResizeDim)
	}
	if c.BlurKernel == 0 {
		c.BlurKernel = 9
	}
	if c.BlurKernel < 0 || c.BlurKernel%2 == 0 {
		return fmt.Errorf("blur_kernel must be a positive odd number (got %d)", c.BlurKernel)
	}
	if c.BlurSigma < 0 {
		return fmt.Errorf("blur_sigma must be >= 0 (got %g)", c.BlurSigma)
	}
	if c.UnsharpAmount == 0 {
		c.UnsharpAmount = 1.5
	}
	if c.ValidFraction < 0 || c.ValidFraction >= 1 {
		return fmt.Errorf("valid_fraction must be in [0, 1) (got %g)", c.ValidFraction)
	}
	if c.Epochs < 0 {
		return fmt.Errorf("epochs must be >= 0 (got %d)", c.Epochs)
	}
	if c.Epochs == 0 {
		c.Epochs = 10
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must be >= 0 (got %d)", c.BatchSize)
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("learning_rate must be >= 0 (got %g)", c.LearningRate)
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.05
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 100
	}
	if c.PreviewCount <= 0 {
		c.PreviewCount = 20
	}
	if c.PreviewPerRow <= 0 {
		c.PreviewPerRow = 10
	}
	if c.TestImages != "" && c.TrainLabels == "" {
		return errors.New("train_labels must be set when test_images is set")
	}
	if c.SubmissionPath != "" && c.TestImages == "" {
		return errors.New("submission_path requires test_images")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the parsed logrus level. Call after Validate.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
