package model

import (
	"fmt"
	"sort"
	"time"
)

// Config holds all avatartag settings.
// Loaded by viper (mapstructure tags) and dumped by `config show|init` (yaml tags).
type Config struct {
	Vocabularies map[string][]CategoryRule `yaml:"vocabularies" mapstructure:"vocabularies"`
	Session      SessionConfig             `yaml:"session" mapstructure:"session"`
	Batch        BatchConfig               `yaml:"batch" mapstructure:"batch"`
	Cache        CacheConfig               `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig              `yaml:"output" mapstructure:"output"`
}

// SessionConfig bounds the wait for the asset collection to load
type SessionConfig struct {
	MaxPolls     int           `yaml:"max_polls" mapstructure:"max_polls"`         // Upper bound on item-count polls
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"` // Pause between polls
}

// BatchConfig configures concurrent classification
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CacheConfig configures the classification memo
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// OutputConfig configures console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// Session defaults: ~10 seconds at a 60-tick cadence
const (
	DefaultMaxPolls     = 600
	DefaultPollInterval = time.Second / 60
)

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Vocabularies: map[string][]CategoryRule{
			VocabularyBody: BodyShapeRules(),
			VocabularyHair: HairStyleRules(),
		},
		Session: SessionConfig{
			MaxPolls:     DefaultMaxPolls,
			PollInterval: DefaultPollInterval,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
	}
}

// Vocabulary builds the named vocabulary from the configured rules
func (c *Config) Vocabulary(name string) (Vocabulary, error) {
	rules, ok := c.Vocabularies[name]
	if !ok {
		return Vocabulary{}, fmt.Errorf("unknown vocabulary %q (available: %v)", name, c.VocabularyNames())
	}
	return NewVocabulary(name, rules)
}

// VocabularyNames returns the configured vocabulary names, sorted
func (c *Config) VocabularyNames() []string {
	names := make([]string, 0, len(c.Vocabularies))
	for name := range c.Vocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
