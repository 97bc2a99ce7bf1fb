package fretquiz

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config is the externally supplied lookup data of the trainer: the tuning,
// the playable fret range, the sweat-mode countdown budget and the melody
// playlist. Zero fields of a loaded config fall back to the defaults.
type Config struct {
	Tuning      Tuning        `yaml:"tuning"`
	FretCount   int           `yaml:"fretcount"`
	SweatBudget float64       `yaml:"sweatbudget"` // seconds
	Melody      []MelodyEntry `yaml:"melody"`
}

func DefaultConfig() Config {
	return Config{
		Tuning:      DefaultTuning(),
		FretCount:   NumFrets,
		SweatBudget: 5.0,
		Melody:      FunMelody(),
	}
}

// configFile mirrors Config with pointer fields, so an absent key can be told
// apart from an explicit zero; only absent keys fall back to the defaults.
type configFile struct {
	Tuning      *Tuning       `yaml:"tuning"`
	FretCount   *int          `yaml:"fretcount"`
	SweatBudget *float64      `yaml:"sweatbudget"`
	Melody      []MelodyEntry `yaml:"melody"`
}

// ReadConfig parses a YAML config, filling absent fields from the defaults,
// and validates the result. Explicitly supplied values are never substituted,
// so an invalid zero is rejected rather than papered over.
func ReadConfig(r io.Reader) (Config, error) {
	var f configFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	c := DefaultConfig()
	if f.Tuning != nil {
		c.Tuning = *f.Tuning
	}
	if f.FretCount != nil {
		c.FretCount = *f.FretCount
	}
	if f.SweatBudget != nil {
		c.SweatBudget = *f.SweatBudget
	}
	if f.Melody != nil {
		c.Melody = f.Melody
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	if c.FretCount < 1 || c.FretCount > NumFrets {
		return fmt.Errorf("fretcount %d outside 1..%d", c.FretCount, NumFrets)
	}
	if c.SweatBudget <= 0 {
		return fmt.Errorf("sweatbudget %v is not positive", c.SweatBudget)
	}
	for i, e := range c.Melody {
		if err := e.Position.Validate(); err != nil {
			return fmt.Errorf("melody entry %d: %w", i, err)
		}
		if e.DurationMs <= 0 {
			return fmt.Errorf("melody entry %d: duration %d ms is not positive", i, e.DurationMs)
		}
	}
	return nil
}

// Write serializes the config as YAML.
func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}
