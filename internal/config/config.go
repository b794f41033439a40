// Package config loads the engine settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Grid is the shape of an inventory.
type Grid struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// KitEntry is one stack the player starts with on a fresh save.
type KitEntry struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// Keys maps player actions to single characters.
type Keys struct {
	Split        string `yaml:"split"`
	Increase     string `yaml:"increase"`
	Decrease     string `yaml:"decrease"`
	Sell         string `yaml:"sell"`
	Buy          string `yaml:"buy"`
	ToggleVendor string `yaml:"toggle_vendor"`
	Move         string `yaml:"move"`
	Open         string `yaml:"open"`
	Close        string `yaml:"close"`
	DeleteSaves  string `yaml:"delete_saves"`
	Quit         string `yaml:"quit"`
}

// Bindings returns every binding keyed by its YAML name.
func (k Keys) Bindings() map[string]string {
	return map[string]string{
		"split":         k.Split,
		"increase":      k.Increase,
		"decrease":      k.Decrease,
		"sell":          k.Sell,
		"buy":           k.Buy,
		"toggle_vendor": k.ToggleVendor,
		"move":          k.Move,
		"open":          k.Open,
		"close":         k.Close,
		"delete_saves":  k.DeleteSaves,
		"quit":          k.Quit,
	}
}

type Config struct {
	SaveDir       string     `yaml:"save_dir"`
	BackupOnStart bool       `yaml:"backup_on_start"`
	LogLevel      string     `yaml:"log_level"`
	LogDir        string     `yaml:"log_dir"`
	Currency      string     `yaml:"currency"`
	DisabledItems []string   `yaml:"disabled_items"`
	Main          Grid       `yaml:"main"`
	StartingCash  int        `yaml:"starting_cash"`
	StartingKit   []KitEntry `yaml:"starting_kit"`
	Seed          int64      `yaml:"seed"`
	Keys          Keys       `yaml:"keys"`
}

// Default returns the settings used when no file is given. An empty SaveDir
// means the XDG data directory.
func Default() Config {
	return Config{
		LogLevel:     "info",
		Currency:     "gold",
		Main:         Grid{Columns: 6, Rows: 4},
		StartingCash: 100,
		StartingKit: []KitEntry{
			{Item: "tonic", Quantity: 3},
			{Item: "rope", Quantity: 2},
		},
		Keys: Keys{
			Split:        "/",
			Increase:     "+",
			Decrease:     "-",
			Sell:         ">",
			Buy:          "<",
			ToggleVendor: "?",
			Move:         "m",
			Open:         "o",
			Close:        "c",
			DeleteSaves:  "x",
			Quit:         "q",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem in cfg at once.
func (c Config) Validate() error {
	var errs []error
	if c.Currency == "" {
		errs = append(errs, errors.New("currency must name an item"))
	}
	if c.Main.Columns < 1 || c.Main.Rows < 1 {
		errs = append(errs, fmt.Errorf("main inventory must be at least 1x1, got %dx%d", c.Main.Columns, c.Main.Rows))
	}
	if c.StartingCash < 0 {
		errs = append(errs, fmt.Errorf("starting_cash must not be negative, got %d", c.StartingCash))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	for _, k := range c.StartingKit {
		if k.Item == "" || k.Quantity < 1 {
			errs = append(errs, fmt.Errorf("starting_kit entry %+v needs an item and a positive quantity", k))
		}
	}
	seen := make(map[string]string)
	for name, key := range c.Keys.Bindings() {
		if utf8.RuneCountInString(key) != 1 {
			errs = append(errs, fmt.Errorf("key %s must be a single character, got %q", name, key))
			continue
		}
		if other, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("key %q bound to both %s and %s", key, other, name))
		}
		seen[key] = name
	}
	return errors.Join(errs...)
}
