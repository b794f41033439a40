package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tradepost.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDefaultKeys(t *testing.T) {
	k := Default().Keys
	want := map[string]string{"split": "/", "increase": "+", "decrease": "-", "sell": ">", "buy": "<", "toggle_vendor": "?"}
	got := k.Bindings()
	for name, key := range want {
		if got[name] != key {
			t.Errorf("%s = %q; want %q", name, got[name], key)
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency != "gold" || cfg.Main.Columns != 6 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
currency: crown
disabled_items: [relic]
main:
  columns: 3
  rows: 2
keys:
  buy: b
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency != "crown" {
		t.Errorf("currency = %q; want crown", cfg.Currency)
	}
	if len(cfg.DisabledItems) != 1 || cfg.DisabledItems[0] != "relic" {
		t.Errorf("disabled_items = %v", cfg.DisabledItems)
	}
	if cfg.Main != (Grid{Columns: 3, Rows: 2}) {
		t.Errorf("main = %+v", cfg.Main)
	}
	if cfg.Keys.Buy != "b" || cfg.Keys.Sell != ">" {
		t.Errorf("keys = %+v; want buy overridden and sell kept", cfg.Keys)
	}
	if cfg.StartingCash != 100 {
		t.Errorf("starting_cash = %d; want the default", cfg.StartingCash)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty currency":  "currency: \"\"\n",
		"zero rows":       "main: {columns: 2, rows: 0}\n",
		"long key":        "keys: {buy: bb}\n",
		"duplicate key":   "keys: {buy: \">\"}\n",
		"bad level":       "log_level: loud\n",
		"bad kit":         "starting_kit: [{item: tonic, quantity: 0}]\n",
		"negative cash":   "starting_cash: -1\n",
		"not yaml at all": "main: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("expected a config error, got %v", err)
	}
}
