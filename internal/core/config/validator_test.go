package config

import (
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Fatalf("expected default config to be valid, got %v", errs)
	}
}

func TestValidate(t *testing.T) {
	verifyOff := false
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"version", func(c *Config) { c.Version = 3 }, "unsupported config version"},
		{"format", func(c *Config) { c.Format.TabWidth = 0 }, "tab_width must be greater than 0"},
		{"bad include glob", func(c *Config) { c.Files.Include = []string{"[a"} }, "files.include[0]"},
		{"exclude everything", func(c *Config) { c.Files.ExcludeDirs = []string{"."} }, "files.exclude_dirs[0]"},
		{"no extensions", func(c *Config) { c.Files.Extensions = nil }, "files.extensions"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"unknown backend", func(c *Config) { c.Grammar.Backend = "wasm" }, "grammar.backend must be"},
		{"treesitter without artifact", func(c *Config) { c.Grammar.Backend = BackendTreeSitter }, "requires grammar.shared_object"},
		{"verify without manifest", func(c *Config) {
			c.Grammar.Backend = BackendTreeSitter
			c.Grammar.SharedObject = "grammar.so"
		}, "grammar.verify requires grammar.manifest"},
		{"metrics addr", func(c *Config) { c.Observability.MetricsAddr = "9100" }, "observability.metrics_addr"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := Validate(cfg)
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantErr) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, errs)
			}
		})
	}

	cfg := Default()
	cfg.Grammar.Backend = BackendTreeSitter
	cfg.Grammar.SharedObject = "grammar.so"
	cfg.Grammar.Verify = &verifyOff
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("expected unverified shared object to be accepted, got %v", errs)
	}
}
