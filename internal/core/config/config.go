package config

import (
	"time"

	"mjson5/internal/engine/format"
	"mjson5/internal/engine/grammar"
)

// FileName is the project configuration file looked up by LoadWithFallback.
const FileName = ".mustache-json5-fmt.toml"

const (
	BackendNative     = "native"
	BackendTreeSitter = "treesitter"
)

type Config struct {
	Version       int            `toml:"version"`
	Format        format.Options `toml:"format"`
	Files         Files          `toml:"files"`
	Watch         Watch          `toml:"watch"`
	Grammar       Grammar        `toml:"grammar"`
	Observability Observability  `toml:"observability"`
	Log           Log            `toml:"log"`
}

type Files struct {
	Extensions   []string `toml:"extensions"`
	Include      []string `toml:"include"`
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"`
}

type Watch struct {
	Debounce           time.Duration `toml:"debounce"`
	MaxWritesPerSecond float64       `toml:"max_writes_per_second"`
}

type Grammar struct {
	Backend      string `toml:"backend"`
	SharedObject string `toml:"shared_object"`
	Manifest     string `toml:"manifest"`
	Verify       *bool  `toml:"verify"`
}

// VerifyEnabled defaults to true when verify is not set.
func (g Grammar) VerifyEnabled() bool {
	if g.Verify == nil {
		return true
	}
	return *g.Verify
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{Format: format.DefaultOptions()}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Files.Extensions) == 0 {
		cfg.Files.Extensions = grammar.MustacheJSON5().FileExtensions()
	}
	if cfg.Files.ExcludeDirs == nil {
		cfg.Files.ExcludeDirs = []string{".git", "node_modules", "vendor"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxWritesPerSecond == 0 {
		cfg.Watch.MaxWritesPerSecond = 10
	}
	if cfg.Grammar.Backend == "" {
		cfg.Grammar.Backend = BackendNative
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "mjson5fmt"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
