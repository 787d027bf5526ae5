package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"mjson5/internal/core/config/helpers"
)

// Validate returns every problem found in cfg, in section order.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateFormat,
		validateFiles,
		validateWatch,
		validateGrammar,
		validateObservability,
		validateLog,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateFormat(cfg *Config) error {
	if err := cfg.Format.Validate(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}

func validateFiles(cfg *Config) error {
	if len(cfg.Files.Extensions) == 0 {
		return fmt.Errorf("files.extensions must not be empty")
	}
	for i, pattern := range cfg.Files.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("files.include[%d] %q is not a valid glob: %w", i, pattern, err)
		}
	}
	for i, pattern := range cfg.Files.ExcludeFiles {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("files.exclude_files[%d] %q is not a valid glob: %w", i, pattern, err)
		}
	}
	for i, dir := range cfg.Files.ExcludeDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" || dir == "." {
			return fmt.Errorf("files.exclude_dirs[%d] would exclude everything", i)
		}
		if helpers.HasWildcard(dir) {
			if _, err := glob.Compile(dir, '/'); err != nil {
				return fmt.Errorf("files.exclude_dirs[%d] %q is not a valid glob: %w", i, dir, err)
			}
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxWritesPerSecond < 0 {
		return fmt.Errorf("watch.max_writes_per_second must be >= 0, got %g", cfg.Watch.MaxWritesPerSecond)
	}
	return nil
}

func validateGrammar(cfg *Config) error {
	switch cfg.Grammar.Backend {
	case BackendNative:
		return nil
	case BackendTreeSitter:
	default:
		return fmt.Errorf("grammar.backend must be one of: native, treesitter")
	}
	if cfg.Grammar.SharedObject == "" && cfg.Grammar.Manifest == "" {
		return fmt.Errorf("grammar.backend=treesitter requires grammar.shared_object or grammar.manifest")
	}
	if cfg.Grammar.VerifyEnabled() && cfg.Grammar.Manifest == "" {
		return fmt.Errorf("grammar.verify requires grammar.manifest; set verify = false to load %q unchecked", cfg.Grammar.SharedObject)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	addr := cfg.Observability.MetricsAddr
	if addr != "" && !strings.Contains(addr, ":") {
		return fmt.Errorf("observability.metrics_addr must be host:port, got %q", addr)
	}
	if cfg.Observability.OTLPEndpoint != "" && strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		return fmt.Errorf("observability.service_name must not be empty when otlp_endpoint is set")
	}
	return nil
}

func validateLog(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be one of: text, json")
	}
	return nil
}
