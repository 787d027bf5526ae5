package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mjson5/internal/core/errors"
	"mjson5/internal/shared/util"
)

// maxSearchDepth bounds the upward search for FileName.
const maxSearchDepth = 10

// Load reads path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := finish(cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return cfg, nil
}

// LoadWithFallback resolves the configuration for the current directory.
// An explicit path must exist. Otherwise FileName is searched for in the
// working directory and its parents; without a file the defaults are used.
// Environment overrides are applied last. The returned path is empty when
// no file was read.
func LoadWithFallback(explicit string) (*Config, string, error) {
	path := strings.TrimSpace(explicit)
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", errors.Wrap(err, errors.CodeIO, "resolve working directory")
		}
		path, _ = Find(cwd)
	}

	cfg := Default()
	if path != "" {
		decoded, err := decodeFile(path)
		if err != nil {
			return nil, "", err
		}
		cfg = decoded
	}
	ApplyEnvOverrides(cfg)
	if err := finish(cfg); err != nil {
		return nil, "", errors.AddContext(err, errors.CtxPath, path)
	}
	return cfg, path, nil
}

// Find looks for FileName in start and up to maxSearchDepth parents. The
// search stops after the user's home directory.
func Find(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	home, _ := os.UserHomeDir()
	for i := 0; i <= maxSearchDepth; i++ {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == filepath.Clean(home)) {
			break
		}
		dir = parent
	}
	return "", false
}

// decodeFile decodes path on top of the defaults so that omitted keys keep
// their default values.
func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read config"), errors.CtxPath, path)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	applyDefaults(cfg)
	normalize(cfg)
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], errors.CodeValidationError, "invalid config")
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Format.Normalize()
	cfg.Grammar.Backend = strings.ToLower(strings.TrimSpace(cfg.Grammar.Backend))
	cfg.Grammar.SharedObject = strings.TrimSpace(cfg.Grammar.SharedObject)
	cfg.Grammar.Manifest = strings.TrimSpace(cfg.Grammar.Manifest)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	exts := make([]string, 0, len(cfg.Files.Extensions))
	for _, ext := range cfg.Files.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	cfg.Files.Extensions = exts
}

// Save writes c to path as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(path, buf.Bytes(), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write config"), errors.CtxPath, path)
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
