package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"mjson5/internal/engine/format"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: MJSON5FMT_[SECTION]_[KEY] (e.g., MJSON5FMT_FORMAT_INDENT_SIZE).
// Nested tables join their names: MJSON5FMT_FORMAT_MUSTACHE_SPACING_AFTER_OPEN.
func ApplyEnvOverrides(cfg *Config) {
	// Format
	setEnvInt(&cfg.Format.IndentSize, "MJSON5FMT_FORMAT_INDENT_SIZE")
	setEnvInt(&cfg.Format.TabWidth, "MJSON5FMT_FORMAT_TAB_WIDTH")
	setEnvBool(&cfg.Format.UseTabs, "MJSON5FMT_FORMAT_USE_TABS")
	setEnvInt(&cfg.Format.MaxLineLength, "MJSON5FMT_FORMAT_MAX_LINE_LENGTH")
	setEnvBool(&cfg.Format.PreserveEmptyLines, "MJSON5FMT_FORMAT_PRESERVE_EMPTY_LINES")
	setEnvEnum(&cfg.Format.TrailingCommas, "MJSON5FMT_FORMAT_TRAILING_COMMAS")
	setEnvEnum(&cfg.Format.QuoteStyle, "MJSON5FMT_FORMAT_QUOTE_STYLE")
	setEnvEnum(&cfg.Format.MustacheIndentStyle, "MJSON5FMT_FORMAT_MUSTACHE_INDENT_STYLE")
	setEnvBool(&cfg.Format.MustacheSpacing.AfterOpen, "MJSON5FMT_FORMAT_MUSTACHE_SPACING_AFTER_OPEN")
	setEnvBool(&cfg.Format.MustacheSpacing.BeforeClose, "MJSON5FMT_FORMAT_MUSTACHE_SPACING_BEFORE_CLOSE")
	setEnvBool(&cfg.Format.MustacheSpacing.AroundOperators, "MJSON5FMT_FORMAT_MUSTACHE_SPACING_AROUND_OPERATORS")
	setEnvBool(&cfg.Format.CommentHandling.PreserveFormatting, "MJSON5FMT_FORMAT_COMMENT_HANDLING_PRESERVE_FORMATTING")
	setEnvBool(&cfg.Format.CommentHandling.NormalizeSpacing, "MJSON5FMT_FORMAT_COMMENT_HANDLING_NORMALIZE_SPACING")

	// Files, comma separated
	setEnvList(&cfg.Files.Extensions, "MJSON5FMT_FILES_EXTENSIONS")
	setEnvList(&cfg.Files.Include, "MJSON5FMT_FILES_INCLUDE")
	setEnvList(&cfg.Files.ExcludeDirs, "MJSON5FMT_FILES_EXCLUDE_DIRS")
	setEnvList(&cfg.Files.ExcludeFiles, "MJSON5FMT_FILES_EXCLUDE_FILES")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "MJSON5FMT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxWritesPerSecond, "MJSON5FMT_WATCH_MAX_WRITES_PER_SECOND")

	// Grammar
	setEnvString(&cfg.Grammar.Backend, "MJSON5FMT_GRAMMAR_BACKEND")
	setEnvString(&cfg.Grammar.SharedObject, "MJSON5FMT_GRAMMAR_SHARED_OBJECT")
	setEnvString(&cfg.Grammar.Manifest, "MJSON5FMT_GRAMMAR_MANIFEST")
	if val, ok := os.LookupEnv("MJSON5FMT_GRAMMAR_VERIFY"); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			logOverride("MJSON5FMT_GRAMMAR_VERIFY", val)
			cfg.Grammar.Verify = &b
		}
	}

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "MJSON5FMT_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "MJSON5FMT_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "MJSON5FMT_OBSERVABILITY_SERVICE_NAME")

	// Log
	setEnvString(&cfg.Log.Level, "MJSON5FMT_LOG_LEVEL")
	setEnvString(&cfg.Log.Format, "MJSON5FMT_LOG_FORMAT")
}

func logOverride(key, val string) {
	slog.Debug("applying env override", "key", key, "value", val)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		logOverride(key, val)
		*target = val
	}
}

// setEnvList splits a comma separated value. An empty value clears the list.
func setEnvList(target *[]string, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	logOverride(key, val)
	items := []string{}
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*target = items
}

func setEnvEnum[T format.TrailingCommas | format.QuoteStyle | format.IndentStyle](target *T, key string) {
	if val, ok := os.LookupEnv(key); ok {
		logOverride(key, val)
		*target = T(val)
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			logOverride(key, val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			logOverride(key, val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			logOverride(key, val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			logOverride(key, val)
			*target = d
		}
	}
}
