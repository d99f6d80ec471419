package runtime

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/pgparse/internal/memctx"
	"github.com/leapstack-labs/pgparse/pkg/parser"
)

// EnvPrefix prefixes every environment variable that sets an option.
const EnvPrefix = "PGPARSE_"

// ConfigFileEnv names the environment variable holding the optional
// YAML option file.
const ConfigFileEnv = "PGPARSE_CONFIG"

// Default option values.
const (
	DefaultMaxInputBytes  = memctx.MaxAllocSize
	DefaultLogMinMessages = "warning"
)

// Options are the run-time settings the parser honours.
type Options struct {
	StandardConformingStrings bool   `koanf:"standard_conforming_strings"`
	MaxInputBytes             int    `koanf:"max_input_bytes"`
	MaxIdentifierLength       int    `koanf:"max_identifier_length"`
	LogMinMessages            string `koanf:"log_min_messages"`
	ServerEncoding            string `koanf:"server_encoding"`
	ClientEncoding            string `koanf:"client_encoding"`
}

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"notice":  slog.LevelInfo,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// defaultOptions returns the option defaults in koanf key form.
func defaultOptions() map[string]any {
	return map[string]any{
		"standard_conforming_strings": true,
		"max_input_bytes":             DefaultMaxInputBytes,
		"max_identifier_length":       parser.DefaultMaxIdentifierLength,
		"log_min_messages":            DefaultLogMinMessages,
		"server_encoding":             EncodingUTF8,
		"client_encoding":             EncodingUTF8,
	}
}

// LoadOptions builds the options from defaults, then the YAML file at
// configFile when it is not empty, then PGPARSE_* variables of the process
// environment.
func LoadOptions(configFile string) (*Options, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultOptions(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// PGPARSE_MAX_INPUT_BYTES -> max_input_bytes
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return nil, fmt.Errorf("unable to decode options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks option ranges.
func (o *Options) Validate() error {
	if o.MaxInputBytes < 1 || o.MaxInputBytes > memctx.MaxAllocSize {
		return fmt.Errorf("max_input_bytes must be between 1 and %d, got %d", memctx.MaxAllocSize, o.MaxInputBytes)
	}
	if o.MaxIdentifierLength < 1 {
		return fmt.Errorf("max_identifier_length must be positive, got %d", o.MaxIdentifierLength)
	}
	if _, ok := logLevels[strings.ToLower(o.LogMinMessages)]; !ok {
		return fmt.Errorf("invalid log_min_messages %q", o.LogMinMessages)
	}
	return nil
}

// LogLevel returns the slog level log_min_messages selects.
func (o *Options) LogLevel() slog.Level {
	return logLevels[strings.ToLower(o.LogMinMessages)]
}

// ParserOptions translates the options the grammar understands.
func (o *Options) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithStandardConformingStrings(o.StandardConformingStrings),
		parser.WithMaxIdentifierLength(o.MaxIdentifierLength),
	}
}
