// Package runtime initializes the process-wide state the parser runs in.
//
// New performs every step in a fixed order and either returns a fully
// initialized Runtime or an error; a partially built handle never
// escapes. InitOnce shares one handle across the process.
package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/pgparse/internal/memctx"
	"github.com/leapstack-labs/pgparse/pkg/elog"
)

// DefaultProgname is used when argv0 is empty.
const DefaultProgname = "pgparse"

// Config controls how New initializes the runtime.
type Config struct {
	// Argv0 is the invoking path; its base name becomes the program name.
	Argv0 string
	// Locale overrides the LC_ALL / LC_MESSAGES / LANG lookup.
	Locale string
	// ConfigFile overrides PGPARSE_CONFIG.
	ConfigFile string
	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer
	// Getenv reads PGPARSE_CONFIG and the locale variables. Defaults to
	// os.Getenv. PGPARSE_<OPTION> variables always come from the process
	// environment.
	Getenv func(string) string
}

// Runtime is the initialized parser environment. It is written once by
// New and only read afterwards.
type Runtime struct {
	Pid      int
	Progname string
	// TextDomain names the message catalog, after the program.
	TextDomain string

	TopContext   *memctx.Context
	ErrorContext *memctx.Context
	InputContext *memctx.Context

	Locale  language.Tag
	Printer *message.Printer
	Errors  *elog.State

	// Options holds the loaded settings; both encodings are always UTF8.
	Options Options

	Logger *slog.Logger
}

// New initializes a runtime.
func New(cfg Config) (*Runtime, error) {
	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	// 1. Process identity.
	r := &Runtime{Pid: os.Getpid(), Progname: Progname(cfg.Argv0)}
	r.TextDomain = r.Progname
	logger = logger.With("progname", r.Progname, "pid", r.Pid)

	// 2. Memory arena.
	r.TopContext = memctx.NewTop("TopMemoryContext", logger)
	r.ErrorContext = r.TopContext.NewChild("ErrorContext", 0)
	r.InputContext = r.TopContext.NewChild("InputContext", DefaultMaxInputBytes)
	logger.Debug("memory contexts created")

	// 3. Message locale and error state.
	cat, err := newCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build message catalog: %w", err)
	}
	locale := cfg.Locale
	if locale == "" {
		locale = localeFromEnv(getenv)
	}
	r.Locale = matchLocale(locale)
	r.Printer = newPrinter(r.Locale, cat)
	r.Errors = elog.NewState(r.Printer, logger)
	r.Errors.SetArena(r.ErrorContext)
	logger.Debug("message locale resolved", "domain", r.TextDomain, "locale", r.Locale.String())

	// 4. Options.
	configFile := cfg.ConfigFile
	if configFile == "" {
		configFile = getenv(ConfigFileEnv)
	}
	opts, err := LoadOptions(configFile)
	if err != nil {
		return nil, err
	}
	level.Set(opts.LogLevel())
	r.InputContext.SetLimit(opts.MaxInputBytes)
	logger.Debug("options loaded", "config_file", configFile, "max_input_bytes", opts.MaxInputBytes)

	// 5. Encodings.
	forceUTF8(opts, logger)
	r.Options = *opts

	r.Logger = logger
	return r, nil
}

// Progname returns the program name for argv0.
func Progname(argv0 string) string {
	if argv0 == "" {
		return DefaultProgname
	}
	return filepath.Base(argv0)
}

var (
	initOnce   sync.Once
	initShared *Runtime
	initErr    error
)

// InitOnce initializes the process-wide runtime on first use. Later calls
// return the same handle, or the same error, whatever argv0 they pass.
func InitOnce(argv0 string) (*Runtime, error) {
	initOnce.Do(func() {
		initShared, initErr = New(Config{Argv0: argv0})
	})
	return initShared, initErr
}
