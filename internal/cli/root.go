// Package cli provides the command-line interface for pgparse.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/pgparse/internal/harness"
	"github.com/leapstack-labs/pgparse/internal/runtime"
	"github.com/leapstack-labs/pgparse/pkg/parser"
)

const usageFormat = `Usage: %s [--mode=default|type_name|plpgsql_expr|plpgsql_assign1|plpgsql_assign2|plpgsql_assign3] [--file path]
Reads SQL from --file or stdin and prints nodeToString(raw_parser(...)).
`

// Option customizes a CLI run.
type Option func(*app)

// WithInit replaces the runtime initializer, runtime.InitOnce by default.
func WithInit(fn harness.InitFunc) Option {
	return func(a *app) { a.init = fn }
}

type app struct {
	argv0  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	init   harness.InitFunc
	code   int
}

// Run executes the CLI. args[0] is the program path. It returns the
// process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...Option) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) > 0 {
		a.argv0 = args[0]
		args = args[1:]
	}
	for _, opt := range opts {
		opt(a)
	}

	cmd := a.newRootCmd()
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.Execute(); err != nil {
		var usageErr *harness.UsageError
		if errors.As(err, &usageErr) {
			a.usage()
		} else {
			fmt.Fprintf(a.stderr, "%s: %s\n", runtime.Progname(a.argv0), err)
		}
		return harness.ExitCode(err)
	}
	return a.code
}

// NewRootCmd creates the root command writing to the given streams.
func NewRootCmd(argv0 string, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{argv0: argv0, stdin: stdin, stdout: stdout, stderr: stderr}
	return a.newRootCmd()
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   runtime.Progname(a.argv0),
		Short: "Print the raw parse tree of a SQL input",
		Long: `Reads SQL from --file or stdin, parses it from the grammar entry point
selected by --mode and prints the canonical text of the raw parse tree.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &harness.UsageError{Message: fmt.Sprintf("unexpected argument %q", args[0])}
			}
			return nil
		},
		RunE:          a.runE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stderr)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetHelpFunc(func(*cobra.Command, []string) {
		a.usage()
		a.code = harness.ExitUsage
	})
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &harness.UsageError{Message: err.Error()}
	})

	rootCmd.Flags().String("mode", parser.ModeDefault.String(), "grammar entry point")
	rootCmd.Flags().String("file", "", "read SQL from this file instead of stdin")

	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(parser.Modes()))
		for _, m := range parser.Modes() {
			names = append(names, m.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

func (a *app) runE(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}
	settings.Argv0 = a.argv0
	settings.Init = a.init
	a.code = harness.Run(settings, a.stdin, a.stdout, a.stderr)
	return nil
}

// loadSettings reads the parsed flags into harness settings.
func loadSettings(flags *pflag.FlagSet) (harness.Settings, error) {
	k := koanf.New(".")
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return harness.Settings{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var s harness.Settings
	if err := k.Unmarshal("", &s); err != nil {
		return harness.Settings{}, fmt.Errorf("unable to decode flags: %w", err)
	}
	return s, nil
}

func (a *app) usage() {
	fmt.Fprintf(a.stderr, usageFormat, runtime.Progname(a.argv0))
}
