package diff

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pgparse/pkg/parser"
)

// DefaultHelper is the reference binary used when --pg-helper is not set.
const DefaultHelper = "pgparse"

// Settings are the parsediff flags.
type Settings struct {
	Helper  string `koanf:"pg-helper"`
	File    string `koanf:"file"`
	Dir     string `koanf:"dir"`
	Mode    string `koanf:"mode"`
	Verbose bool   `koanf:"verbose"`
}

// NewCommand creates the parsediff command.
func NewCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parsediff",
		Short: "Compare parse trees with a reference parse helper",
		Long: `Runs a reference parse helper and the in-process parser over the same SQL
and compares the printed trees. Input comes from --file, every *.sql file
in --dir, or stdin.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := koanf.New(".")
			if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
				return fmt.Errorf("failed to load flags: %w", err)
			}
			var s Settings
			if err := k.Unmarshal("", &s); err != nil {
				return fmt.Errorf("unable to decode flags: %w", err)
			}
			return run(cmd, s, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().String("pg-helper", DefaultHelper, "path to the reference parse helper binary")
	cmd.Flags().String("file", "", "single SQL file to compare")
	cmd.Flags().String("dir", "", "directory of .sql files to compare")
	cmd.Flags().String("mode", "default", "grammar entry point for both parsers")
	cmd.Flags().BoolP("verbose", "v", false, "log helper invocations")

	return cmd
}

func run(cmd *cobra.Command, s Settings, stdin io.Reader, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if s.Verbose {
		level = slog.LevelDebug
	}

	mode, ok := parser.ParseMode(s.Mode)
	if !ok {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}

	c := &Comparer{
		HelperPath: s.Helper,
		Mode:       mode,
		Out:        stdout,
		Stdin:      stdin,
		Logger:     slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	if s.Dir != "" {
		return c.CompareDir(cmd.Context(), s.Dir)
	}
	file := s.File
	if file == "" {
		file = StdinPath
	}
	return c.CompareFile(cmd.Context(), file)
}
