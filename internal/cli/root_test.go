package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pgparse/internal/harness"
	"github.com/leapstack-labs/pgparse/internal/runtime"
)

type cliResult struct {
	code        int
	stdout      string
	stderr      string
	initialized bool
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var res cliResult
	initFn := func(argv0 string) (*runtime.Runtime, error) {
		res.initialized = true
		return runtime.New(runtime.Config{
			Argv0:     argv0,
			Locale:    "C",
			LogOutput: io.Discard,
			Getenv:    func(string) string { return "" },
		})
	}

	var stdout, stderr bytes.Buffer
	res.code = Run(append([]string{"/usr/bin/pgparse"}, args...), strings.NewReader(stdin),
		&stdout, &stderr, WithInit(initFn))
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func TestHelpExitsWithUsage(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		t.Run(arg, func(t *testing.T) {
			res := runCLI(t, "SELECT 1;", arg)
			assert.Equal(t, harness.ExitUsage, res.code)
			assert.False(t, res.initialized, "help must not initialize the runtime")
			assert.Empty(t, res.stdout)
			assert.True(t, strings.HasPrefix(res.stderr, "Usage: pgparse [--mode="), res.stderr)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"positional argument", []string{"query.sql"}},
		{"unknown flag", []string{"--verbose"}},
		{"missing file value", []string{"--file"}},
		{"missing mode value", []string{"--mode"}},
		{"help after bad flag", []string{"--bogus", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "SELECT 1;", tt.args...)
			assert.Equal(t, harness.ExitUsage, res.code)
			assert.False(t, res.initialized)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, "Usage: pgparse")
		})
	}
}

func TestRunDefaultMode(t *testing.T) {
	res := runCLI(t, "SELECT 1;")
	assert.Equal(t, harness.ExitOK, res.code, res.stderr)
	assert.True(t, res.initialized)
	assert.True(t, strings.HasPrefix(res.stdout, "({RAWSTMT :stmt {SELECTSTMT"), res.stdout)
	assert.True(t, strings.HasSuffix(res.stdout, "})\n"))
	assert.Empty(t, res.stderr)
}

func TestModeFlag(t *testing.T) {
	res := runCLI(t, "int4", "--mode=type_name")
	assert.Equal(t, harness.ExitOK, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "({TYPENAME"))

	res = runCLI(t, "int4", "--mode=default")
	assert.Equal(t, harness.ExitFailure, res.code)
	assert.Regexp(t, `^pgparse: .+ \(sqlstate [0-9A-Z]{5}\)\n$`, res.stderr)

	// Unknown mode names fall back to the default grammar.
	res = runCLI(t, "SELECT 1;", "--mode=nonsense")
	assert.Equal(t, harness.ExitOK, res.code)
}

func TestFileFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.sql")
	require.NoError(t, os.WriteFile(path, []byte("x := 1"), 0o600))

	res := runCLI(t, "", "--mode=plpgsql_assign1", "--file", path)
	assert.Equal(t, harness.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "{PLASSIGN")
}

func TestParseFailureReport(t *testing.T) {
	res := runCLI(t, "SELEC 1;")
	assert.Equal(t, harness.ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "pgparse: syntax error at or near \"SELEC\" (sqlstate 42601)\n", res.stderr)
}

func TestEmptyInputReport(t *testing.T) {
	res := runCLI(t, "", "--mode=plpgsql_expr")
	assert.Equal(t, harness.ExitFailure, res.code)
	assert.Equal(t, "pgparse: empty input\n", res.stderr)
}

func TestLoadSettings(t *testing.T) {
	cmd := NewRootCmd("pgparse", strings.NewReader(""), io.Discard, io.Discard)
	require.NoError(t, cmd.ParseFlags([]string{"--mode", "plpgsql_assign2", "--file=a.sql"}))

	s, err := loadSettings(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, "plpgsql_assign2", s.Mode)
	assert.Equal(t, "a.sql", s.File)

	cmd = NewRootCmd("pgparse", strings.NewReader(""), io.Discard, io.Discard)
	require.NoError(t, cmd.ParseFlags(nil))
	s, err = loadSettings(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, "default", s.Mode)
	assert.Empty(t, s.File)
}
