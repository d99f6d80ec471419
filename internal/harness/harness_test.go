package harness

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pgparse/internal/input"
	"github.com/leapstack-labs/pgparse/internal/runtime"
	"github.com/leapstack-labs/pgparse/internal/testutil"
	"github.com/leapstack-labs/pgparse/pkg/parser"
)

const selectOneTree = `({RAWSTMT :stmt {SELECTSTMT :distinctClause <> :intoClause <> ` +
	`:targetList ({RESTARGET :name <> :indirection <> :val {A_CONST :val 1 :location 7} :location 7}) ` +
	`:fromClause <> :whereClause <> :groupClause <> :groupDistinct false :havingClause <> ` +
	`:windowClause <> :valuesLists <> :sortClause <> :limitOffset <> :limitCount <> ` +
	`:limitOption 0 :lockingClause <> :withClause <> :op 0 :all false :larg <> :rarg <>} ` +
	`:stmt_location 0 :stmt_len 8})`

// testInit builds a fresh English runtime per run, logging to t.
func testInit(t *testing.T) InitFunc {
	t.Helper()
	return func(argv0 string) (*runtime.Runtime, error) {
		return runtime.New(runtime.Config{
			Argv0:     argv0,
			Locale:    "C",
			LogOutput: io.Discard,
			Getenv:    func(string) string { return "" },
		})
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runHarness(t *testing.T, s Settings, stdin io.Reader) result {
	t.Helper()
	if s.Init == nil {
		s.Init = testInit(t)
	}
	if s.Argv0 == "" {
		s.Argv0 = "pgparse"
	}
	var stdout, stderr bytes.Buffer
	code := Run(s, stdin, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestSelectMode(t *testing.T) {
	tests := map[string]parser.Mode{
		"default":         parser.ModeDefault,
		"type_name":       parser.ModeTypeName,
		"plpgsql_expr":    parser.ModePLpgSQLExpr,
		"plpgsql_assign1": parser.ModePLpgSQLAssign1,
		"plpgsql_assign2": parser.ModePLpgSQLAssign2,
		"plpgsql_assign3": parser.ModePLpgSQLAssign3,
		"":                parser.ModeDefault,
		"TYPE_NAME":       parser.ModeDefault,
		"plpgsql_assign4": parser.ModeDefault,
		"bogus":           parser.ModeDefault,
	}
	for token, want := range tests {
		assert.Equal(t, want, SelectMode(token), "token %q", token)
	}

	seen := map[parser.Mode]bool{}
	for _, m := range parser.Modes() {
		seen[SelectMode(m.String())] = true
	}
	assert.Len(t, seen, 6, "the six tokens select six distinct modes")
}

func TestRunSelectOne(t *testing.T) {
	res := runHarness(t, Settings{}, strings.NewReader("SELECT 1;"))
	assert.Equal(t, ExitOK, res.code)
	assert.Empty(t, res.stderr)
	assert.Equal(t, selectOneTree+"\n", res.stdout)
	assert.Equal(t, 1, strings.Count(res.stdout, "\n"))

	again := runHarness(t, Settings{}, strings.NewReader("SELECT 1;"))
	assert.Equal(t, res.stdout, again.stdout, "output is deterministic")
}

func TestRunSyntaxError(t *testing.T) {
	res := runHarness(t, Settings{}, strings.NewReader("SELEC 1;"))
	assert.Equal(t, ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "pgparse: syntax error at or near \"SELEC\" (sqlstate 42601)\n", res.stderr)
}

func TestRunTypeName(t *testing.T) {
	res := runHarness(t, Settings{Mode: "type_name"}, strings.NewReader("int4"))
	assert.Equal(t, ExitOK, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "({TYPENAME "), res.stdout)

	res = runHarness(t, Settings{Mode: "default"}, strings.NewReader("int4"))
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "(sqlstate 42601)")
}

func TestRunPLpgSQLModes(t *testing.T) {
	res := runHarness(t, Settings{Mode: "plpgsql_expr"}, strings.NewReader("a + 1"))
	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "{SELECTSTMT")

	for _, mode := range []string{"plpgsql_assign1", "plpgsql_assign2", "plpgsql_assign3"} {
		res := runHarness(t, Settings{Mode: mode}, strings.NewReader("x := 1"))
		assert.Equal(t, ExitOK, res.code, res.stderr)
		assert.Contains(t, res.stdout, "{PLASSIGN :name x")
	}
}

func TestRunEmptyInput(t *testing.T) {
	for _, m := range parser.Modes() {
		res := runHarness(t, Settings{Mode: m.String()}, strings.NewReader(""))
		assert.Equal(t, ExitFailure, res.code, m.String())
		assert.Empty(t, res.stdout)
		assert.Equal(t, "pgparse: empty input\n", res.stderr)
	}
}

func TestRunEmptyStatementList(t *testing.T) {
	res := runHarness(t, Settings{}, strings.NewReader(";;  -- nothing\n"))
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "pgparse: parser returned empty tree\n", res.stderr)
}

func TestRunPassesRawBytesThrough(t *testing.T) {
	res := runHarness(t, Settings{}, strings.NewReader("SELECT '\xff';"))
	assert.Equal(t, ExitOK, res.code, res.stderr)
	assert.Empty(t, res.stderr)
	assert.Contains(t, res.stdout, "\xff")
}

func TestRunInvalidEscapedByte(t *testing.T) {
	res := runHarness(t, Settings{}, strings.NewReader(`SELECT E'\xff';`))
	assert.Equal(t, ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "pgparse: invalid byte sequence for encoding \"UTF8\": 0xff (sqlstate 22021)\n", res.stderr)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o600))

	res := runHarness(t, Settings{File: path}, strings.NewReader("ignored"))
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, selectOneTree+"\n", res.stdout)

	res = runHarness(t, Settings{File: filepath.Join(t.TempDir(), "missing.sql")}, nil)
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "pgparse: failed to open file\n", res.stderr)
}

func TestRunReadError(t *testing.T) {
	res := runHarness(t, Settings{}, iotest.ErrReader(errors.New("disk on fire")))
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "pgparse: failed to read input\n", res.stderr)
}

func TestRunAllocationError(t *testing.T) {
	initFn := func(argv0 string) (*runtime.Runtime, error) {
		rt, err := testInit(t)(argv0)
		if err != nil {
			return nil, err
		}
		rt.InputContext.SetLimit(100)
		return rt, nil
	}
	res := runHarness(t, Settings{Init: initFn}, strings.NewReader("SELECT 1;"))
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "pgparse: out of memory\n", res.stderr)
}

func TestRunInitFailure(t *testing.T) {
	initFn := func(string) (*runtime.Runtime, error) { return nil, errors.New("no catalog") }
	res := runHarness(t, Settings{Init: initFn}, strings.NewReader("SELECT 1;"))
	assert.Equal(t, ExitFailure, res.code)
	assert.Equal(t, "pgparse: failed to initialize: no catalog\n", res.stderr)
}

func TestRunUsesProgramBaseName(t *testing.T) {
	res := runHarness(t, Settings{Argv0: "/opt/bin/pg_parse_helper"}, strings.NewReader("SELEC"))
	assert.True(t, strings.HasPrefix(res.stderr, "pg_parse_helper: "), res.stderr)
}

func TestRunWriteFailure(t *testing.T) {
	var stderr bytes.Buffer
	code := Run(Settings{Argv0: "pgparse", Init: testInit(t)}, strings.NewReader("SELECT 1;"),
		failingWriter{}, &stderr)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr.String(), "failed to write output")
}

func readString(t *testing.T, rt *runtime.Runtime, sql string) *input.Buffer {
	t.Helper()
	buf, err := input.ReadAll(strings.NewReader(sql), rt.InputContext, nil)
	require.NoError(t, err)
	return buf
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestInvokerFlushesErrorState(t *testing.T) {
	rt, err := testInit(t)("pgparse")
	require.NoError(t, err)
	rt.Logger = testutil.NewTestLogger(t)

	inv := NewInvoker(rt)
	buf := readString(t, rt, "SELECT FROM WHERE")
	_, err = inv.Invoke(buf, parser.ModeDefault)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "42601", parseErr.SQLState())
	assert.Len(t, parseErr.SQLState(), 5)
	assert.Equal(t, 0, rt.Errors.Pending())

	tree, err := inv.Invoke(readString(t, rt, "SELECT 1"), parser.ModeDefault)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Len())
}

func TestSerialize(t *testing.T) {
	tree, err := parser.Parse("SELECT 1;", parser.ModeDefault)
	require.NoError(t, err)
	out, err := Serialize(tree)
	require.NoError(t, err)
	assert.Equal(t, selectOneTree, out)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(&UsageError{Message: "bad flag"}))
	assert.Equal(t, ExitFailure, ExitCode(ErrEmptyInput))
	assert.Equal(t, ExitFailure, ExitCode(&ParseError{}))

	pe := &ParseError{}
	assert.Equal(t, "parse error (sqlstate XXXXX)", pe.Error())

	re := &ResourceError{Op: "read", Err: io.ErrClosedPipe}
	assert.ErrorIs(t, re, io.ErrClosedPipe)
}
