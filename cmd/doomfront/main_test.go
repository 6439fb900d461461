package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/viletech/doomfront/internal/testconfig"
)

// setup writes a configuration file disabling colors and the given files to a temporary
// directory, the returned arguments select the configuration file.
func setup(t *testing.T, files map[string]string) (dir string, configArgs []string) {
	dir = t.TempDir()

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("color: never\n"), 0o600))

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir, []string{"--config", configPath}
}

func run(args ...string) (statusCode int, out string, errOut string) {
	outW := bytes.NewBuffer(nil)
	errW := bytes.NewBuffer(nil)

	statusCode = _main(append([]string{COMMAND_NAME}, args...), outW, errW)
	return statusCode, outW.String(), errW.String()
}

func TestVersionCommand(t *testing.T) {
	testconfig.AllowParallelization(t)
	statusCode, out, _ := run("version")
	assert.Equal(t, 0, statusCode)
	assert.Equal(t, "doomfront dev\n", out)
}

func TestParseCommand(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("text", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"cvarinfo.txt": "server int x = 1;"})

		statusCode, out, errOut := run(append(configArgs, "parse", filepath.Join(dir, "cvarinfo.txt"))...)
		require.Equal(t, 0, statusCode, errOut)

		assert.True(t, strings.HasPrefix(out, "Root@0..17\n  Definition@0..17\n"))
		assert.Contains(t, out, `Ident@11..12 "x"`)
		assert.NotContains(t, out, "error:")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("text with diagnostics", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"CVARINFO": "server int x"})
		path := filepath.Join(dir, "CVARINFO")

		statusCode, out, _ := run(append(configArgs, "parse", path)...)
		assert.Equal(t, 0, statusCode)
		assert.Contains(t, out, path+":1:13: error: unexpected end of input, expected `;`\n")
	})

	t.Run("json", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"shift.expr": "a<<b"})

		statusCode, out, errOut := run(append(configArgs, "parse", "--lang", "expr", "--format", "json", filepath.Join(dir, "shift.expr"))...)
		require.Equal(t, 0, statusCode, errOut)
		require.True(t, gjson.Valid(out))

		assert.Equal(t, "expr", gjson.Get(out, "language").String())
		assert.Equal(t, "Root", gjson.Get(out, "tree.kind").String())
		assert.Equal(t, "BinExpr", gjson.Get(out, "tree.children.0.kind").String())
		assert.Equal(t, "<<", gjson.Get(out, "tree.children.0.children.1.text").String())
		assert.Contains(t, out, `"<<"`)
		assert.Equal(t, int64(4), gjson.Get(out, "tree.span.end").Int())
		assert.True(t, gjson.Get(out, "diagnostics").IsArray())
		assert.Zero(t, gjson.Get(out, "diagnostics.#").Int())
	})

	t.Run("json with diagnostics", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"e": "a +"})

		statusCode, out, _ := run(append(configArgs, "parse", "-l", "expr", "-f", "json", filepath.Join(dir, "e"))...)
		require.Equal(t, 0, statusCode)

		assert.Equal(t, int64(1), gjson.Get(out, "diagnostics.#").Int())
		assert.Equal(t, "end of input", gjson.Get(out, "diagnostics.0.found").String())
		assert.Equal(t, int64(1), gjson.Get(out, "diagnostics.0.position.line").Int())
		assert.Equal(t, int64(4), gjson.Get(out, "diagnostics.0.position.column").Int())
	})

	t.Run("yaml", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"cvarinfo.txt": "user bool b;"})

		statusCode, out, errOut := run(append(configArgs, "parse", "--format", "yaml", filepath.Join(dir, "cvarinfo.txt"))...)
		require.Equal(t, 0, statusCode, errOut)

		assert.Contains(t, out, "language: cvarinfo")
		assert.Contains(t, out, "kind: Root")
		assert.Contains(t, out, "kind: Definition")
	})

	t.Run("language cannot be inferred", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"foo.txt": "a"})

		statusCode, _, errOut := run(append(configArgs, "parse", filepath.Join(dir, "foo.txt"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "failed to infer the language")
	})

	t.Run("unknown language", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"foo.txt": "a"})

		statusCode, _, errOut := run(append(configArgs, "parse", "--lang", "zscript", filepath.Join(dir, "foo.txt"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, `unknown language "zscript"`)
	})

	t.Run("invalid format", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"cvarinfo.txt": ""})

		statusCode, _, errOut := run(append(configArgs, "parse", "--format", "xml", filepath.Join(dir, "cvarinfo.txt"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, `invalid format "xml"`)
	})

	t.Run("missing file", func(t *testing.T) {
		dir, configArgs := setup(t, nil)

		statusCode, _, errOut := run(append(configArgs, "parse", filepath.Join(dir, "cvarinfo.txt"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "failed to read")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"cvarinfo.txt": ""})

		args := append(configArgs, "--log-level", "loud", "parse", filepath.Join(dir, "cvarinfo.txt"))
		statusCode, _, errOut := run(args...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "invalid log_level")
	})
}

func TestCheckCommand(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("no diagnostics", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{
			"cvarinfo.txt":     "server int x = 1;",
			"sub/cvarinfo.txt": "user bool b = false;",
		})

		statusCode, out, errOut := run(append(configArgs, "check", filepath.Join(dir, "**", "cvarinfo.txt"))...)
		require.Equal(t, 0, statusCode, errOut)
		assert.Equal(t, "2 file(s) checked, 0 diagnostic(s)\n", out)
	})

	t.Run("diagnostics are reported in natural order", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{
			"cvarinfo10.txt": "server int x",
			"cvarinfo2.txt":  "\nserver foo int y;",
		})

		statusCode, out, _ := run(append(configArgs, "check", filepath.Join(dir, "*.txt"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], filepath.Join(dir, "cvarinfo2.txt")+":2:8: error: unexpected identifier `foo`"), lines[0])
		assert.Equal(t, filepath.Join(dir, "cvarinfo10.txt")+":1:13: error: unexpected end of input, expected `;`", lines[1])
		assert.Equal(t, "2 file(s) checked, 2 diagnostic(s)", lines[2])
	})

	t.Run("json", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{
			"cvarinfo.a.txt": "server int x;",
			"cvarinfo.b.txt": "server int x;",
			"cvarinfo.c.txt": "server int x",
		})

		args := append(configArgs, "check", "--jobs", "1", "--format", "json", filepath.Join(dir, "cvarinfo.*"))
		statusCode, out, _ := run(args...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		require.True(t, gjson.Valid(out))

		assert.Len(t, gjson.Get(out, "run").String(), 26)
		assert.Equal(t, int64(3), gjson.Get(out, "files.#").Int())
		assert.Equal(t, int64(1), gjson.Get(out, "diagnosticCount").Int())
		assert.Equal(t, int64(1), gjson.Get(out, "cachedCount").Int())

		assert.Equal(t, "cvarinfo", gjson.Get(out, "files.0.language").String())
		assert.False(t, gjson.Get(out, "files.0.cached").Bool())
		assert.True(t, gjson.Get(out, "files.1.cached").Bool())
		assert.Equal(t, int64(1), gjson.Get(out, "files.2.diagnostics.#").Int())

		assert.Equal(t, int64(2), gjson.Get(out, "resultCache.entries").Int())
		assert.Equal(t, int64(1), gjson.Get(out, "resultCache.hits").Int())
		assert.Equal(t, int64(2), gjson.Get(out, "resultCache.misses").Int())
	})

	t.Run("interning stats", func(t *testing.T) {
		files := map[string]string{
			"cvarinfo.txt":  "server int x;",
			"cvarinfo2.txt": "user int x;",
		}

		tokenHits := map[string]int64{}
		for _, policy := range []string{"none", "local", "shared"} {
			dir, configArgs := setup(t, files)

			args := append(configArgs, "check", "--cache", policy, "--format", "json", filepath.Join(dir, "cvarinfo*"))
			statusCode, out, errOut := run(args...)
			require.Equal(t, 0, statusCode, policy+": "+errOut)

			if policy == "none" {
				assert.False(t, gjson.Get(out, "interning").Exists())
				continue
			}
			assert.Positive(t, gjson.Get(out, "interning.tokens").Int(), policy)
			tokenHits[policy] = gjson.Get(out, "interning.tokenHits").Int()
		}

		//the shared cache also reuses the tokens of the other file
		assert.Positive(t, tokenHits["local"])
		assert.Greater(t, tokenHits["shared"], tokenHits["local"])
	})

	t.Run("cache policies", func(t *testing.T) {
		for _, policy := range []string{"none", "local", "shared"} {
			dir, configArgs := setup(t, map[string]string{
				"cvarinfo.txt":  "server int x;",
				"cvarinfo2.txt": "user float f = 1.0;",
			})

			statusCode, _, errOut := run(append(configArgs, "check", "--cache", policy, filepath.Join(dir, "cvarinfo*"))...)
			assert.Equal(t, 0, statusCode, policy+": "+errOut)
		}
	})

	t.Run("invalid cache policy", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"cvarinfo.txt": ""})

		statusCode, _, errOut := run(append(configArgs, "check", "--cache", "global", filepath.Join(dir, "cvarinfo*"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "cache should be one of")
	})

	t.Run("file whose language cannot be inferred", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"cvarinfo.txt": "", "readme.md": ""})

		statusCode, out, _ := run(append(configArgs, "check", filepath.Join(dir, "*.{txt,md}"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, out, "failed to infer the language")
		assert.Contains(t, out, "1 file(s) could not be checked")
	})

	t.Run("explicit language", func(t *testing.T) {
		dir, configArgs := setup(t, map[string]string{"a.expr": "1 + 2", "b.expr": "f(x)[0]"})

		statusCode, out, errOut := run(append(configArgs, "check", "--lang", "expr", filepath.Join(dir, "*.expr"))...)
		require.Equal(t, 0, statusCode, errOut)
		assert.Equal(t, "2 file(s) checked, 0 diagnostic(s)\n", out)
	})

	t.Run("no matching file", func(t *testing.T) {
		dir, configArgs := setup(t, nil)

		statusCode, _, errOut := run(append(configArgs, "check", filepath.Join(dir, "*.txt"))...)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "no file to check")
	})
}

func TestWatchedDirs(t *testing.T) {
	testconfig.AllowParallelization(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "cvarinfo.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deeper"), 0o700))

	t.Run("nested files", func(t *testing.T) {
		dirs := watchedDirs([]string{
			filepath.Join(dir, "**", "*.txt"),
			file,
		})
		assert.Equal(t, []string{dir, filepath.Join(dir, "sub"), filepath.Join(dir, "sub", "deeper")}, dirs)
	})

	t.Run("files of a single directory", func(t *testing.T) {
		dirs := watchedDirs([]string{
			file,
			filepath.Join(dir, "*.expr"),
		})
		assert.Equal(t, []string{dir}, dirs)
	})
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	buf  bytes.Buffer
	lock sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func newTestApplication(t *testing.T, dir string, outW io.Writer) *application {
	app := &application{
		outW:       outW,
		errW:       io.Discard,
		configPath: filepath.Join(dir, "config.yaml"),
	}
	require.NoError(t, app.init())
	return app
}

func TestCheckerForgetFile(t *testing.T) {
	testconfig.AllowParallelization(t)

	dir, _ := setup(t, map[string]string{
		"cvarinfo.txt":  "server int x;",
		"cvarinfo2.txt": "user int y;",
	})

	checker := newChecker(newTestApplication(t, dir, io.Discard), checkOptions{format: TEXT_FORMAT})
	_, err := checker.run(context.Background(), []string{filepath.Join(dir, "cvarinfo*")})
	require.NoError(t, err)

	results := checker.results["cvarinfo"]
	require.Equal(t, 2, results.Len())

	checker.forgetFile(filepath.Join(dir, "cvarinfo2.txt"))
	assert.Equal(t, 1, results.Len())

	checker.forgetFile(filepath.Join(dir, "cvarinfo3.txt"))
	assert.Equal(t, 1, results.Len())

	//the result of the first file is still cached
	summary, err := checker.run(context.Background(), []string{filepath.Join(dir, "cvarinfo*")})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Cached)
	for _, file := range summary.Files {
		assert.Equal(t, file.Path == filepath.Join(dir, "cvarinfo.txt"), file.Cached, file.Path)
	}
}

func TestCheckWatch(t *testing.T) {
	testconfig.AllowParallelization(t)

	dir, _ := setup(t, map[string]string{
		"top/cvarinfo.txt":     "server int x;",
		"top/sub/cvarinfo.txt": "user int y;",
	})
	top := filepath.Join(dir, "top")

	out := &syncBuffer{}
	checker := newChecker(newTestApplication(t, dir, out), checkOptions{format: TEXT_FORMAT})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- checker.watch(ctx, []string{filepath.Join(top, "**", "*.txt")})
	}()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	runs := func() int {
		return strings.Count(out.String(), "file(s) checked")
	}
	waitForRun := func(after int) {
		require.Eventually(t, func() bool {
			return runs() > after
		}, 10*time.Second, 10*time.Millisecond, "runs: %d\n%s", runs(), out.String())
	}

	waitForRun(0)
	assert.Contains(t, out.String(), "2 file(s) checked, 0 diagnostic(s)")

	//change in a subdirectory

	before := runs()
	require.NoError(t, os.WriteFile(filepath.Join(top, "sub", "cvarinfo.txt"), []byte("user int y"), 0o600))
	waitForRun(before)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "2 file(s) checked, 1 diagnostic(s)")
	}, 10*time.Second, 10*time.Millisecond)

	//new subdirectory

	before = runs()
	newDir := filepath.Join(top, "new")
	require.NoError(t, os.Mkdir(newDir, 0o700))
	waitForRun(before)

	before = runs()
	require.NoError(t, os.WriteFile(filepath.Join(newDir, "cvarinfo.txt"), []byte("server bool b;"), 0o600))
	waitForRun(before)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "3 file(s) checked, 1 diagnostic(s)")
	}, 10*time.Second, 10*time.Millisecond)
}
