package driver_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshift/internal/driver"
	"github.com/Sumatoshi-tech/codeshift/pkg/parser"
	"github.com/Sumatoshi-tech/codeshift/pkg/transform"
)

var defaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.js":              "a();\n",
		"src/b.TS":              "b();\n",
		"src/c.tsx":             "c();\n",
		"src/readme.md":         "# readme\n",
		"src/lib.min.js":        "x();\n",
		"node_modules/dep/i.js": "i();\n",
		"dist/out.js":           "o();\n",
		"tmp-cache/z.js":        "z();\n",
		"notes.txt":             "hello\n",
	})

	d := driver.New(driver.Options{
		Extensions: defaultExtensions,
		Exclude:    []string{"node_modules", "dist", "tmp-*"},
	})

	notes := filepath.Join(root, "notes.txt")

	files, err := d.Discover([]string{root, notes, filepath.Join(root, "src", "a.js")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		notes,
		filepath.Join(root, "src", "a.js"),
		filepath.Join(root, "src", "b.TS"),
		filepath.Join(root, "src", "c.tsx"),
	}, files)
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := driver.New(driver.Options{}).Discover([]string{filepath.Join(t.TempDir(), "absent")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js": "const x = require(\"./calc\");\n",
		"b.js": "const y = 1;\n",
	})

	a, b := filepath.Join(root, "a.js"), filepath.Join(root, "b.js")

	var progress bytes.Buffer

	d := driver.New(driver.Options{DryRun: true, Transform: transform.FindRequire()}, driver.WithProgress(&progress))

	summary, err := d.Run(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.NoError(t, summary.Err())

	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.Reports)

	assert.Equal(t, "const x = require(\"./calc\");\n", readFile(t, a), "dry run must not write")

	assert.Equal(t, driver.StatusChanged, summary.Files[0].Status)
	assert.Equal(t, parser.LangJavaScript, summary.Files[0].Language)
	assert.Equal(t, "--- a/"+a+"\n+++ b/"+a+"\n@@ -1 +1 @@\n"+
		"-const x = require(\"./calc\");\n"+
		"+const x = require('./calc');\n", summary.Files[0].Diff)
	assert.Empty(t, summary.Files[1].Diff)

	var diffs, reports bytes.Buffer

	require.NoError(t, summary.WriteDiffs(&diffs))
	require.NoError(t, summary.WriteReports(&reports))

	assert.Equal(t, summary.Files[0].Diff, diffs.String())
	assert.Equal(t, a+":1:11: require of ./calc\n", reports.String())

	assert.Contains(t, progress.String(), "transforming "+a+"\n")
	assert.Contains(t, progress.String(), "transforming "+b+"\n")
}

func TestRunWritesBack(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.ts":   "import { f } from \"./f\";\nf(\"x\");\n",
		"script": "#!/usr/bin/env node\nconsole.log(\"hi\");\n",
	})

	a, script := filepath.Join(root, "a.ts"), filepath.Join(root, "script")
	require.NoError(t, os.Chmod(script, 0o755))

	summary, err := driver.New(driver.Options{Verify: true}).Run(context.Background(), []string{a, script})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Changed)

	assert.Equal(t, "import { f } from './f';\nf('x');\n", readFile(t, a))
	assert.Equal(t, "#!/usr/bin/env node\nconsole.log('hi');\n", readFile(t, script))
	assert.Equal(t, parser.LangTypeScript, summary.Files[0].Language)
	assert.Equal(t, parser.LangJavaScript, summary.Files[1].Language)

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestRunSkipsFailingFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js":      "const = ;\n",
		"b.js":      "b(\"b\");\n",
		"notes.txt": "just some prose\n",
	})

	paths := []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js"), filepath.Join(root, "notes.txt")}

	summary, err := driver.New(driver.Options{Workers: 2}).Run(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Skipped)

	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, summary.Files[0].Err, &syntaxErr)
	require.ErrorIs(t, summary.Files[2].Err, driver.ErrUnknownLanguage)
	require.ErrorIs(t, summary.Err(), driver.ErrFilesFailed)

	assert.Equal(t, "b('b');\n", readFile(t, paths[1]))
}

func TestRunFailFast(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js": "const = ;\n",
		"b.js": "b(\"b\");\n",
		"c.js": "c(\"c\");\n",
	})

	paths := []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js"), filepath.Join(root, "c.js")}

	summary, err := driver.New(driver.Options{Workers: 1, FailFast: true}).Run(context.Background(), paths)

	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), paths[0])

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Changed)

	assert.Equal(t, "b(\"b\");\n", readFile(t, paths[1]))
	assert.Equal(t, "c(\"c\");\n", readFile(t, paths[2]))
}

func TestRunMaxFileSize(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"big.js": "f(\"" + strings.Repeat("x", 2000) + "\");\n",
	})

	path := filepath.Join(root, "big.js")

	summary, err := driver.New(driver.Options{MaxFileSize: 1000}).Run(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, summary.Files, 1)
	assert.Equal(t, driver.StatusSkipped, summary.Files[0].Status)
	require.ErrorIs(t, summary.Files[0].Err, driver.ErrFileTooLarge)
	assert.Contains(t, summary.Files[0].Err.Error(), "1.0 kB")
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.js": "a(\"a\");\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := driver.New(driver.Options{}).Run(ctx, []string{filepath.Join(root, "a.js")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "a(\"a\");\n", readFile(t, filepath.Join(root, "a.js")))
}

func TestSummaryOutput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.js": "a(\"a\");\n",
		"b.js": "b('b');\n",
		"c.js": "const = ;\n",
	})

	paths := []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js"), filepath.Join(root, "c.js")}

	summary, err := driver.New(driver.Options{DryRun: true}).Run(context.Background(), paths)
	require.NoError(t, err)

	table := strings.ToLower(summary.Render())
	assert.Contains(t, table, "total: 3 files")
	assert.Contains(t, table, "changed")
	assert.Contains(t, table, "failed")

	var status bytes.Buffer

	summary.WriteStatus(&status, false)
	assert.Contains(t, status.String(), paths[0])
	assert.NotContains(t, status.String(), paths[1])
	assert.Contains(t, status.String(), paths[2])

	status.Reset()
	summary.WriteStatus(&status, true)
	assert.Contains(t, status.String(), paths[1])
}

func TestSummaryErrNil(t *testing.T) {
	t.Parallel()

	summary := &driver.Summary{Files: []driver.FileResult{{Status: driver.StatusChanged}}, Changed: 1}
	require.NoError(t, summary.Err())

	summary.Failed = 1
	assert.True(t, errors.Is(summary.Err(), driver.ErrFilesFailed))
}
