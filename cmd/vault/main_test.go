package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/vault/internal/remote/github"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliEnv is an isolated data dir and config file for one test.
type cliEnv struct {
	t       *testing.T
	dataDir string
	config  string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, key := range []string{"VAULT_GITHUB_TOKEN", "GITHUB_TOKEN", "GEMINI_API_KEY", "VAULT_DATA_DIR"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"storage": {"debounce_ms": 0}}`), 0o644))
	return &cliEnv{t: t, dataDir: filepath.Join(dir, "data"), config: cfgPath}
}

func (e *cliEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config", e.config, "--data-dir", e.dataDir, "--log-level", "error"}, args...)
	err := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, "vault %s", strings.Join(args, " "))
	return out
}

func TestRun_NoCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}, &stderr)

	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), "Commands:")
	assert.Contains(t, stderr.String(), "import-zip")
}

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"--help"}, strings.NewReader(""), &bytes.Buffer{}, &stderr)

	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), "--data-dir")
}

func TestRun_UnknownCommand(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "frobnicate")

	assert.ErrorContains(t, err, "unknown command")
}

func TestRun_FirstRunLoadsTemplateAndPersists(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("tree")

	assert.Equal(t, "index.html *\n", out)
	_, err := os.Stat(filepath.Join(env.dataDir, "hub_vault_v8.json"))
	assert.NoError(t, err)
}

func TestRun_EditingSurvivesRestart(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun("new-folder", "src")
	env.mustRun("new-file", "src/app.ts")
	_, err := env.run("export const x = 1\n", "edit", "src/app.ts", "-")
	require.NoError(t, err)

	assert.Equal(t, "export const x = 1\n", env.mustRun("cat", "src/app.ts"))
	tree := env.mustRun("tree")
	assert.Contains(t, tree, "src/\n  app.ts *\n")

	assert.Equal(t, "src collapsed\n", env.mustRun("toggle", "src"))
	assert.Contains(t, env.mustRun("tree"), "src/ (collapsed)")

	assert.Equal(t, "removed 2 node(s)\n", env.mustRun("rm", "src"))
	_, err = env.run("", "cat", "src/app.ts")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestRun_NewFileMissingParent(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "new-file", "nope/a.go")

	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestRun_NewFileLanguageFlag(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("new-file", "--lang", "python", "script")

	assert.Equal(t, "created script (python)\n", out)
}

func TestRun_ZipRoundTrip(t *testing.T) {
	env := newCLIEnv(t)
	archive := filepath.Join(t.TempDir(), "ws.zip")

	env.mustRun("new-folder", "pkg")
	env.mustRun("new-file", "pkg/lib.go")
	_, err := env.run("package pkg\n", "edit", "pkg/lib.go")
	require.NoError(t, err)
	env.mustRun("export-zip", archive)

	env.mustRun("template", "python")
	_, err = env.run("", "cat", "pkg/lib.go")
	require.Error(t, err)

	out := env.mustRun("import-zip", archive)
	assert.Contains(t, out, "Imported")
	assert.Equal(t, "package pkg\n", env.mustRun("cat", "pkg/lib.go"))
	// The first-run template file travelled through the archive too.
	assert.Contains(t, env.mustRun("cat", "index.html"), "<html")
}

func TestRun_ImportDir(t *testing.T) {
	env := newCLIEnv(t)
	src := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "lib", "util.py"), []byte("X = 1\n"), 0o644))

	env.mustRun("import-dir", src)

	assert.Equal(t, "X = 1\n", env.mustRun("cat", "proj/lib/util.py"))
}

func TestRun_GitignoreAndHistory(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("gitignore")
	assert.Contains(t, out, ".gitignore")
	assert.Contains(t, env.mustRun("cat", ".gitignore"), ".DS_Store")

	assert.Equal(t, "No pushes yet.\n", env.mustRun("history"))
}

func TestRun_DeployWithoutToken(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "deploy", "demo")

	var credErr *github.CredentialError
	assert.ErrorAs(t, err, &credErr)
}

func TestRun_AskWithoutAssistant(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "ask", "index.html", "add a footer")

	assert.Error(t, err)
}

func TestRun_InvalidFlagOverride(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("", "--log-format", "xml", "tree")

	assert.ErrorContains(t, err, "logging.format")
}
