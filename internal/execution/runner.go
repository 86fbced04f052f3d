// Package execution runs workspace files with local interpreters.
package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"go.uber.org/zap"
)

// LocalRunner implements collab.Executor by writing the file into a scratch directory
// and running the interpreter configured for its language there.
type LocalRunner struct {
	interpreters map[string][]string
	maxOutput    int
	log          *zap.Logger
}

// NewLocalRunner creates a runner from the execution config.
func NewLocalRunner(cfg config.ExecutionConfig, log *zap.Logger) *LocalRunner {
	return &LocalRunner{
		interpreters: cfg.Interpreters,
		maxOutput:    cfg.MaxOutputBytes,
		log:          logging.OrNop(log),
	}
}

// Run executes req. Standard output lines become info lines, standard error lines
// become error lines, and a final line reports the exit status. A non-zero exit is
// reported in the lines, not as an error.
func (r *LocalRunner) Run(ctx context.Context, req collab.RunRequest) ([]collab.Line, error) {
	argv, ok := r.interpreters[req.Language]
	if !ok || len(argv) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, req.Language)
	}

	name := filepath.Base(req.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "main"
	}
	cmdline := strings.Join(append(append([]string{}, argv...), name), " ")

	dir, err := os.MkdirTemp("", "vault-run-*")
	if err != nil {
		return nil, &CommandError{Cmd: cmdline, Stage: "prepare", Cause: err}
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(req.Content), 0o644); err != nil {
		return nil, &CommandError{Cmd: cmdline, Stage: "prepare", Cause: err}
	}

	stdout := newCollector(r.maxOutput)
	stderr := newCollector(r.maxOutput)
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], name)...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.log.Debug("running file", zap.String("cmd", cmdline))
	runErr := cmd.Run()

	lines := []collab.Line{collab.Input("$ " + cmdline)}
	for _, l := range stdout.lines() {
		lines = append(lines, collab.Info(l))
	}
	for _, l := range stderr.lines() {
		lines = append(lines, collab.Error(l))
	}
	if stdout.truncated || stderr.truncated {
		lines = append(lines, collab.Error(fmt.Sprintf("[output truncated at %d bytes]", r.maxOutput)))
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		lines = append(lines, collab.Success("Process exited with code 0"))
	case ctx.Err() != nil:
		return lines, ctx.Err()
	case errors.As(runErr, &exitErr):
		lines = append(lines, collab.Error(fmt.Sprintf("Process exited with code %d", exitErr.ExitCode())))
	default:
		return nil, &CommandError{Cmd: cmdline, Stage: "start", Cause: runErr}
	}
	return lines, nil
}
