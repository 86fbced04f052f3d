package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"go.uber.org/zap"
)

// Run executes the active File through the execution surface and appends its output
// to the operation log.
func (w *Workspace) Run(ctx context.Context) (lines []collab.Line, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpRun, started, err) }()

	active, ok := w.Active()
	if !ok {
		w.appendLog(collab.Error("Execution failed: " + ErrNoActiveFile.Error()))
		return nil, ErrNoActiveFile
	}
	if w.executor == nil {
		w.appendLog(collab.Error("Execution failed: " + ErrNoExecutor.Error()))
		return nil, ErrNoExecutor
	}

	lines, err = w.executor.Run(ctx, collab.RunRequest{
		Content:  active.Content,
		Language: active.Language,
		Filename: active.Name,
	})
	w.appendLog(lines...)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Execution failed: %v", err)))
		w.log.Debug("run failed", zap.String("file", active.Name), zap.Error(err))
		return lines, err
	}
	return lines, nil
}

// Ask requests code from the assistant with the active File as context. The reply is
// appended to the active File when one is selected.
func (w *Workspace) Ask(ctx context.Context, prompt string) (code string, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpAsk, started, err) }()

	if w.assistant == nil {
		w.appendLog(collab.Error("[AI] " + ErrNoAssistant.Error()))
		return "", ErrNoAssistant
	}

	var active *graph.Node
	node, ok := w.Active()
	if ok {
		active = &node
	}
	code, err = w.assistant.Suggest(ctx, prompt, active)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("[AI] Request failed: %v", err)))
		return "", err
	}
	if !ok || strings.TrimSpace(code) == "" {
		return code, nil
	}
	if err := w.InsertIntoActive(code); err != nil {
		return code, err
	}
	w.appendLog(collab.Success(fmt.Sprintf("[AI] Inserted %d lines into %s.", strings.Count(code, "\n")+1, node.Name)))
	return code, nil
}
