// Package gemini implements the coding assistant with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Assistant answers prompts with code for the active file.
type Assistant struct {
	client       generator
	model        string
	systemPrompt string
	log          *zap.Logger
}

// New creates an Assistant using client.
func New(client generator, cfg config.AssistantConfig, log *zap.Logger) *Assistant {
	return &Assistant{
		client:       client,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		log:          logging.OrNop(log),
	}
}

// Suggest sends prompt, with the active file as context when there is one, and returns
// the reply with any surrounding code fence removed.
func (a *Assistant) Suggest(ctx context.Context, prompt string, active *graph.Node) (string, error) {
	var contents []*genai.Content
	if active != nil {
		contents = append(contents, genai.NewContentFromText(
			fmt.Sprintf("Current file %s (%s):\n```\n%s\n```", active.Name, active.Language, active.Content),
			genai.RoleUser,
		))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{}
	if a.systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(a.systemPrompt, genai.RoleUser)
	}

	resp, err := a.client.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", ErrBlocked
	}

	code := StripFences(resp.Text())
	if code == "" {
		return "", ErrEmptyReply
	}
	a.log.Debug("assistant reply", zap.String("model", a.model), zap.Int("chars", len(code)))
	return code, nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{Status: apiErr.Code, Message: apiErr.Message, Cause: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &RequestError{Status: apiErrPtr.Code, Message: apiErrPtr.Message, Cause: err}
	}
	return &RequestError{Cause: err}
}

// StripFences removes a Markdown code fence wrapping the whole reply, including its
// language tag. Text without a fence is returned trimmed.
func StripFences(reply string) string {
	text := strings.TrimSpace(reply)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.Index(text, "\n"); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = ""
	}
	text = strings.TrimSuffix(strings.TrimRight(text, " \n"), "```")
	return strings.TrimRight(text, "\n")
}
