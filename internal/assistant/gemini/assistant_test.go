package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// MockClient is a mock implementation of generator for testing.
type MockClient struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *MockClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, model, contents, config)
	}
	return nil, errors.New("GenerateContentFunc not set")
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func newTestAssistant(m *MockClient) *Assistant {
	return New(m, config.DefaultConfig().Assistant, nil)
}

func TestSuggest_IncludesActiveFile(t *testing.T) {
	var gotContents []*genai.Content
	var gotModel string
	var gotConfig *genai.GenerateContentConfig
	m := &MockClient{GenerateContentFunc: func(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel, gotContents, gotConfig = model, contents, cfg
		return textResponse("```python\nprint('hi')\n```"), nil
	}}
	active := &graph.Node{Name: "main.py", Language: "python", Content: "x = 1"}

	code, err := newTestAssistant(m).Suggest(context.Background(), "print hi", active)

	require.NoError(t, err)
	assert.Equal(t, "print('hi')", code)
	assert.Equal(t, "gemini-2.5-flash", gotModel)
	require.Len(t, gotContents, 2)
	assert.Contains(t, gotContents[0].Parts[0].Text, "main.py")
	assert.Contains(t, gotContents[0].Parts[0].Text, "x = 1")
	assert.Equal(t, "print hi", gotContents[1].Parts[0].Text)
	require.NotNil(t, gotConfig.SystemInstruction)
}

func TestSuggest_NoActiveFile(t *testing.T) {
	var count int
	m := &MockClient{GenerateContentFunc: func(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		count = len(contents)
		return textResponse("echo ok"), nil
	}}

	code, err := newTestAssistant(m).Suggest(context.Background(), "shell", nil)

	require.NoError(t, err)
	assert.Equal(t, "echo ok", code)
	assert.Equal(t, 1, count)
}

func TestSuggest_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
		want error
	}{
		{"no candidates", &genai.GenerateContentResponse{}, nil, ErrNoCandidates},
		{"blocked", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}, nil, ErrBlocked},
		{"empty", textResponse("```\n```"), nil, ErrEmptyReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockClient{GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tt.resp, tt.err
			}}
			_, err := newTestAssistant(m).Suggest(context.Background(), "p", nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSuggest_APIError(t *testing.T) {
	m := &MockClient{GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, genai.APIError{Code: 429, Message: "quota"}
	}}

	_, err := newTestAssistant(m).Suggest(context.Background(), "p", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 429, reqErr.Status)
	assert.Equal(t, "quota", reqErr.Message)
}

func TestStripFences(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"  padded\n", "padded"},
		{"```go\nfunc main() {}\n```", "func main() {}"},
		{"```\na\nb\n```\n", "a\nb"},
		{"```", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFences(tt.in), tt.in)
	}
}

func TestNewSDKClient_RequiresKey(t *testing.T) {
	_, err := NewSDKClient(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
