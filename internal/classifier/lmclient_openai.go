package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/cookieprobe/cookieprobe/internal/model"
)

// staticOpenAIModels is the fallback list surfaced when a profile's /models
// endpoint can't be reached, per spec.md §4.3 ("profiles that don't support
// it fall back to a static list").
var staticOpenAIModels = []string{"gpt-4", "gpt-4-turbo", "gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"}

// ChatCompletionProvider implements Provider against chat-completion-style
// HTTP APIs (OpenAI and OpenAI-compatible local LMs), grounded on the
// teacher's internal/service/ai/openai.go client construction
// (option.WithAPIKey / option.WithBaseURL) but targeting the
// chat/completions endpoint the spec's wire format names.
type ChatCompletionProvider struct {
	client   openai.Client
	model    string
	endpoint string // base URL, used for the raw /models call
	http     *http.Client
}

// NewChatCompletionProvider builds a ChatCompletionProvider. An empty
// baseURL uses the OpenAI default; apiKey may be empty for a local LM that
// doesn't require authentication.
func NewChatCompletionProvider(apiKey, baseURL, model string) *ChatCompletionProvider {
	httpClient := newHTTPClient()
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &ChatCompletionProvider{
		client:   openai.NewClient(opts...),
		model:    model,
		endpoint: strings.TrimSuffix(baseURL, "/"),
		http:     httpClient,
	}
}

func (p *ChatCompletionProvider) Classify(ctx context.Context, name, domain string) (model.Descriptor, string, error) {
	ctx, cancel := context.WithTimeout(ctx, lmCallTimeout)
	defer cancel()

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classificationSystemPrompt),
			openai.UserMessage(classificationUserPrompt(name, domain)),
		},
		Temperature: openai.Float(0.0),
		MaxTokens:   openai.Int(500),
	})
	if err != nil {
		return model.Descriptor{}, "", &ErrLMUnavailable{Cause: err}
	}
	if len(resp.Choices) == 0 {
		return model.Descriptor{}, "", &ErrLMUnavailable{Cause: fmt.Errorf("empty choices")}
	}

	raw := resp.Choices[0].Message.Content
	d, err := parseDescriptorJSON(name, raw)
	if err != nil {
		return model.Descriptor{}, raw, err
	}
	return d, raw, nil
}

// modelsResponse mirrors the shape spec.md §4.3's "Model listing" section
// names: { data: [ { id, ... }, ... ] }.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (p *ChatCompletionProvider) ListModels(ctx context.Context) ([]string, error) {
	if p.endpoint == "" {
		return staticOpenAIModels, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/models", nil)
	if err != nil {
		return staticOpenAIModels, nil
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return staticOpenAIModels, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return staticOpenAIModels, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return staticOpenAIModels, nil
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return staticOpenAIModels, nil
	}

	ids := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return staticOpenAIModels, nil
	}
	return ids, nil
}
