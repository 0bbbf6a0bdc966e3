package classifier

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/cookieprobe/cookieprobe/internal/model"
)

// staticMessagesModels is the fallback model list for the messages profile,
// which does not expose a /models endpoint in the same shape the
// chat-completion profile does.
var staticMessagesModels = []string{"claude-opus-4", "claude-sonnet-4", "claude-haiku-4"}

// MessagesProvider implements Provider against the "messages" wire shape
// (spec.md §6's "Messages profile (Claude-shaped)"): authentication via
// x-api-key plus a fixed anthropic-version header, POST to <base>/messages.
type MessagesProvider struct {
	client anthropic.Client
	model  string
}

// NewMessagesProvider builds a MessagesProvider. An empty baseURL uses the
// SDK's default Anthropic endpoint.
func NewMessagesProvider(apiKey, baseURL, model string) *MessagesProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(newHTTPClient()),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &MessagesProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *MessagesProvider) Classify(ctx context.Context, name, domain string) (model.Descriptor, string, error) {
	ctx, cancel := context.WithTimeout(ctx, lmCallTimeout)
	defer cancel()

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   1024,
		Temperature: anthropic.Float(0.0),
		System: []anthropic.TextBlockParam{
			{Text: classificationSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(classificationUserPrompt(name, domain))),
		},
	})
	if err != nil {
		return model.Descriptor{}, "", &ErrLMUnavailable{Cause: err}
	}
	if len(resp.Content) == 0 {
		return model.Descriptor{}, "", &ErrLMUnavailable{Cause: fmt.Errorf("empty content")}
	}

	raw := resp.Content[0].Text
	d, err := parseDescriptorJSON(name, raw)
	if err != nil {
		return model.Descriptor{}, raw, err
	}
	return d, raw, nil
}

func (p *MessagesProvider) ListModels(context.Context) ([]string, error) {
	return staticMessagesModels, nil
}
