package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/HugoVuach/finjuice/internal/event"
)

const requestTimeout = 60 * time.Second

// AnthropicProvider implements Provider using Anthropic's Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for the given API key and model.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicProvider{
		client: &client,
		model:  model,
	}
}

// Classify sends one tweet to the model and parses the four-key JSON answer.
func (p *AnthropicProvider) Classify(ctx context.Context, text string) (event.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	// Prefill the assistant turn with "{" so the model continues with the
	// JSON object body instead of prose.
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   1024,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("{")),
		},
	})
	if err != nil {
		return event.Classification{}, &ClassificationError{Err: err}
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return event.Classification{}, &ClassificationError{Err: fmt.Errorf("model returned empty response")}
	}

	// The response continues from after the prefilled "{".
	var c event.Classification
	if err := json.Unmarshal([]byte("{"+responseText), &c); err != nil {
		return event.Classification{}, &ClassificationError{
			Err: fmt.Errorf("parsing model response: %w (response was: %.200s)", err, responseText),
		}
	}
	return c, nil
}
