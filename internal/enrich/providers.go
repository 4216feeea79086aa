package enrich

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// metadataSchema constrains the model to exactly the three required string
// fields of the metadata triple.
var metadataSchema = &jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"title":       {Type: jsonschema.String, Description: "Professional page title"},
		"description": {Type: jsonschema.String, Description: "Brief description of the site source"},
		"summary":     {Type: jsonschema.String, Description: "A concise 1-sentence summary"},
	},
	Required:             []string{"title", "description", "summary"},
	AdditionalProperties: false,
}

type openAIClient struct {
	client *openai.Client
	model  string
}

func newOpenAIClient(model, apiKey string) *openAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIClient{client: openai.NewClient(apiKey), model: model}
}

func (c *openAIClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "link_metadata",
				Schema: metadataSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicClient struct {
	client *anthropic.Client
	model  string
}

func newAnthropicClient(model, apiKey string) *anthropicClient {
	if model == "" {
		model = string(anthropic.ModelClaude3Dot5HaikuLatest)
	}
	return &anthropicClient{client: anthropic.NewClient(apiKey), model: model}
}

func (c *anthropicClient) generate(ctx context.Context, prompt string) (string, error) {
	// Anthropic has no response-schema parameter; the required shape is spelled
	// out in the prompt instead.
	prompt += ` Respond with only a JSON object with the required string fields "title", "description", and "summary".`

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 300,
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: "text", Text: &prompt}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}
	return resp.Content[0].GetText(), nil
}
