package llm

import (
	"context"
	"fmt"

	"github.com/codesight/codesight/internal/codesight"
	openai "github.com/sashabaranov/go-openai"
)

// openAIBackend and azureBackend both wrap sashabaranov/go-openai, the
// Go client the rest of the example corpus reaches for whenever it talks
// to the OpenAI or Azure OpenAI chat completion API.
type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(apiKey, model string) *openAIBackend {
	if model == "" {
		model = openai.GPT4o
	}
	return &openAIBackend{client: openai.NewClient(apiKey), model: model}
}

func (b *openAIBackend) Complete(ctx context.Context, userPrompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: calling openai: %v", codesight.ErrLLM, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *openAIBackend) ModelID() string { return "openai:" + b.model }

type azureBackend struct {
	client     *openai.Client
	deployment string
	model      string
}

func newAzureBackend(apiKey, endpoint, deployment, model string) *azureBackend {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	return &azureBackend{client: openai.NewClientWithConfig(cfg), deployment: deployment, model: model}
}

func (b *azureBackend) Complete(ctx context.Context, userPrompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: calling azure openai: %v", codesight.ErrLLM, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *azureBackend) ModelID() string { return "azure:" + b.deployment }
