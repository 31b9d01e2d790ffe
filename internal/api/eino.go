package api

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoCompleter адаптирует eino ChatModel к интерфейсу Completer
type EinoCompleter struct {
	chatModel model.BaseChatModel
	opts      []model.Option
}

// NewEinoCompleter создает OpenAI-совместимую модель через eino-ext
func NewEinoCompleter(ctx context.Context, cfg ClientConfig) (*EinoCompleter, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM init failed: %w", err)
	}
	return NewEinoCompleterFromModel(chatModel, cfg), nil
}

func NewEinoCompleterFromModel(chatModel model.BaseChatModel, cfg ClientConfig) *EinoCompleter {
	var opts []model.Option
	if cfg.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(cfg.MaxTokens))
	}
	opts = append(opts, model.WithTemperature(float32(cfg.Temperature)))

	return &EinoCompleter{chatModel: chatModel, opts: opts}
}

func (e *EinoCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	input := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		input = append(input, &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content})
	}

	resp, err := e.chatModel.Generate(ctx, input, e.opts...)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from chat model")
	}
	return cleanResponse(resp.Content), nil
}
