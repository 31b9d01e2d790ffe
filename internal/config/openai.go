package config

import (
	"fmt"
	"time"
)

const (
	ProviderOpenAI  = "openai"
	ProviderEino    = "eino"
	ProviderOffline = "offline"
)

type LLMConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	Temperature    float64
	RPM            int
	Burst          int
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// LoadLLMConfig загружает настройки языковой модели из переменных окружения
func LoadLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:       getEnv("LLM_PROVIDER", ProviderOpenAI),
		APIKey:         getEnv("OPENAI_API_KEY", ""),
		BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:          getEnv("OPENAI_MODEL", "gpt-4o"),
		MaxTokens:      getEnvAsInt("OPENAI_MAX_TOKENS", 600),
		Temperature:    getEnvAsFloat("OPENAI_TEMPERATURE", 0.1),
		RPM:            getEnvAsInt("LLM_RPM", 60),
		Burst:          getEnvAsInt("LLM_BURST", 1),
		MaxRetries:     getEnvAsInt("LLM_MAX_RETRIES", 3),
		RetryBaseDelay: getEnvAsDuration("LLM_RETRY_BASE_DELAY", 2*time.Second),
	}
}

// ValidateConfig проверяет корректность конфигурации
func (c *LLMConfig) ValidateConfig() error {
	switch c.Provider {
	case ProviderOffline:
		return nil
	case ProviderOpenAI, ProviderEino:
	default:
		return fmt.Errorf("LLM_PROVIDER %q is not supported", c.Provider)
	}

	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2")
	}

	if c.RPM <= 0 || c.Burst <= 0 {
		return fmt.Errorf("LLM_RPM and LLM_BURST must be positive")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must not be negative")
	}

	return nil
}

// GetModelInfo возвращает информацию о используемой модели
func (c *LLMConfig) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":    c.Provider,
		"model":       c.Model,
		"max_tokens":  c.MaxTokens,
		"temperature": c.Temperature,
	}
}
