package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ChannelConsole  = "console"
	ChannelTelegram = "telegram"
)

type AppConfig struct {
	LLM               LLMConfig
	Telegram          TelegramConfig
	Report            ReportConfig
	Log               LogConfig
	Channel           string
	QuestionnairePath string
}

type TelegramConfig struct {
	Token        string
	ChatID       int64
	PollInterval time.Duration
}

type ReportConfig struct {
	Path       string
	SQLitePath string
}

type LogConfig struct {
	Level string
	File  string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		LLM: LoadLLMConfig(),
		Telegram: TelegramConfig{
			Token:        getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:       getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
			PollInterval: getEnvAsDuration("TELEGRAM_POLL_INTERVAL", time.Second),
		},
		Report: ReportConfig{
			Path:       getEnv("REPORT_PATH", "risk_assessment_report.json"),
			SQLitePath: getEnv("REPORT_SQLITE_PATH", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Channel:           getEnv("RESPONDENT_CHANNEL", ChannelConsole),
		QuestionnairePath: getEnv("QUESTIONNAIRE_PATH", "config/questionnaire.yaml"),
	}
}

// Validate проверяет согласованность настроек после применения флагов
func (c *AppConfig) Validate() error {
	switch c.Channel {
	case ChannelConsole:
	case ChannelTelegram:
		if c.Telegram.Token == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required for the telegram channel")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("TELEGRAM_CHAT_ID is required for the telegram channel")
		}
	default:
		return fmt.Errorf("unknown respondent channel %q", c.Channel)
	}

	if c.Report.Path == "" {
		return fmt.Errorf("REPORT_PATH must not be empty")
	}
	if c.QuestionnairePath == "" {
		return fmt.Errorf("QUESTIONNAIRE_PATH must not be empty")
	}

	return c.LLM.ValidateConfig()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
