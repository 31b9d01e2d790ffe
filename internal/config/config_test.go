package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMappingKeepsOrder(t *testing.T) {
	data := []byte(`
Network Security:
  - Do you segment your network?
  - Do you run a firewall?
Access Control:
  - Do you enforce MFA?
Backups:
  - Are backups tested?
`)

	q, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 3, q.TotalDomains())
	assert.Equal(t, 4, q.TotalQuestions())
	assert.Equal(t, []Item{
		{Domain: "Network Security", Question: "Do you segment your network?"},
		{Domain: "Network Security", Question: "Do you run a firewall?"},
		{Domain: "Access Control", Question: "Do you enforce MFA?"},
		{Domain: "Backups", Question: "Are backups tested?"},
	}, q.Items())
}

func TestParseDomainList(t *testing.T) {
	data := []byte(`
domains:
  - name: Access Control
    questions:
      - Do you enforce MFA?
  - name: Incident Response
    questions:
      - Do you have an incident response plan?
      - Do you enforce MFA?
`)

	q, err := Parse(data)
	require.NoError(t, err)

	items := q.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Access Control", items[0].Domain)
	assert.Equal(t, "Incident Response", items[2].Domain)
	assert.Equal(t, "Do you enforce MFA?", items[2].Question)
}

func TestParseDomainNamedDomains(t *testing.T) {
	q, err := Parse([]byte("domains:\n  - Is this a domain?\n"))
	require.NoError(t, err)
	assert.Equal(t, []Item{{Domain: "domains", Question: "Is this a domain?"}}, q.Items())
}

func TestParseSkipsEmptyDomains(t *testing.T) {
	q, err := Parse([]byte("A: []\nB: [q]\nC:\n"))
	require.NoError(t, err)
	assert.Equal(t, []Item{{Domain: "B", Question: "q"}}, q.Items())
	assert.Equal(t, 1, q.TotalDomains())
	assert.Equal(t, []string{"A", "C"}, q.Skipped)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"empty document", "", "no questions"},
		{"empty list", "domains: []\n", "no questions"},
		{"only empty domains", "A: []\nB: []\n", "no questions"},
		{"blank question", "A: ['  ']\n", "пустой"},
		{"duplicate domain", "domains:\n  - name: A\n    questions: [q1]\n  - name: A\n    questions: [q2]\n", "дважды"},
		{"missing name", "domains:\n  - questions: [q1]\n", "name"},
		{"scalar document", "just text\n", "отображением"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("A:\n  - Question one?\n"), 0644))

	q, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, q.TotalQuestions())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAppConfigFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "eino")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MAX_TOKENS", "not-a-number")
	t.Setenv("LLM_RETRY_BASE_DELAY", "250ms")
	t.Setenv("RESPONDENT_CHANNEL", "telegram")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg := LoadAppConfig()

	assert.Equal(t, ProviderEino, cfg.LLM.Provider)
	assert.Equal(t, 600, cfg.LLM.MaxTokens)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.RetryBaseDelay)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.NoError(t, cfg.Validate())
}

func TestAppConfigValidate(t *testing.T) {
	t.Run("offline needs no key", func(t *testing.T) {
		cfg := &AppConfig{
			Channel:           ChannelConsole,
			Report:            ReportConfig{Path: "r.json"},
			QuestionnairePath: "q.yaml",
			LLM:               LLMConfig{Provider: ProviderOffline},
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("openai needs key", func(t *testing.T) {
		cfg := &AppConfig{
			Channel:           ChannelConsole,
			Report:            ReportConfig{Path: "r.json"},
			QuestionnairePath: "q.yaml",
			LLM:               LLMConfig{Provider: ProviderOpenAI, MaxTokens: 10, RPM: 1, Burst: 1},
		}
		assert.ErrorContains(t, cfg.Validate(), "OPENAI_API_KEY")
	})

	t.Run("telegram needs chat", func(t *testing.T) {
		cfg := &AppConfig{
			Channel:           ChannelTelegram,
			Telegram:          TelegramConfig{Token: "t"},
			Report:            ReportConfig{Path: "r.json"},
			QuestionnairePath: "q.yaml",
			LLM:               LLMConfig{Provider: ProviderOffline},
		}
		assert.ErrorContains(t, cfg.Validate(), "TELEGRAM_CHAT_ID")
	})

	t.Run("unknown channel", func(t *testing.T) {
		cfg := &AppConfig{Channel: "voice"}
		assert.ErrorContains(t, cfg.Validate(), "voice")
	})
}
