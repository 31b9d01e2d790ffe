package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"risk-interview-bot/internal/agents"
	"risk-interview-bot/internal/api"
	"risk-interview-bot/internal/config"
	"risk-interview-bot/internal/console"
	"risk-interview-bot/internal/interviewer"
	"risk-interview-bot/internal/logger"
	"risk-interview-bot/internal/metrics"
	"risk-interview-bot/internal/storage"
	"risk-interview-bot/internal/telegram"
)

var (
	questionnairePath string
	reportPath        string
	sqlitePath        string
	channel           string
	provider          string
	logLevel          string
)

var rootCmd = &cobra.Command{
	Use:   "risk-interview-bot",
	Short: "Cyber risk assessment interview bot",
	Long: `Conducts a structured cyber-risk interview: every question of the
questionnaire is asked until a YES / NO / NOT APPLICABLE answer is recorded.
Clarification requests are answered and the question is asked again.

Answers are saved to a JSON report after every question.`,
	SilenceUsage: true,
	RunE:         runInterview,
}

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Print a saved report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  printReport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "", "JSON report path (or set REPORT_PATH env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (or set LOG_LEVEL env)")
	rootCmd.Flags().StringVar(&questionnairePath, "questionnaire", "", "Questionnaire YAML (or set QUESTIONNAIRE_PATH env)")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also mirror the report into this SQLite database (or set REPORT_SQLITE_PATH env)")
	rootCmd.Flags().StringVar(&channel, "channel", "", "Respondent channel: console or telegram (or set RESPONDENT_CHANNEL env)")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Language model provider: openai, eino or offline (or set LLM_PROVIDER env)")

	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig читает .env и окружение, затем применяет флаги
func loadConfig() (*config.AppConfig, error) {
	envErr := godotenv.Load()

	cfg := config.LoadAppConfig()
	if questionnairePath != "" {
		cfg.QuestionnairePath = questionnairePath
	}
	if reportPath != "" {
		cfg.Report.Path = reportPath
	}
	if sqlitePath != "" {
		cfg.Report.SQLitePath = sqlitePath
	}
	if channel != "" {
		cfg.Channel = channel
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if envErr != nil && !os.IsNotExist(envErr) {
		return cfg, fmt.Errorf("ошибка загрузки .env файла: %w", envErr)
	}
	return cfg, nil
}

func runInterview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	questionnaire, err := config.Load(cfg.QuestionnairePath)
	if err != nil {
		log.WithError(err).Error("Ошибка загрузки анкеты")
		return err
	}

	interviewID := uuid.NewString()
	entry := log.WithField("interview_id", interviewID)

	for _, name := range questionnaire.Skipped {
		entry.WithField("domain", name).Warn("Домен без вопросов пропущен")
	}

	entry.WithFields(logrus.Fields{
		"questionnaire": cfg.QuestionnairePath,
		"domains":       questionnaire.TotalDomains(),
		"questions":     questionnaire.TotalQuestions(),
		"channel":       cfg.Channel,
	}).Info("Анкета загружена")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics()

	services, err := buildServices(ctx, cfg.LLM, m, entry)
	if err != nil {
		return err
	}

	respondent, err := buildRespondent(ctx, cfg, entry)
	if err != nil {
		return err
	}

	sinks := []storage.Sink{storage.NewFileSink(cfg.Report.Path)}
	if cfg.Report.SQLitePath != "" {
		sqliteSink, err := storage.OpenSQLiteSink(cfg.Report.SQLitePath)
		if err != nil {
			return err
		}
		defer sqliteSink.Close()
		sinks = append(sinks, sqliteSink)
	}
	recorder := storage.NewRecorder(entry, m, sinks...)

	orchestrator := interviewer.New(interviewer.Deps{
		Rephraser:  services,
		Clarifier:  services,
		Classifier: services,
		Respondent: respondent,
		Recorder:   recorder,
		Metrics:    m,
		Log:        entry,
	})

	_, runErr := interviewer.NewRunner(orchestrator, recorder, entry, interviewID).Run(ctx, questionnaire)

	snap := m.GetSnapshot()
	entry.WithFields(logrus.Fields{
		"questions_completed": snap.QuestionsCompleted,
		"clarifications":      snap.Clarifications,
		"malformed_replies":   snap.MalformedReplies,
		"answers_recorded":    snap.AnswersRecorded,
		"duplicates":          snap.DuplicateRecords,
		"api_calls":           snap.APICallsTotal,
		"api_calls_ok":        snap.APICallsSuccessful,
		"report_saves":        snap.ReportSaves,
		"report_save_errors":  snap.ReportSaveFailures,
	}).Info("Статистика интервью")

	if runErr != nil {
		entry.WithError(runErr).Error("Интервью прервано")
		return runErr
	}
	return nil
}

// languageServices объединяет пересказ, пояснение и классификацию
type languageServices interface {
	interviewer.Rephraser
	interviewer.Clarifier
	interviewer.Classifier
}

func buildServices(ctx context.Context, cfg config.LLMConfig, m *metrics.Metrics, log logrus.FieldLogger) (languageServices, error) {
	clientCfg := api.ClientConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	var completer api.Completer
	switch cfg.Provider {
	case config.ProviderOffline:
		log.Warn("Языковая модель отключена, используются локальные правила")
		return agents.NewOffline(), nil
	case config.ProviderEino:
		einoCompleter, err := api.NewEinoCompleter(ctx, clientCfg)
		if err != nil {
			return nil, err
		}
		completer = einoCompleter
	default:
		completer = api.NewOpenAIClient(clientCfg, &http.Client{Timeout: 60 * time.Second})
	}

	log.WithFields(logrus.Fields(cfg.GetModelInfo())).Info("Языковая модель настроена")

	return agents.New(
		completer,
		agents.NewLimiter(cfg.RPM, cfg.Burst),
		agents.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay},
		m,
		log,
	), nil
}

func buildRespondent(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (interviewer.Respondent, error) {
	if cfg.Channel != config.ChannelTelegram {
		return console.New(os.Stdin, os.Stdout), nil
	}

	bot := telegram.New(cfg.Telegram.Token)
	respondent := telegram.NewRespondent(bot, cfg.Telegram.ChatID, log.WithField("chat_id", cfg.Telegram.ChatID))
	respondent.RetryDelay = cfg.Telegram.PollInterval
	if err := respondent.SkipPending(ctx); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Telegram: %w", err)
	}
	return respondent, nil
}

func printReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Report.Path
	if len(args) == 1 {
		path = args[0]
	}

	records, err := storage.LoadReport(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, rec := range records {
		fmt.Fprintf(out, "%d. %s\n   %s (%s)\n", i+1, rec.Question, rec.Answer, rec.EntireAnswer)
	}
	fmt.Fprintf(out, "Всего ответов: %d\n", len(records))
	return nil
}
