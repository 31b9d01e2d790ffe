package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	maxMessageLength = 4000
	stopCommand      = "/stop"
)

// ErrInterviewStopped возвращается, когда собеседник прислал /stop
var ErrInterviewStopped = errors.New("интервью остановлено пользователем")

// Respondent ведет интервью с одним чатом: Say отправляет сообщение,
// Ask отправляет приглашение и блокируется до текстового ответа из этого чата.
type Respondent struct {
	bot    *Bot
	chatID int64
	offset int
	log    logrus.FieldLogger

	// LongPollSeconds передается в getUpdates как timeout
	LongPollSeconds int
	// RetryDelay пауза после ошибки getUpdates
	RetryDelay time.Duration
}

func NewRespondent(bot *Bot, chatID int64, log logrus.FieldLogger) *Respondent {
	return &Respondent{
		bot:             bot,
		chatID:          chatID,
		log:             log,
		LongPollSeconds: 30,
		RetryDelay:      5 * time.Second,
	}
}

// SkipPending пропускает сообщения, пришедшие до начала интервью
func (r *Respondent) SkipPending(ctx context.Context) error {
	updates, err := r.bot.GetUpdates(ctx, r.offset, 0)
	if err != nil {
		return err
	}
	for _, update := range updates {
		r.offset = update.UpdateID + 1
	}
	if len(updates) > 0 {
		r.log.WithField("skipped", len(updates)).Debug("Пропущены старые обновления")
	}
	return nil
}

func (r *Respondent) Say(ctx context.Context, text string) error {
	return r.bot.SendMessage(ctx, r.chatID, text)
}

func (r *Respondent) Ask(ctx context.Context, prompt string) (string, error) {
	if err := r.bot.SendMessage(ctx, r.chatID, strings.TrimSpace(prompt)); err != nil {
		return "", err
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		updates, err := r.bot.GetUpdates(ctx, r.offset, r.LongPollSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			r.log.WithError(err).Warn("Ошибка получения обновлений")
			if err := sleep(ctx, r.RetryDelay); err != nil {
				return "", err
			}
			continue
		}

		for i, update := range updates {
			r.offset = update.UpdateID + 1

			msg := update.Message
			if msg == nil || msg.Chat == nil || msg.Chat.ID != r.chatID || msg.Text == "" {
				continue
			}

			text := msg.Text
			if strings.TrimSpace(text) == stopCommand {
				return "", ErrInterviewStopped
			}
			if err := validateUserInput(text); err != nil {
				if err := r.bot.SendMessage(ctx, r.chatID, "⚠️ "+err.Error()); err != nil {
					return "", err
				}
				continue
			}

			// остальные обновления пакета вернутся при следующем getUpdates
			if rest := len(updates) - i - 1; rest > 0 {
				r.log.WithField("pending", rest).Debug("Ответ получен, оставшиеся обновления отложены")
			}
			return text, nil
		}
	}
}

func validateUserInput(text string) error {
	if len([]rune(text)) > maxMessageLength {
		return fmt.Errorf("сообщение слишком длинное (максимум %d символов)", maxMessageLength)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
