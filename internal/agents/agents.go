// Package agents реализует языковые сервисы интервью поверх Completer:
// пересказ вопроса, пояснение и семантическую классификацию ответа.
package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"risk-interview-bot/internal/api"
	"risk-interview-bot/internal/metrics"
	"risk-interview-bot/internal/prompts"
	"risk-interview-bot/internal/validator"
)

// RetryPolicy задает число повторов и базовую задержку экспоненциального backoff
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Agents вызывает модель последовательно, один запрос за раз
type Agents struct {
	completer api.Completer
	limiter   *rate.Limiter
	policy    RetryPolicy
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
}

func New(completer api.Completer, limiter *rate.Limiter, policy RetryPolicy, m *metrics.Metrics, log logrus.FieldLogger) *Agents {
	return &Agents{
		completer: completer,
		limiter:   limiter,
		policy:    policy,
		metrics:   m,
		log:       log,
	}
}

// NewLimiter строит ограничитель запросов из лимита в минуту и размера всплеска
func NewLimiter(rpm, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

func (a *Agents) Rephrase(ctx context.Context, question string) (string, error) {
	return a.call(ctx, "rephrase", prompts.Rephrase(question), nil)
}

func (a *Agents) Clarify(ctx context.Context, question, reply string) (string, error) {
	return a.call(ctx, "clarify", prompts.Clarify(question, reply), nil)
}

func (a *Agents) Classify(ctx context.Context, question, reply string) (validator.Verdict, error) {
	var verdict validator.Verdict
	_, err := a.call(ctx, "classify", prompts.Classify(question, reply), func(out string) error {
		v, err := validator.ParseVerdict(out)
		verdict = v
		return err
	})
	if err != nil {
		return "", err
	}
	return verdict, nil
}

// call выполняет запрос с ограничением частоты и повторами.
// check отклоняет ответ неподходящего вида; такой ответ тоже повторяется.
func (a *Agents) call(ctx context.Context, agent string, p prompts.Prompt, check func(string) error) (string, error) {
	messages := []api.Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}

	var lastErr error
	attempts := 0
	for i := 0; i <= a.policy.MaxRetries; i++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		attempts++
		out, err := a.completer.Complete(ctx, messages)
		a.metrics.IncrementAPICall(err == nil)
		if err == nil && check != nil {
			err = check(out)
		}
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !api.IsRetryable(err) || i == a.policy.MaxRetries {
			break
		}

		delay := a.policy.BaseDelay * time.Duration(1<<i)
		a.log.WithFields(logrus.Fields{"agent": agent, "attempt": attempts}).Warnf("запрос не удался, повтор через %s: %v", delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", fmt.Errorf("%s: %d attempt(s) failed: %w", agent, attempts, lastErr)
}
