package interviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"risk-interview-bot/internal/config"
	"risk-interview-bot/internal/metrics"
	"risk-interview-bot/internal/validator"
)

const (
	answerPrompt             = "Your answer: "
	answerAfterClarification = "Your answer after clarification: "
	malformedPrompt          = "Please answer with 'YES', 'NO', or 'NOT APPLICABLE': "
)

// Orchestrator проводит интервью по одному вопросу.
// Все вызовы сервисов и респондента выполняются строго последовательно.
type Orchestrator struct {
	rephraser  Rephraser
	clarifier  Clarifier
	classifier Classifier
	respondent Respondent
	recorder   AnswerRecorder
	metrics    *metrics.Metrics
	log        logrus.FieldLogger
}

// Deps зависимости оркестратора
type Deps struct {
	Rephraser  Rephraser
	Clarifier  Clarifier
	Classifier Classifier
	Respondent Respondent
	Recorder   AnswerRecorder
	Metrics    *metrics.Metrics
	Log        logrus.FieldLogger
}

// New создает оркестратор
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		rephraser:  deps.Rephraser,
		clarifier:  deps.Clarifier,
		classifier: deps.Classifier,
		respondent: deps.Respondent,
		recorder:   deps.Recorder,
		metrics:    deps.Metrics,
		log:        deps.Log,
	}
}

// ConductQuestion проводит вопрос через автомат до записи ответа.
// Цикл уточнений не ограничен: он заканчивается только ответом без признаков вопроса.
// Ошибка сервиса или респондента прерывает вопрос, ответ при этом не записывается.
func (o *Orchestrator) ConductQuestion(ctx context.Context, item config.Item) (*Outcome, error) {
	ic := newInterviewContext(item)
	log := o.log.WithFields(logrus.Fields{
		"conversation_id": ic.ConversationID(),
		"domain":          ic.Domain(),
	})
	outcome := &Outcome{Domain: ic.Domain(), Question: ic.Question()}

	state := StatePresent
	prompt := answerPrompt

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome.States = append(outcome.States, state)
		log.WithField("state", state).Debug("переход автомата")

		switch state {
		case StatePresent:
			text, err := o.present(ctx, ic, log)
			if err != nil {
				return nil, o.fail(ic, state, err)
			}
			if err := o.respondent.Say(ctx, "Question: "+text); err != nil {
				return nil, o.fail(ic, state, err)
			}
			o.metrics.IncrementQuestionsPresented()
			state = StateAwaitReply

		case StateAwaitReply:
			reply, err := o.respondent.Ask(ctx, prompt)
			if err != nil {
				return nil, o.fail(ic, state, err)
			}
			ic.lastReply = strings.TrimSpace(reply)
			state = StateLocalTriage

		case StateLocalTriage:
			if validator.Triage(ic.LastReply()) == validator.VerdictClarification {
				state = StateClarify
			} else {
				state = StateSemanticCheck
			}

		case StateClarify:
			explanation, err := o.clarifier.Clarify(ctx, ic.Question(), ic.LastReply())
			if err != nil {
				return nil, o.fail(ic, state, err)
			}
			if err := o.respondent.Say(ctx, "Clarification: "+strings.TrimSpace(explanation)); err != nil {
				return nil, o.fail(ic, state, err)
			}
			outcome.Clarifications++
			o.metrics.IncrementClarifications()
			state = StateRePresent

		case StateRePresent:
			if err := o.respondent.Say(ctx, "Question re-asked: "+strings.TrimSpace(ic.Question())); err != nil {
				return nil, o.fail(ic, state, err)
			}
			prompt = answerAfterClarification
			state = StateAwaitReply

		case StateSemanticCheck:
			verdict, err := o.classifier.Classify(ctx, ic.Question(), ic.LastReply())
			if err != nil {
				return nil, o.fail(ic, state, err)
			}
			outcome.Verdict = verdict
			o.metrics.ObserveVerdict(verdict)
			entry := log.WithField("verdict", verdict)
			if verdict == validator.VerdictOffTopic {
				entry.Info("ответ выглядит не по теме, проверка формата решит, будет ли он записан")
			} else {
				entry.Debug("семантическая проверка")
			}
			state = StateAccept

		case StateAccept:
			if !validator.ClassifyFormat(ic.LastReply()).Accepted() {
				outcome.FormatRetries++
				o.metrics.IncrementMalformedReplies()
				reply, err := o.respondent.Ask(ctx, malformedPrompt)
				if err != nil {
					return nil, o.fail(ic, state, err)
				}
				ic.lastReply = strings.TrimSpace(reply)
				continue
			}

			_, outcome.Duplicate = o.recorder.Lookup(ic.Question())
			token, err := o.recorder.Record(ic.Question(), ic.LastReply())
			if err != nil {
				return nil, o.fail(ic, state, err)
			}
			outcome.Token = token
			outcome.Reply = ic.LastReply()
			// при повторе вопроса итог берется из уже сохраненной записи
			if stored, ok := o.recorder.Lookup(ic.Question()); ok {
				outcome.Token = stored.Answer
				outcome.Reply = stored.EntireAnswer
			}
			o.metrics.IncrementQuestionsCompleted()
			log.WithFields(logrus.Fields{"answer": outcome.Token, "duplicate": outcome.Duplicate}).Info("ответ принят")
			return outcome, nil

		default:
			return nil, fmt.Errorf("неизвестное состояние %q", state)
		}
	}
}

// present запрашивает пересказ и отбрасывает его, если текст разошелся с исходным вопросом
func (o *Orchestrator) present(ctx context.Context, ic *InterviewContext, log logrus.FieldLogger) (string, error) {
	original := strings.TrimSpace(ic.Question())

	rephrased, err := o.rephraser.Rephrase(ctx, ic.Question())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(rephrased) != original {
		log.WithField("rephrased", rephrased).Debug("пересказ отличается от вопроса, используется исходный текст")
	}
	return original, nil
}

func (o *Orchestrator) fail(ic *InterviewContext, state State, err error) error {
	return fmt.Errorf("вопрос %q (%s): %w", ic.Question(), state, err)
}
