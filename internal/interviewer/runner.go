package interviewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"risk-interview-bot/internal/config"
)

// QuestionConductor проводит один вопрос до принятого ответа
type QuestionConductor interface {
	ConductQuestion(ctx context.Context, item config.Item) (*Outcome, error)
}

// ReportSaver сохраняет полный отчет
type ReportSaver interface {
	Save() error
}

// Runner проходит анкету по порядку: домен за доменом, вопрос за вопросом
type Runner struct {
	conductor   QuestionConductor
	saver       ReportSaver
	log         logrus.FieldLogger
	interviewID string
}

func NewRunner(conductor QuestionConductor, saver ReportSaver, log logrus.FieldLogger, interviewID string) *Runner {
	return &Runner{
		conductor:   conductor,
		saver:       saver,
		log:         log.WithField("interview_id", interviewID),
		interviewID: interviewID,
	}
}

// Run проводит все вопросы и сохраняет отчет после каждого и в конце.
// Неудачное промежуточное сохранение только логируется: записи в памяти остаются целыми
// и попадут в следующий снимок. Ошибка финального сохранения возвращается.
// Если вопрос завершился ошибкой, отчет сохраняется перед возвратом.
func (r *Runner) Run(ctx context.Context, q *config.Questionnaire) ([]*Outcome, error) {
	items := q.Items()
	outcomes := make([]*Outcome, 0, len(items))

	r.log.Infof("Начинаю интервью: %d доменов, %d вопросов", q.TotalDomains(), len(items))

	currentDomain := ""
	for i, item := range items {
		if item.Domain != currentDomain {
			currentDomain = item.Domain
			r.log.WithField("domain", currentDomain).Info("Переход к домену")
		}

		outcome, err := r.conductor.ConductQuestion(ctx, item)
		if err != nil {
			err = fmt.Errorf("вопрос %d/%d домена %q: %w", i+1, len(items), item.Domain, err)
			// уже принятые ответы сохраняются и при обрыве интервью
			if saveErr := r.saver.Save(); saveErr != nil {
				err = errors.Join(err, fmt.Errorf("сохранение отчета после ошибки: %w", saveErr))
			}
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)

		if err := r.saver.Save(); err != nil {
			r.log.WithError(err).Error("Не удалось сохранить отчет, повторю после следующего вопроса")
		}
	}

	if err := r.saver.Save(); err != nil {
		return outcomes, fmt.Errorf("финальное сохранение отчета: %w", err)
	}

	r.log.Infof("Интервью завершено: получено %d ответов", len(outcomes))
	return outcomes, nil
}
