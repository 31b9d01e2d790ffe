package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"risk-interview-bot/internal/metrics"
	"risk-interview-bot/internal/validator"
)

// Recorder хранит принятые ответы в порядке записи, не более одного на вопрос
type Recorder struct {
	mu      sync.Mutex
	records []AnswerRecord
	index   map[string]int
	sinks   []Sink
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewRecorder создает рекордер; каждый Save пишет отчет во все sinks
func NewRecorder(log logrus.FieldLogger, m *metrics.Metrics, sinks ...Sink) *Recorder {
	return &Recorder{
		index:   make(map[string]int),
		sinks:   sinks,
		log:     log,
		metrics: m,
	}
}

// Record сохраняет ответ в памяти.
// Повторная запись для того же вопроса ничего не меняет и возвращает исходный токен,
// даже если новый ответ не проходит проверку формата.
func (r *Recorder) Record(question, reply string) (validator.Token, error) {
	reply = strings.TrimSpace(reply)

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, exists := r.index[question]; exists {
		r.log.WithField("question", question).Infof("Answer for the question '%s' has already been recorded.", question)
		r.metrics.IncrementRecord(true)
		return r.records[i].Answer, nil
	}

	token := validator.ClassifyFormat(reply)
	if !token.Accepted() {
		return validator.TokenMalformed, fmt.Errorf("запись ответа на %q: %w", question, validator.ErrMalformed)
	}

	r.index[question] = len(r.records)
	r.records = append(r.records, AnswerRecord{
		Question:     question,
		Answer:       token,
		EntireAnswer: reply,
	})
	r.metrics.IncrementRecord(false)
	r.log.WithField("question", question).Infof("Answer recorded: %s", reply)

	return token, nil
}

// Lookup возвращает сохраненную запись для вопроса
func (r *Recorder) Lookup(question string) (AnswerRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, exists := r.index[question]
	if !exists {
		return AnswerRecord{}, false
	}
	return r.records[i], true
}

// Records возвращает копию записей в порядке добавления
func (r *Recorder) Records() []AnswerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]AnswerRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len возвращает количество записанных ответов
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Save записывает текущий снимок во все sinks.
// Ошибка одного sink не мешает записи в остальные.
func (r *Recorder) Save() error {
	snapshot := r.Records()

	var errs []error
	for _, sink := range r.sinks {
		if err := sink.Write(snapshot); err != nil {
			r.metrics.IncrementReportSave(false)
			errs = append(errs, fmt.Errorf("сохранение отчета в %s: %w", sink.Location(), err))
			continue
		}
		r.metrics.IncrementReportSave(true)
		r.log.Infof("Report saved to %s", sink.Location())
	}

	return errors.Join(errs...)
}
