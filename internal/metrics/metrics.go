package metrics

import (
	"sync"
	"time"

	"risk-interview-bot/internal/validator"
)

type Metrics struct {
	mu                    sync.RWMutex
	QuestionsPresented    int64
	QuestionsCompleted    int64
	Clarifications        int64
	MalformedReplies      int64
	VerdictsValid         int64
	VerdictsClarification int64
	VerdictsOffTopic      int64
	AnswersRecorded       int64
	DuplicateRecords      int64
	APICallsTotal         int64
	APICallsSuccessful    int64
	ReportSaves           int64
	ReportSaveFailures    int64
	LastUpdateTime        time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementQuestionsPresented() {
	m.update(func() { m.QuestionsPresented++ })
}

func (m *Metrics) IncrementQuestionsCompleted() {
	m.update(func() { m.QuestionsCompleted++ })
}

func (m *Metrics) IncrementClarifications() {
	m.update(func() { m.Clarifications++ })
}

func (m *Metrics) IncrementMalformedReplies() {
	m.update(func() { m.MalformedReplies++ })
}

// ObserveVerdict учитывает вердикт семантического классификатора
func (m *Metrics) ObserveVerdict(v validator.Verdict) {
	m.update(func() {
		switch v {
		case validator.VerdictValid:
			m.VerdictsValid++
		case validator.VerdictClarification:
			m.VerdictsClarification++
		case validator.VerdictOffTopic:
			m.VerdictsOffTopic++
		}
	})
}

// IncrementRecord учитывает попытку записи ответа: новую или дубликат
func (m *Metrics) IncrementRecord(duplicate bool) {
	m.update(func() {
		if duplicate {
			m.DuplicateRecords++
		} else {
			m.AnswersRecorded++
		}
	})
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.update(func() {
		m.APICallsTotal++
		if success {
			m.APICallsSuccessful++
		}
	})
}

func (m *Metrics) IncrementReportSave(success bool) {
	m.update(func() {
		if success {
			m.ReportSaves++
		} else {
			m.ReportSaveFailures++
		}
	})
}

func (m *Metrics) update(fn func()) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	m.LastUpdateTime = time.Now()
}

// Snapshot возвращает копию счетчиков без мьютекса
type Snapshot struct {
	QuestionsPresented    int64
	QuestionsCompleted    int64
	Clarifications        int64
	MalformedReplies      int64
	VerdictsValid         int64
	VerdictsClarification int64
	VerdictsOffTopic      int64
	AnswersRecorded       int64
	DuplicateRecords      int64
	APICallsTotal         int64
	APICallsSuccessful    int64
	ReportSaves           int64
	ReportSaveFailures    int64
	LastUpdateTime        time.Time
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		QuestionsPresented:    m.QuestionsPresented,
		QuestionsCompleted:    m.QuestionsCompleted,
		Clarifications:        m.Clarifications,
		MalformedReplies:      m.MalformedReplies,
		VerdictsValid:         m.VerdictsValid,
		VerdictsClarification: m.VerdictsClarification,
		VerdictsOffTopic:      m.VerdictsOffTopic,
		AnswersRecorded:       m.AnswersRecorded,
		DuplicateRecords:      m.DuplicateRecords,
		APICallsTotal:         m.APICallsTotal,
		APICallsSuccessful:    m.APICallsSuccessful,
		ReportSaves:           m.ReportSaves,
		ReportSaveFailures:    m.ReportSaveFailures,
		LastUpdateTime:        m.LastUpdateTime,
	}
}
