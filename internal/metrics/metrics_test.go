package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"risk-interview-bot/internal/validator"
)

func TestCounters(t *testing.T) {
	m := NewMetrics()
	start := m.GetSnapshot().LastUpdateTime

	m.IncrementQuestionsPresented()
	m.IncrementQuestionsCompleted()
	m.IncrementClarifications()
	m.IncrementClarifications()
	m.IncrementMalformedReplies()
	m.ObserveVerdict(validator.VerdictValid)
	m.ObserveVerdict(validator.VerdictOffTopic)
	m.ObserveVerdict(validator.VerdictClarification)
	m.ObserveVerdict(validator.VerdictMalformed)
	m.IncrementRecord(false)
	m.IncrementRecord(true)
	m.IncrementAPICall(true)
	m.IncrementAPICall(false)
	m.IncrementReportSave(true)
	m.IncrementReportSave(false)

	snap := m.GetSnapshot()
	assert.EqualValues(t, 1, snap.QuestionsPresented)
	assert.EqualValues(t, 1, snap.QuestionsCompleted)
	assert.EqualValues(t, 2, snap.Clarifications)
	assert.EqualValues(t, 1, snap.MalformedReplies)
	assert.EqualValues(t, 1, snap.VerdictsValid)
	assert.EqualValues(t, 1, snap.VerdictsOffTopic)
	assert.EqualValues(t, 1, snap.VerdictsClarification)
	assert.EqualValues(t, 1, snap.AnswersRecorded)
	assert.EqualValues(t, 1, snap.DuplicateRecords)
	assert.EqualValues(t, 2, snap.APICallsTotal)
	assert.EqualValues(t, 1, snap.APICallsSuccessful)
	assert.EqualValues(t, 1, snap.ReportSaves)
	assert.EqualValues(t, 1, snap.ReportSaveFailures)
	assert.False(t, snap.LastUpdateTime.Before(start))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementQuestionsPresented()
		m.ObserveVerdict(validator.VerdictValid)
		m.IncrementRecord(false)
	})
}

func TestConcurrentIncrements(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementAPICall(true)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 50, m.GetSnapshot().APICallsSuccessful)
}
