package agents

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"risk-interview-bot/internal/api"
	"risk-interview-bot/internal/metrics"
	"risk-interview-bot/internal/validator"
)

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
	last    []api.Message
}

func (s *scriptedCompleter) Complete(_ context.Context, messages []api.Message) (string, error) {
	i := s.calls
	s.calls++
	s.last = messages
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("script exhausted")
}

func newAgents(c api.Completer, retries int) (*Agents, *metrics.Metrics) {
	logger, _ := test.NewNullLogger()
	m := metrics.NewMetrics()
	return New(c, nil, RetryPolicy{MaxRetries: retries, BaseDelay: time.Millisecond}, m, logger), m
}

func TestClassifyParsesVerdict(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"Off_Topic"}}
	a, _ := newAgents(c, 0)

	v, err := a.Classify(context.Background(), "Do you enforce MFA?", "I like cars")
	require.NoError(t, err)
	assert.Equal(t, validator.VerdictOffTopic, v)

	require.Len(t, c.last, 2)
	assert.Equal(t, "system", c.last[0].Role)
	assert.Equal(t, "Question: Do you enforce MFA?\nAnswer: I like cars", c.last[1].Content)
}

func TestClassifyRetriesUnexpectedOutput(t *testing.T) {
	c := &scriptedCompleter{replies: []string{"I think it's valid", "valid"}}
	a, m := newAgents(c, 2)

	v, err := a.Classify(context.Background(), "Q", "yes")
	require.NoError(t, err)
	assert.Equal(t, validator.VerdictValid, v)
	assert.Equal(t, 2, c.calls)
	assert.EqualValues(t, 2, m.GetSnapshot().APICallsTotal)
}

func TestRetryWithBackoffThenSuccess(t *testing.T) {
	c := &scriptedCompleter{
		errs:    []error{&api.StatusError{StatusCode: http.StatusTooManyRequests}, errors.New("reset")},
		replies: []string{"", "", "Plain words"},
	}
	a, m := newAgents(c, 3)

	out, err := a.Clarify(context.Background(), "Q", "what?")
	require.NoError(t, err)
	assert.Equal(t, "Plain words", out)
	assert.Equal(t, 3, c.calls)

	snap := m.GetSnapshot()
	assert.EqualValues(t, 3, snap.APICallsTotal)
	assert.EqualValues(t, 1, snap.APICallsSuccessful)
}

func TestRetryGivesUp(t *testing.T) {
	boom := errors.New("unavailable")
	c := &scriptedCompleter{errs: []error{boom, boom, boom}}
	a, _ := newAgents(c, 2)

	_, err := a.Rephrase(context.Background(), "Q")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "3 attempt(s)")
	assert.Equal(t, 3, c.calls)
}

func TestNonRetryableStopsImmediately(t *testing.T) {
	c := &scriptedCompleter{errs: []error{&api.StatusError{StatusCode: http.StatusUnauthorized}}}
	a, _ := newAgents(c, 5)

	_, err := a.Rephrase(context.Background(), "Q")
	require.Error(t, err)
	assert.Equal(t, 1, c.calls)
}

func TestRetryHonoursContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := &scriptedCompleter{errs: []error{errors.New("reset"), errors.New("reset")}}
	a := New(c, nil, RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour}, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Rephrase(ctx, "Q")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, c.calls)
}

func TestLimiterIsConsulted(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := &scriptedCompleter{replies: []string{"Q"}}
	a := New(c, NewLimiter(60, 1), RetryPolicy{}, nil, logger)

	out, err := a.Rephrase(context.Background(), "Q")
	require.NoError(t, err)
	assert.Equal(t, "Q", out)
}

func TestOffline(t *testing.T) {
	o := NewOffline()
	ctx := context.Background()

	q, err := o.Rephrase(ctx, "Do you enforce MFA?")
	require.NoError(t, err)
	assert.Equal(t, "Do you enforce MFA?", q)

	expl, err := o.Clarify(ctx, "Do you enforce MFA?", "what is MFA?")
	require.NoError(t, err)
	assert.Contains(t, expl, "Do you enforce MFA?")

	v, err := o.Classify(ctx, "Q", "why?")
	require.NoError(t, err)
	assert.Equal(t, validator.VerdictClarification, v)
}
