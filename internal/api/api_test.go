package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHTTPDoer struct {
	statusCode int
	body       string
	err        error
	lastReq    *http.Request
	lastBody   []byte
}

func (f *fakeHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if req.Body != nil {
		f.lastBody, _ = io.ReadAll(req.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.statusCode,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     make(http.Header),
	}, nil
}

func TestOpenAIClientComplete(t *testing.T) {
	doer := &fakeHTTPDoer{
		statusCode: http.StatusOK,
		body:       `{"choices":[{"message":{"role":"assistant","content":"  valid \n"}}]}`,
	}
	client := NewOpenAIClient(ClientConfig{
		APIKey:      "sk-test",
		BaseURL:     "https://llm.example.com/v1/",
		Model:       "gpt-4o",
		MaxTokens:   100,
		Temperature: 0.2,
	}, doer)

	out, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "valid", out)

	require.NotNil(t, doer.lastReq)
	assert.Equal(t, "https://llm.example.com/v1/chat/completions", doer.lastReq.URL.String())
	assert.Equal(t, "Bearer sk-test", doer.lastReq.Header.Get("Authorization"))

	var sent OpenAIRequest
	require.NoError(t, json.Unmarshal(doer.lastBody, &sent))
	assert.Equal(t, "gpt-4o", sent.Model)
	assert.Equal(t, 100, sent.MaxTokens)
	assert.Equal(t, []Message{{Role: "user", Content: "hi"}}, sent.Messages)
}

func TestOpenAIClientStatusError(t *testing.T) {
	doer := &fakeHTTPDoer{statusCode: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`}
	client := NewOpenAIClient(ClientConfig{APIKey: "k"}, doer)

	_, err := client.Complete(context.Background(), nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.True(t, IsRetryable(err))
}

func TestOpenAIClientNoChoices(t *testing.T) {
	doer := &fakeHTTPDoer{statusCode: http.StatusOK, body: `{"choices":[]}`}
	client := NewOpenAIClient(ClientConfig{APIKey: "k"}, doer)

	_, err := client.Complete(context.Background(), nil)
	assert.ErrorContains(t, err, "no choices")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(&StatusError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsRetryable(&StatusError{StatusCode: http.StatusBadGateway}))
	assert.True(t, IsRetryable(errors.New("connection reset")))
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "valid", cleanResponse("```\nvalid\n```"))
	assert.Equal(t, `{"a":1}`, cleanResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", cleanResponse("  plain  "))
}

type fakeChatModel struct {
	reply *schema.Message
	err   error
	input []*schema.Message
	opts  []model.Option
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = opts
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestEinoCompleter(t *testing.T) {
	fake := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "Do you use MFA?\n"}}
	completer := NewEinoCompleterFromModel(fake, ClientConfig{MaxTokens: 50, Temperature: 0.1})

	out, err := completer.Complete(context.Background(), []Message{
		{Role: "system", Content: "rephrase"},
		{Role: "user", Content: "Do you use MFA?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Do you use MFA?", out)

	require.Len(t, fake.input, 2)
	assert.Equal(t, schema.System, fake.input[0].Role)
	assert.Equal(t, schema.User, fake.input[1].Role)
	assert.Len(t, fake.opts, 2)
}

func TestEinoCompleterError(t *testing.T) {
	completer := NewEinoCompleterFromModel(&fakeChatModel{err: errors.New("boom")}, ClientConfig{})
	_, err := completer.Complete(context.Background(), nil)
	assert.EqualError(t, err, "boom")

	completer = NewEinoCompleterFromModel(&fakeChatModel{}, ClientConfig{})
	_, err = completer.Complete(context.Background(), nil)
	assert.ErrorContains(t, err, "empty response")
}
