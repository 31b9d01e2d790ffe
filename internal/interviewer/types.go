package interviewer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"risk-interview-bot/internal/config"
	"risk-interview-bot/internal/storage"
	"risk-interview-bot/internal/validator"
)

// Rephraser пересказывает вопрос для новичка, не меняя его смысла
type Rephraser interface {
	Rephrase(ctx context.Context, question string) (string, error)
}

// Clarifier объясняет вопрос в ответ на реплику респондента
type Clarifier interface {
	Clarify(ctx context.Context, question, reply string) (string, error)
}

// Classifier относит ответ к valid, clarification или off_topic
type Classifier interface {
	Classify(ctx context.Context, question, reply string) (validator.Verdict, error)
}

// Respondent канал общения с респондентом (консоль, Telegram).
// Ask блокируется до получения ответа.
type Respondent interface {
	Say(ctx context.Context, text string) error
	Ask(ctx context.Context, prompt string) (string, error)
}

// AnswerRecorder сохраняет принятый ответ; повторная запись вопроса ничего не меняет
type AnswerRecorder interface {
	Record(question, reply string) (validator.Token, error)
	Lookup(question string) (storage.AnswerRecord, bool)
}

// State состояние автомата одного вопроса
type State string

const (
	StatePresent       State = "PRESENT"
	StateAwaitReply    State = "AWAIT_REPLY"
	StateLocalTriage   State = "LOCAL_TRIAGE"
	StateClarify       State = "CLARIFY"
	StateRePresent     State = "RE_PRESENT"
	StateSemanticCheck State = "SEMANTIC_CHECK"
	StateAccept        State = "ACCEPT"
)

// InterviewContext живет только в пределах одного вопроса
type InterviewContext struct {
	conversationID string
	domain         string
	question       string
	lastReply      string
}

func newInterviewContext(item config.Item) *InterviewContext {
	return &InterviewContext{
		conversationID: strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		domain:         item.Domain,
		question:       item.Question,
	}
}

func (c *InterviewContext) ConversationID() string { return c.conversationID }
func (c *InterviewContext) Domain() string         { return c.domain }
func (c *InterviewContext) Question() string       { return c.question }
func (c *InterviewContext) LastReply() string      { return c.lastReply }

// Outcome описывает, как был получен ответ на вопрос.
// Token и Reply совпадают с сохраненной записью, в том числе для повторного вопроса.
type Outcome struct {
	Domain         string
	Question       string
	Token          validator.Token
	Reply          string
	Duplicate      bool
	Verdict        validator.Verdict
	Clarifications int
	FormatRetries  int
	States         []State
}
