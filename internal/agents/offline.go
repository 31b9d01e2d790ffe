package agents

import (
	"context"
	"fmt"

	"risk-interview-bot/internal/validator"
)

// Offline заменяет языковую модель, когда она не настроена
type Offline struct{}

func NewOffline() Offline {
	return Offline{}
}

func (Offline) Rephrase(_ context.Context, question string) (string, error) {
	return question, nil
}

func (Offline) Clarify(_ context.Context, question, _ string) (string, error) {
	return fmt.Sprintf("No explanation service is available. Please decide whether the statement applies to your organisation: %q. Answer YES, NO or NOT APPLICABLE.", question), nil
}

func (Offline) Classify(_ context.Context, _, reply string) (validator.Verdict, error) {
	return validator.Triage(reply), nil
}
