package storage

import "risk-interview-bot/internal/validator"

// AnswerRecord представляет принятый ответ на один вопрос анкеты
type AnswerRecord struct {
	Question     string          `json:"Question"`
	Answer       validator.Token `json:"Answer"`
	EntireAnswer string          `json:"Entire Answer"`
}

// Sink сохраняет полный снимок отчета, перезаписывая предыдущую версию
type Sink interface {
	Write(records []AnswerRecord) error
	Location() string
}
