package prompts

import (
	"fmt"
	"strings"
)

// Prompt пара системной и пользовательской частей запроса
type Prompt struct {
	System string
	User   string
}

const rephraseSystem = `You are the Question Agent within a cyber risk assessment.
You receive one risk assessment question. Restate it so that a novice to cybersecurity would understand it.
Keep every point the original question asks. Do not add new questions and do not answer the question.
Reply with the question text only, without any introduction or formatting.`

const clarifySystem = `You are a domain level expert in all areas of cyber security acting as a Clarification Agent within a cyber risk assessment.
You will be given a risk assessment question and a user response.
Give a brief and clear explanation addressing the user response in relation to the question, in terms a novice would understand.
Your explanation must be no more than %d sentences long.
Do not repeat or modify the question. Do not ask for an answer.`

const classifySystem = `You are the Answer Checker Agent. Evaluate whether the user's answer is relevant to the current question.
Respond with exactly one of the following categories:
- valid: the user provided a reasonable, relevant answer.
- clarification: the user asked a question, showed confusion, or seems unsure.
- off_topic: the response looks like a joke, random text, or completely unrelated content.
Return only the category as plain text, with no explanation or formatting.`

// MaxClarificationSentences мягкое ограничение длины пояснения
const MaxClarificationSentences = 10

// Rephrase строит запрос на пересказ вопроса для новичка
func Rephrase(question string) Prompt {
	return Prompt{
		System: rephraseSystem,
		User:   strings.TrimSpace(question),
	}
}

// Clarify строит запрос на пояснение вопроса в ответ на реплику респондента
func Clarify(question, reply string) Prompt {
	return Prompt{
		System: fmt.Sprintf(clarifySystem, MaxClarificationSentences),
		User:   fmt.Sprintf("Clarify the question: %s\nUser asked: %s", strings.TrimSpace(question), strings.TrimSpace(reply)),
	}
}

// Classify строит запрос на семантическую классификацию ответа
func Classify(question, reply string) Prompt {
	return Prompt{
		System: classifySystem,
		User:   fmt.Sprintf("Question: %s\nAnswer: %s", strings.TrimSpace(question), strings.TrimSpace(reply)),
	}
}
