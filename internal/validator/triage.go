package validator

import (
	"fmt"
	"strings"
)

// Verdict результат классификации ответа
type Verdict string

const (
	VerdictValid         Verdict = "valid"
	VerdictClarification Verdict = "clarification"
	VerdictOffTopic      Verdict = "off_topic"
	VerdictMalformed     Verdict = "malformed"
)

// ErrUnexpectedVerdict возвращается, когда классификатор ответил не одним из известных значений
var ErrUnexpectedVerdict = fmt.Errorf("unexpected verdict")

var questionWords = map[string]struct{}{
	"what":  {},
	"why":   {},
	"how":   {},
	"when":  {},
	"where": {},
	"which": {},
	"who":   {},
}

// Triage по внешним признакам решает, похож ли ответ на уточняющий вопрос.
// Никогда не возвращает off_topic или malformed.
func Triage(reply string) Verdict {
	reply = strings.ToLower(strings.TrimSpace(reply))

	if strings.Contains(reply, "?") {
		return VerdictClarification
	}

	words := strings.Fields(reply)
	if len(words) > 0 {
		if _, ok := questionWords[words[0]]; ok {
			return VerdictClarification
		}
	}

	return VerdictValid
}

// ParseVerdict разбирает ответ семантического классификатора (без учета регистра)
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(strings.ToLower(strings.Trim(s, " \t\r\n\"'`.")))
	switch v {
	case VerdictValid, VerdictClarification, VerdictOffTopic:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnexpectedVerdict, s)
}
