package validator

import (
	"errors"
	"strings"
)

// Token нормализованный ответ респондента
type Token string

const (
	TokenYes           Token = "YES"
	TokenNo            Token = "NO"
	TokenNotApplicable Token = "NOT APPLICABLE"
	// TokenMalformed возвращается для ответов, не начинающихся с допустимого токена
	TokenMalformed Token = "MALFORMED"
)

// ErrMalformed означает, что ответ не прошел проверку формата
var ErrMalformed = errors.New("answer must start with YES, NO or NOT APPLICABLE")

// Accepted сообщает, входит ли токен в словарь допустимых ответов
func (t Token) Accepted() bool {
	switch t {
	case TokenYes, TokenNo, TokenNotApplicable:
		return true
	}
	return false
}

func (t Token) String() string {
	return string(t)
}

// ParseToken восстанавливает токен из сохраненного отчета
func ParseToken(s string) (Token, error) {
	t := Token(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Accepted() {
		return TokenMalformed, ErrMalformed
	}
	return t, nil
}

// ClassifyFormat проверяет, начинается ли ответ с YES, NO или NOT APPLICABLE.
// Фраза из двух слов проверяется раньше одиночного токена.
func ClassifyFormat(raw string) Token {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return TokenMalformed
	}

	first := normalizeWord(words[0])
	if first == "NOT" && len(words) > 1 && normalizeWord(words[1]) == "APPLICABLE" {
		return TokenNotApplicable
	}

	switch Token(first) {
	case TokenYes, TokenNo:
		return Token(first)
	}
	return TokenMalformed
}

// normalizeWord убирает хвостовые запятые и точки и переводит в верхний регистр
func normalizeWord(w string) string {
	return strings.ToUpper(strings.TrimRight(w, ",."))
}
