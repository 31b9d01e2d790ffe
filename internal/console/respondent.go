package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Respondent ведет интервью через построчный текстовый ввод/вывод
type Respondent struct {
	reader *bufio.Reader
	out    io.Writer
}

func New(in io.Reader, out io.Writer) *Respondent {
	return &Respondent{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (r *Respondent) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.out, text)
	return err
}

// Ask печатает приглашение и ждет строку ввода.
// Длина строки не ограничена. Конец ввода без ответа возвращается как io.ErrUnexpectedEOF:
// вопрос без ответа не пропускается.
func (r *Respondent) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(r.out, prompt); err != nil {
		return "", err
	}

	line, err := r.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("ошибка чтения ответа: %w", err)
		}
		if line == "" {
			return "", io.ErrUnexpectedEOF
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
