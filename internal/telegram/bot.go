package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiURL = "https://api.telegram.org"

// ErrAPI возвращается, когда Telegram ответил ok=false
var ErrAPI = errors.New("telegram API returned an error")

// New создает новый Telegram бот
func New(token string) *Bot {
	return NewWithClient(token, apiURL, &http.Client{Timeout: 60 * time.Second})
}

// NewWithClient создает бота с другим адресом API и HTTP клиентом
func NewWithClient(token, baseURL string, client *http.Client) *Bot {
	return &Bot{
		token:   token,
		baseURL: fmt.Sprintf("%s/bot%s", baseURL, token),
		client:  client,
	}
}

// GetUpdates получает обновления от Telegram, timeout задается в секундах long polling
func (b *Bot) GetUpdates(ctx context.Context, offset, timeout int) ([]Update, error) {
	url := fmt.Sprintf("%s/getUpdates?offset=%d&timeout=%d", b.baseURL, offset, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса getUpdates: %w", err)
	}

	body, err := b.do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса getUpdates: %w", err)
	}

	var response GetUpdatesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}

	if !response.OK {
		return nil, fmt.Errorf("%w: %s", ErrAPI, response.Description)
	}

	return response.Result, nil
}

// SendMessage отправляет сообщение пользователю
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	jsonData, err := json.Marshal(SendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := fmt.Sprintf("%s/sendMessage", b.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса sendMessage: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := b.do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}

	var response SendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if !response.OK {
		return fmt.Errorf("%w при отправке сообщения: %s", ErrAPI, response.Description)
	}

	return nil
}

func (b *Bot) do(req *http.Request) ([]byte, error) {
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	return body, nil
}
