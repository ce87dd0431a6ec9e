// Файл: pkg/smsgateway/service.go
package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ServiceInterface - прямой клиент SMS-вендора (резервный путь доставки,
// минуя агрегированный шлюз).
type ServiceInterface interface {
	SendSMS(ctx context.Context, to string, body string) (string, error)
}

type Service struct {
	baseURL    string
	token      string
	from       string
	httpClient *http.Client
}

func NewService(baseURL, token, from string) ServiceInterface {
	return &Service{
		baseURL:    baseURL,
		token:      token,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendSMSRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendSMS возвращает идентификатор сообщения у вендора.
func (s *Service) SendSMS(ctx context.Context, to string, body string) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("SMS-вендор не сконфигурирован")
	}
	if to == "" {
		return "", fmt.Errorf("номер получателя не может быть пустым")
	}

	reqBody, err := json.Marshal(sendSMSRequest{From: s.from, To: to, Body: body})
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка отправки запроса SMS-вендору: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("SMS-вендор вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	var vendorResp struct {
		MessageID string `json:"message_id"`
	}
	if err := json.Unmarshal(respBody, &vendorResp); err != nil {
		return "", fmt.Errorf("ошибка декодирования ответа SMS-вендора: %w", err)
	}
	return vendorResp.MessageID, nil
}
