// Файл: pkg/notifygate/service.go
package notifygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ServiceInterface - клиент агрегированного шлюза уведомлений: один вызов
// на стороне шлюза порождает и SMS, и email.
type ServiceInterface interface {
	SendBoth(ctx context.Context, payload Payload) (*Result, error)
}

type Payload struct {
	RecipientPhone string `json:"recipient_phone"`
	RecipientEmail string `json:"recipient_email"`
	CustomerName   string `json:"customer_name"`
	TrackingCode   string `json:"tracking_code"`
	DeviceInfo     string `json:"device_info"`
	EstimatedValue int64  `json:"estimated_value"`
	Kind           string `json:"kind"`
}

type Result struct {
	SMSSent   bool `json:"sms_sent"`
	EmailSent bool `json:"email_sent"`
}

type Service struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewService(baseURL, token string) ServiceInterface {
	return &Service{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Service) SendBoth(ctx context.Context, payload Payload) (*Result, error) {
	// Пустой URL означает, что шлюз не развернут - это штатный повод
	// уйти на прямые вызовы вендоров.
	if s.baseURL == "" {
		return nil, fmt.Errorf("агрегированный шлюз уведомлений не сконфигурирован")
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/notify", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка вызова шлюза уведомлений: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("шлюз уведомлений вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var gatewayResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
		Result      Result `json:"result"`
	}
	if err := json.Unmarshal(body, &gatewayResp); err != nil {
		return nil, fmt.Errorf("ошибка декодирования ответа шлюза: %w", err)
	}
	if !gatewayResp.OK {
		return nil, fmt.Errorf("шлюз уведомлений отклонил запрос: %s", gatewayResp.Description)
	}

	return &gatewayResp.Result, nil
}
