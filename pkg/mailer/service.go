// Файл: pkg/mailer/service.go
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// ServiceInterface - прямой клиент email-вендора (SMTP).
type ServiceInterface interface {
	SendHTML(ctx context.Context, to string, subject string, htmlBody string) error
}

type Service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(host string, port int, user, pass, from string) ServiceInterface {
	return &Service{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// SendHTML отправляет письмо синхронно, но уважает отмену контекста:
// зависший SMTP не должен держать оформление заявки.
func (s *Service) SendHTML(ctx context.Context, to string, subject string, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("адрес получателя не может быть пустым")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ошибка отправки письма: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("отправка письма прервана: %w", ctx.Err())
	}
}
