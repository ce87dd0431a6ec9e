// Файл: internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"repair-service/internal/dto"
	"repair-service/internal/entities"
	"repair-service/pkg/constants"
	"repair-service/pkg/mailer"
	"repair-service/pkg/notifygate"
	"repair-service/pkg/smsgateway"
)

const (
	MethodAggregated = "aggregated"
	MethodDirect     = "direct"
)

// NotificationServiceInterface - диспетчер уведомлений клиенту.
// Notify никогда не возвращает ошибку: сбой доставки не должен ронять
// оформление заявки, результат отдается вызывающему как есть.
type NotificationServiceInterface interface {
	Notify(ctx context.Context, request *entities.ServiceRequest) dto.NotificationResultDTO
}

type notificationService struct {
	gateway         notifygate.ServiceInterface
	sms             smsgateway.ServiceInterface
	mail            mailer.ServiceInterface
	trackingBaseURL string
	timeout         time.Duration
	logger          *zap.Logger
}

func NewNotificationService(
	gateway notifygate.ServiceInterface,
	sms smsgateway.ServiceInterface,
	mail mailer.ServiceInterface,
	trackingBaseURL string,
	timeout time.Duration,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &notificationService{
		gateway:         gateway,
		sms:             sms,
		mail:            mail,
		trackingBaseURL: trackingBaseURL,
		timeout:         timeout,
		logger:          logger,
	}
}

// Notify: сначала один агрегированный вызов шлюза; если он не прошел
// (сеть, не-2xx, шлюз не развернут) - два НЕЗАВИСИМЫХ прямых вызова:
// SMS-вендору и email-вендору. Повторов сверх этой цепочки нет.
func (s *notificationService) Notify(ctx context.Context, request *entities.ServiceRequest) dto.NotificationResultDTO {
	dispatchID := uuid.NewString()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.gateway.SendBoth(ctx, notifygate.Payload{
		RecipientPhone: request.CustomerPhone,
		RecipientEmail: request.CustomerEmail,
		CustomerName:   request.CustomerName,
		TrackingCode:   request.TrackingCode,
		DeviceInfo:     request.DeviceInfo(),
		EstimatedValue: request.EstimatedValue,
		Kind:           string(request.Kind),
	})
	if err == nil {
		s.logger.Info("уведомления отправлены через агрегированный шлюз",
			zap.String("dispatchId", dispatchID),
			zap.String("trackingCode", request.TrackingCode),
			zap.Bool("smsSent", result.SMSSent),
			zap.Bool("emailSent", result.EmailSent),
		)
		return dto.NotificationResultDTO{
			SMSSent:   result.SMSSent,
			EmailSent: result.EmailSent,
			Method:    MethodAggregated,
		}
	}

	s.logger.Warn("агрегированный шлюз недоступен, переходим на прямые вызовы вендоров",
		zap.String("dispatchId", dispatchID),
		zap.String("trackingCode", request.TrackingCode),
		zap.Error(err),
	)

	out := dto.NotificationResultDTO{Method: MethodDirect}

	// Каналы независимы: провал одного не мешает попытке второго.
	messageID, smsErr := s.sms.SendSMS(ctx, request.CustomerPhone, s.renderSMS(request))
	if smsErr != nil {
		s.logger.Error("не удалось отправить SMS напрямую",
			zap.String("dispatchId", dispatchID), zap.Error(smsErr))
		out.Errors = append(out.Errors, "sms: "+smsErr.Error())
	} else {
		out.SMSSent = true
		s.logger.Info("SMS отправлено напрямую",
			zap.String("dispatchId", dispatchID), zap.String("vendorMessageId", messageID))
	}

	mailErr := s.mail.SendHTML(ctx, request.CustomerEmail, s.renderSubject(request), s.renderEmail(request))
	if mailErr != nil {
		s.logger.Error("не удалось отправить письмо напрямую",
			zap.String("dispatchId", dispatchID), zap.Error(mailErr))
		out.Errors = append(out.Errors, "email: "+mailErr.Error())
	} else {
		out.EmailSent = true
	}

	return out
}

func (s *notificationService) renderSMS(request *entities.ServiceRequest) string {
	if request.Kind == constants.KindBuyback {
		return fmt.Sprintf("Предложение о выкупе %s: %d. Трек-код %s",
			request.DeviceInfo(), request.EstimatedValue, request.TrackingCode)
	}
	return fmt.Sprintf("Заявка на ремонт %s принята. Трек-код %s, предварительная оценка %d",
		request.DeviceInfo(), request.TrackingCode, request.EstimatedValue)
}

func (s *notificationService) renderSubject(request *entities.ServiceRequest) string {
	if request.Kind == constants.KindBuyback {
		return "Ваше предложение о выкупе устройства"
	}
	return "Ваша заявка на ремонт принята"
}

func (s *notificationService) renderEmail(request *entities.ServiceRequest) string {
	trackURL := fmt.Sprintf("%s/%s", s.trackingBaseURL, request.TrackingCode)
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2>Здравствуйте, %s!</h2>
  <p>%s</p>
  <p>Устройство: <b>%s</b> (%s)</p>
  <p>Оценочная сумма: <b>%d</b></p>
  <p>Ваш трек-код: <b>%s</b></p>
  <p><a href="%s" style="background:#2563eb;color:#fff;padding:10px 20px;border-radius:6px;text-decoration:none;">Отследить заявку</a></p>
</div>`,
		html.EscapeString(request.CustomerName),
		html.EscapeString(constants.StatusMessages[request.Status]),
		html.EscapeString(request.DeviceInfo()),
		html.EscapeString(request.DeviceCategory),
		request.EstimatedValue,
		request.TrackingCode,
		trackURL,
	)
}
