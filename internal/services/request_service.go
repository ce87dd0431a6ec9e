package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"repair-service/internal/dto"
	"repair-service/internal/entities"
	"repair-service/internal/repositories"
	"repair-service/pkg/constants"
	apperrors "repair-service/pkg/errors"
	"repair-service/pkg/trackcode"
	"repair-service/pkg/types"
)

type RequestServiceInterface interface {
	SubmitRepair(ctx context.Context, data dto.CreateRepairRequestDTO) (*dto.SubmitResultDTO, error)
	SubmitBuyback(ctx context.Context, data dto.CreateBuybackRequestDTO) (*dto.SubmitResultDTO, error)
	ChangeStatus(ctx context.Context, code string, data dto.ChangeStatusDTO) error
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestListItemDTO, uint64, error)
}

type RequestService struct {
	requestRepo  repositories.RequestRepositoryInterface
	fallbackRepo repositories.FallbackRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	notifier     NotificationServiceInterface
	codes        *trackcode.Generator
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	fallbackRepo repositories.FallbackRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	notifier NotificationServiceInterface,
	codes *trackcode.Generator,
	storeTimeout time.Duration,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		requestRepo:  requestRepo,
		fallbackRepo: fallbackRepo,
		cacheRepo:    cacheRepo,
		notifier:     notifier,
		codes:        codes,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func (s *RequestService) SubmitRepair(ctx context.Context, data dto.CreateRepairRequestDTO) (*dto.SubmitResultDTO, error) {
	// Форму уже проверил валидатор на границе HTTP, но оркестратор
	// перепроверяет присутствие полей, от которых зависит сам.
	if err := requireFields(map[string]string{
		"customer_name":  data.CustomerName,
		"customer_phone": data.CustomerPhone,
		"customer_email": data.CustomerEmail,
		"brand":          data.Brand,
		"model":          data.Model,
		"issue":          data.Issue,
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	request := &entities.ServiceRequest{
		TrackingCode:     s.codes.Generate(constants.KindRepair),
		Kind:             constants.KindRepair,
		DeviceCategory:   data.DeviceCategory,
		Brand:            data.Brand,
		Model:            data.Model,
		IssueOrCondition: data.Issue,
		CustomerName:     data.CustomerName,
		CustomerEmail:    data.CustomerEmail,
		CustomerPhone:    data.CustomerPhone,
		EstimatedValue:   RepairEstimate(data.Issue),
		Status:           constants.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	request.SeedFirstUpdate()

	return s.persistAndNotify(ctx, request)
}

func (s *RequestService) SubmitBuyback(ctx context.Context, data dto.CreateBuybackRequestDTO) (*dto.SubmitResultDTO, error) {
	if err := requireFields(map[string]string{
		"customer_name":  data.CustomerName,
		"customer_phone": data.CustomerPhone,
		"customer_email": data.CustomerEmail,
		"brand":          data.Brand,
		"model":          data.Model,
		"condition":      data.Condition,
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	request := &entities.ServiceRequest{
		TrackingCode:     s.codes.Generate(constants.KindBuyback),
		Kind:             constants.KindBuyback,
		DeviceCategory:   data.DeviceCategory,
		Brand:            data.Brand,
		Model:            data.Model,
		IssueOrCondition: data.Condition,
		CustomerName:     data.CustomerName,
		CustomerEmail:    data.CustomerEmail,
		CustomerPhone:    data.CustomerPhone,
		EstimatedValue:   BuybackValue(data.Brand, data.Model, data.Condition),
		Status:           constants.StatusQuoteGenerated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	request.SeedFirstUpdate()

	return s.persistAndNotify(ctx, request)
}

// persistAndNotify - общий хвост оформления: сохранить хоть куда-нибудь,
// потом разослать уведомления. Порядок строгий: запись happens-before
// рассылки, рассылка happens-before возврата результата.
func (s *RequestService) persistAndNotify(ctx context.Context, request *entities.ServiceRequest) (*dto.SubmitResultDTO, error) {
	writeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	err := s.requestRepo.CreateRequest(writeCtx, request)
	cancel()

	if err != nil {
		// Любая ошибка удаленного хранилища (отсутствие таблицы, сеть,
		// таймаут) уводит заявку в локальный резервный кеш: оформление
		// не должно падать из-за деградации персистентности.
		s.logger.Warn("удаленное хранилище недоступно, пишем в резервный кеш",
			zap.String("trackingCode", request.TrackingCode),
			zap.Error(err),
		)
		if fbErr := s.fallbackRepo.Put(ctx, request); fbErr != nil {
			s.logger.Error("заявку не удалось сохранить ни в одном хранилище",
				zap.String("trackingCode", request.TrackingCode),
				zap.Error(fbErr),
			)
			return nil, apperrors.ErrNothingStored
		}
	}

	notification := s.notifier.Notify(ctx, request)

	return &dto.SubmitResultDTO{
		TrackingCode: request.TrackingCode,
		Notification: notification,
	}, nil
}

func (s *RequestService) ChangeStatus(ctx context.Context, code string, data dto.ChangeStatusDTO) error {
	err := s.requestRepo.ChangeStatus(ctx, code, data.Status, data.Comment.String)
	if err != nil {
		return err
	}

	// Сбрасываем горячий кеш трекинга, чтобы клиент не видел старый статус.
	if s.cacheRepo != nil {
		if delErr := s.cacheRepo.Del(ctx, trackCacheKey(code)); delErr != nil {
			s.logger.Warn("не удалось сбросить кеш трекинга", zap.String("trackingCode", code), zap.Error(delErr))
		}
	}
	return nil
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestListItemDTO, uint64, error) {
	requests, total, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.RequestListItemDTO, 0, len(requests))
	for _, req := range requests {
		list = append(list, dto.RequestListItemDTO{
			TrackingCode:   req.TrackingCode,
			Kind:           string(req.Kind),
			Brand:          req.Brand,
			Model:          req.Model,
			Status:         req.Status,
			EstimatedValue: req.EstimatedValue,
			CustomerName:   req.CustomerName,
			CreatedAt:      req.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return list, total, nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return apperrors.NewInvalidInputError("обязательное поле '%s' не заполнено", name)
		}
	}
	return nil
}
