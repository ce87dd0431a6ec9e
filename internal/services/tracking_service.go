package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"repair-service/internal/dto"
	"repair-service/internal/entities"
	"repair-service/internal/repositories"
	apperrors "repair-service/pkg/errors"
	"repair-service/pkg/trackcode"
)

type TrackingServiceInterface interface {
	Track(ctx context.Context, trackingCode string) (*dto.TrackingResponseDTO, error)
}

type TrackingService struct {
	requestRepo  repositories.RequestRepositoryInterface
	fallbackRepo repositories.FallbackRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	cacheTTL     time.Duration
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewTrackingService(
	requestRepo repositories.RequestRepositoryInterface,
	fallbackRepo repositories.FallbackRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	storeTimeout time.Duration,
	logger *zap.Logger,
) TrackingServiceInterface {
	return &TrackingService{
		requestRepo:  requestRepo,
		fallbackRepo: fallbackRepo,
		cacheRepo:    cacheRepo,
		cacheTTL:     cacheTTL,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func trackCacheKey(code string) string {
	return "track:" + code
}

// Track ищет заявку по цепочке: горячий кеш -> удаленное хранилище ->
// локальный резервный кеш. Наружу уходит либо заявка, либо типизированное
// "не найдено" - паника или сырая ошибка через эту границу не проходят.
func (s *TrackingService) Track(ctx context.Context, trackingCode string) (*dto.TrackingResponseDTO, error) {
	kind, ok := trackcode.KindOf(trackingCode)
	if !ok {
		return nil, apperrors.ErrTrackingCodeNotFound
	}

	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(ctx, trackCacheKey(trackingCode)); err == nil && cached != "" {
			var resp dto.TrackingResponseDTO
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	readCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	request, err := s.requestRepo.FindByTrackingCode(readCtx, trackingCode)
	cancel()

	if err != nil {
		if !apperrors.StoreErrorOfKind(err, apperrors.StoreRecordNotFound) {
			s.logger.Warn("не удалось прочитать заявку из удаленного хранилища",
				zap.String("trackingCode", trackingCode), zap.Error(err))
		}
		// И сбой хранилища, и отсутствие записи ведут в резервный кеш:
		// заявка могла быть оформлена в период деградации.
		request, err = s.fallbackRepo.Get(ctx, kind, trackingCode)
		if err != nil {
			return nil, apperrors.ErrTrackingCodeNotFound
		}
	}

	resp := toTrackingResponse(request)

	if s.cacheRepo != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if setErr := s.cacheRepo.Set(ctx, trackCacheKey(trackingCode), string(raw), s.cacheTTL); setErr != nil {
				s.logger.Debug("не удалось записать в кеш трекинга", zap.Error(setErr))
			}
		}
	}
	return resp, nil
}

func toTrackingResponse(request *entities.ServiceRequest) *dto.TrackingResponseDTO {
	// Старые записи удаленного хранилища могли остаться без истории -
	// синтезируем первую запись, чтобы форма ответа была одинаковой.
	request.SeedFirstUpdate()

	updates := make([]dto.StatusUpdateDTO, 0, len(request.Updates))
	for _, upd := range request.Updates {
		updates = append(updates, dto.StatusUpdateDTO{
			Status:    upd.Status,
			Message:   upd.Message,
			CreatedAt: upd.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	return &dto.TrackingResponseDTO{
		TrackingCode:     request.TrackingCode,
		Kind:             string(request.Kind),
		DeviceCategory:   request.DeviceCategory,
		Brand:            request.Brand,
		Model:            request.Model,
		IssueOrCondition: request.IssueOrCondition,
		CustomerName:     request.CustomerName,
		CustomerEmail:    request.CustomerEmail,
		CustomerPhone:    request.CustomerPhone,
		EstimatedValue:   request.EstimatedValue,
		Status:           request.Status,
		CreatedAt:        request.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		UpdatedAt:        request.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		Updates:          updates,
	}
}
