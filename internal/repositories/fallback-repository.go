package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"repair-service/internal/entities"
	"repair-service/pkg/constants"
	apperrors "repair-service/pkg/errors"
)

// FallbackRepositoryInterface - локальный резервный кеш заявок.
// Используется ТОЛЬКО когда удаленное хранилище недоступно или в нем
// отсутствует таблица. Переживает перезапуск процесса.
type FallbackRepositoryInterface interface {
	Put(ctx context.Context, request *entities.ServiceRequest) error
	Get(ctx context.Context, kind constants.RequestKind, trackingCode string) (*entities.ServiceRequest, error)
}

// BoltFallbackRepository - реализация на bbolt: по одному бакету на вид
// заявки, ключ - трек-код, значение - JSON заявки вместе с историей.
type BoltFallbackRepository struct {
	db     *bolt.DB
	logger *zap.Logger
}

func NewBoltFallbackRepository(db *bolt.DB, logger *zap.Logger) (FallbackRepositoryInterface, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, kind := range []constants.RequestKind{constants.KindRepair, constants.KindBuyback} {
			if _, err := tx.CreateBucketIfNotExists(bucketFor(kind)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бакетов резервного кеша: %w", err)
	}
	return &BoltFallbackRepository{db: db, logger: logger}, nil
}

func bucketFor(kind constants.RequestKind) []byte {
	return []byte("requests_" + string(kind))
}

func (r *BoltFallbackRepository) Put(ctx context.Context, request *entities.ServiceRequest) error {
	// Первая запись истории сеется и здесь, чтобы заявка из резервного
	// кеша по форме не отличалась от заявки из удаленного хранилища.
	request.SeedFirstUpdate()

	value, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("ошибка сериализации заявки для резервного кеша: %w", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketFor(request.Kind))
		if bucket == nil {
			return fmt.Errorf("бакет для вида '%s' не найден", request.Kind)
		}
		return bucket.Put([]byte(request.TrackingCode), value)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи заявки в резервный кеш: %w", err)
	}

	r.logger.Warn("заявка сохранена в локальный резервный кеш",
		zap.String("trackingCode", request.TrackingCode),
		zap.String("kind", string(request.Kind)),
	)
	return nil
}

// Get никогда не возвращает фатальных ошибок чтения: отсутствие ключа и
// битый JSON одинаково разрешаются в "не найдено" с записью в лог.
func (r *BoltFallbackRepository) Get(ctx context.Context, kind constants.RequestKind, trackingCode string) (*entities.ServiceRequest, error) {
	var raw []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketFor(kind))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(trackingCode)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("ошибка чтения из резервного кеша", zap.Error(err), zap.String("trackingCode", trackingCode))
		return nil, apperrors.ErrNotFound
	}
	if raw == nil {
		return nil, apperrors.ErrNotFound
	}

	var request entities.ServiceRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		r.logger.Error("поврежденная запись в резервном кеше", zap.Error(err), zap.String("trackingCode", trackingCode))
		return nil, apperrors.ErrNotFound
	}
	return &request, nil
}
