package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"repair-service/internal/entities"
	"repair-service/pkg/constants"
	apperrors "repair-service/pkg/errors"
	"repair-service/pkg/types"
)

const (
	requestsTable = "service_requests"

	// pgcode 42P01: undefined_table
	pgUndefinedTable = "42P01"
)

// ЕДИНАЯ КАРТА ПОЛЕЙ (Фильтр + Сортировка)
var requestFieldMap = map[string]string{
	"kind":          "sr.kind",
	"status":        "sr.status",
	"brand":         "sr.brand",
	"model":         "sr.model",
	"customer_name": "sr.customer_name",
	"created_at":    "sr.created_at",
}

type RequestRepositoryInterface interface {
	CreateRequest(ctx context.Context, request *entities.ServiceRequest) error
	FindByTrackingCode(ctx context.Context, code string) (*entities.ServiceRequest, error)
	TableExists(ctx context.Context, table string) (bool, error)
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.ServiceRequest, uint64, error)
	ChangeStatus(ctx context.Context, code string, newStatus string, message string) error
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

// classify переводит низкоуровневую ошибку pgx в типизированную StoreError.
// Сравнения текста ошибок здесь нет намеренно: вызывающий код принимает
// решение об уходе в резервный кеш только по Kind.
func classify(op string, err error) *apperrors.StoreError {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewStoreError(apperrors.StoreRecordNotFound, op, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable:
		return apperrors.NewStoreError(apperrors.StoreSchemaMissing, op, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewStoreError(apperrors.StoreTransient, op, err)
	default:
		return apperrors.NewStoreError(apperrors.StoreUnknown, op, err)
	}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request *entities.ServiceRequest) (err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return classify("create", fmt.Errorf("ошибка начала транзакции: %w", err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = classify("create", commitErr)
			}
		}
	}()

	insertQuery := `
		INSERT INTO service_requests
			(tracking_code, kind, device_category, brand, model, issue_or_condition,
			 customer_name, customer_email, customer_phone, estimated_value, status,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	if err = tx.QueryRow(ctx, insertQuery,
		request.TrackingCode, string(request.Kind), request.DeviceCategory,
		request.Brand, request.Model, request.IssueOrCondition,
		request.CustomerName, request.CustomerEmail, request.CustomerPhone,
		request.EstimatedValue, request.Status,
		request.CreatedAt, request.UpdatedAt,
	).Scan(&request.ID); err != nil {
		return classify("create", fmt.Errorf("ошибка записи в 'service_requests': %w", err))
	}

	for _, upd := range request.Updates {
		updateQuery := `INSERT INTO request_updates (request_id, status, message, created_at) VALUES ($1, $2, $3, $4)`
		if _, err = tx.Exec(ctx, updateQuery, request.ID, upd.Status, upd.Message, upd.CreatedAt); err != nil {
			return classify("create", fmt.Errorf("ошибка записи в 'request_updates': %w", err))
		}
	}
	return err
}

func scanRequest(row pgx.Row) (*entities.ServiceRequest, error) {
	var req entities.ServiceRequest
	var kind string
	err := row.Scan(
		&req.ID, &req.TrackingCode, &kind, &req.DeviceCategory,
		&req.Brand, &req.Model, &req.IssueOrCondition,
		&req.CustomerName, &req.CustomerEmail, &req.CustomerPhone,
		&req.EstimatedValue, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Kind = constants.RequestKind(kind)
	return &req, nil
}

func (r *RequestRepository) FindByTrackingCode(ctx context.Context, code string) (*entities.ServiceRequest, error) {
	query := `
		SELECT sr.id, sr.tracking_code, sr.kind, sr.device_category,
		       sr.brand, sr.model, sr.issue_or_condition,
		       sr.customer_name, sr.customer_email, sr.customer_phone,
		       sr.estimated_value, sr.status, sr.created_at, sr.updated_at
		FROM service_requests sr
		WHERE sr.tracking_code = $1`

	request, err := scanRequest(r.storage.QueryRow(ctx, query, code))
	if err != nil {
		return nil, classify("find", fmt.Errorf("ошибка сканирования заявки: %w", err))
	}

	updatesQuery := `
		SELECT ru.status, ru.message, ru.created_at
		FROM request_updates ru
		WHERE ru.request_id = $1
		ORDER BY ru.created_at ASC, ru.id ASC`
	rows, err := r.storage.Query(ctx, updatesQuery, request.ID)
	if err != nil {
		return nil, classify("find", fmt.Errorf("ошибка получения истории заявки: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var upd entities.StatusUpdate
		if err := rows.Scan(&upd.Status, &upd.Message, &upd.CreatedAt); err != nil {
			return nil, classify("find", fmt.Errorf("ошибка сканирования записи истории: %w", err))
		}
		request.Updates = append(request.Updates, upd)
	}
	return request, nil
}

// TableExists - предварительная проверка наличия таблицы в схеме.
func (r *RequestRepository) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`
	if err := r.storage.QueryRow(ctx, query, table).Scan(&exists); err != nil {
		return false, classify("exists", fmt.Errorf("ошибка проверки наличия таблицы %s: %w", table, err))
	}
	return exists, nil
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.ServiceRequest, uint64, error) {
	builder := sq.Select(
		"sr.id", "sr.tracking_code", "sr.kind", "sr.device_category",
		"sr.brand", "sr.model", "sr.issue_or_condition",
		"sr.customer_name", "sr.customer_email", "sr.customer_phone",
		"sr.estimated_value", "sr.status", "sr.created_at", "sr.updated_at",
	).From(requestsTable + " sr").PlaceholderFormat(sq.Dollar)

	countBuilder := sq.Select("COUNT(*)").From(requestsTable + " sr").PlaceholderFormat(sq.Dollar)

	for field, value := range filter.Filter {
		column, ok := requestFieldMap[field]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{column: value})
		countBuilder = countBuilder.Where(sq.Eq{column: value})
	}
	if filter.Search != "" {
		like := sq.Or{
			sq.ILike{"sr.brand": "%" + filter.Search + "%"},
			sq.ILike{"sr.model": "%" + filter.Search + "%"},
			sq.ILike{"sr.customer_name": "%" + filter.Search + "%"},
		}
		builder = builder.Where(like)
		countBuilder = countBuilder.Where(like)
	}

	var total uint64
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения count-запроса: %w", err)
	}
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, classify("list", fmt.Errorf("ошибка подсчета заявок: %w", err))
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	builder = builder.OrderBy("sr.created_at DESC").Limit(limit).Offset(filter.Offset)

	querySQL, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса списка: %w", err)
	}
	rows, err := r.storage.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, classify("list", fmt.Errorf("ошибка получения списка заявок: %w", err))
	}
	defer rows.Close()

	requests := make([]entities.ServiceRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, classify("list", fmt.Errorf("ошибка сканирования заявки в списке: %w", err))
		}
		requests = append(requests, *req)
	}
	return requests, total, nil
}

func (r *RequestRepository) ChangeStatus(ctx context.Context, code string, newStatus string, message string) (err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return classify("change_status", fmt.Errorf("ошибка начала транзакции: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	var requestID uint64
	var currentStatus string
	findQuery := `SELECT id, status FROM service_requests WHERE tracking_code = $1 FOR UPDATE`
	if err = tx.QueryRow(ctx, findQuery, code).Scan(&requestID, &currentStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTrackingCodeNotFound
		}
		return classify("change_status", fmt.Errorf("не удалось найти заявку для обновления: %w", err))
	}

	if !constants.CanTransition(currentStatus, newStatus) {
		return apperrors.ErrInvalidStatusChange
	}

	now := time.Now()
	if _, err = tx.Exec(ctx,
		`UPDATE service_requests SET status = $1, updated_at = $2 WHERE id = $3`,
		newStatus, now, requestID,
	); err != nil {
		return classify("change_status", fmt.Errorf("ошибка обновления статуса заявки: %w", err))
	}

	if message == "" {
		message = constants.StatusMessages[newStatus]
	}
	if _, err = tx.Exec(ctx,
		`INSERT INTO request_updates (request_id, status, message, created_at) VALUES ($1, $2, $3, $4)`,
		requestID, newStatus, message, now,
	); err != nil {
		return classify("change_status", fmt.Errorf("ошибка создания записи истории о смене статуса: %w", err))
	}

	return tx.Commit(ctx)
}
