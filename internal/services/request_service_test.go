package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-service/internal/dto"
	"repair-service/pkg/constants"
	apperrors "repair-service/pkg/errors"
	"repair-service/pkg/trackcode"
)

func newTestService(t *testing.T, repo *fakeRequestRepo, fallback *fakeFallbackRepo, notifier *fakeNotifier) RequestServiceInterface {
	t.Helper()
	codes, err := trackcode.NewGenerator(7)
	require.NoError(t, err)
	return NewRequestService(repo, fallback, nil, notifier, codes, time.Second, zap.NewNop())
}

func validRepairDTO() dto.CreateRepairRequestDTO {
	return dto.CreateRepairRequestDTO{
		DeviceCategory: "smartphone",
		Brand:          "Apple",
		Model:          "iPhone 14",
		Issue:          "screen_broken",
		CustomerName:   "Test",
		CustomerEmail:  "t@example.com",
		CustomerPhone:  "9999999999",
	}
}

func TestSubmitRepair_Scenario(t *testing.T) {
	repo := newFakeRequestRepo()
	notifier := &fakeNotifier{result: dto.NotificationResultDTO{SMSSent: true, EmailSent: true, Method: MethodAggregated}}
	svc := newTestService(t, repo, newFakeFallbackRepo(), notifier)

	res, err := svc.SubmitRepair(context.Background(), validRepairDTO())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Regexp(t, `^RMT-[0-9A-Z]{6,}$`, res.TrackingCode)
	assert.Equal(t, 1, notifier.calls, "уведомления должны отправляться ровно один раз")

	stored := repo.stored[res.TrackingCode]
	require.NotNil(t, stored, "заявка должна попасть в удаленное хранилище")
	assert.Equal(t, constants.StatusPending, stored.Status)
	require.Len(t, stored.Updates, 1, "при создании сеется ровно одна запись истории")
	assert.Equal(t, constants.StatusPending, stored.Updates[0].Status)
}

func TestSubmitRepair_FallbackTransparency(t *testing.T) {
	// Хранилище всегда отвечает "таблица отсутствует" - заявка обязана
	// уйти в резервный кеш, а трекинг - найти ее там в той же форме.
	repo := newFakeRequestRepo()
	repo.createErr = apperrors.NewStoreError(apperrors.StoreSchemaMissing, "create", fmt.Errorf("relation does not exist"))
	repo.findErr = apperrors.NewStoreError(apperrors.StoreSchemaMissing, "find", fmt.Errorf("relation does not exist"))
	fallback := newFakeFallbackRepo()
	svc := newTestService(t, repo, fallback, &fakeNotifier{})

	res, err := svc.SubmitRepair(context.Background(), validRepairDTO())
	require.NoError(t, err)
	require.NotEmpty(t, res.TrackingCode)

	tracking := NewTrackingService(repo, fallback, nil, time.Minute, time.Second, zap.NewNop())
	found, err := tracking.Track(context.Background(), res.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, found.Status)
	require.NotEmpty(t, found.Updates, "у заявки из резервного кеша история не должна быть пустой")
}

func TestSubmitRepair_NeverFails(t *testing.T) {
	// И хранилище, и уведомления лежат: оформление все равно возвращает
	// трек-код и результат рассылки с обоими каналами false.
	repo := newFakeRequestRepo()
	repo.createErr = apperrors.NewStoreError(apperrors.StoreTransient, "create", fmt.Errorf("connection refused"))
	notifier := &fakeNotifier{result: dto.NotificationResultDTO{Method: MethodDirect, Errors: []string{"sms: down", "email: down"}}}
	svc := newTestService(t, repo, newFakeFallbackRepo(), notifier)

	res, err := svc.SubmitRepair(context.Background(), validRepairDTO())
	require.NoError(t, err)
	assert.NotEmpty(t, res.TrackingCode)
	assert.False(t, res.Notification.SMSSent)
	assert.False(t, res.Notification.EmailSent)
}

func TestSubmitRepair_NothingStored(t *testing.T) {
	repo := newFakeRequestRepo()
	repo.createErr = apperrors.NewStoreError(apperrors.StoreUnknown, "create", fmt.Errorf("boom"))
	fallback := newFakeFallbackRepo()
	fallback.putErr = fmt.Errorf("диск переполнен")
	svc := newTestService(t, repo, fallback, &fakeNotifier{})

	_, err := svc.SubmitRepair(context.Background(), validRepairDTO())
	assert.ErrorIs(t, err, apperrors.ErrNothingStored)
}

func TestSubmitRepair_RoundTrip(t *testing.T) {
	repo := newFakeRequestRepo()
	fallback := newFakeFallbackRepo()
	svc := newTestService(t, repo, fallback, &fakeNotifier{})

	data := validRepairDTO()
	res, err := svc.SubmitRepair(context.Background(), data)
	require.NoError(t, err)

	tracking := NewTrackingService(repo, fallback, nil, time.Minute, time.Second, zap.NewNop())
	found, err := tracking.Track(context.Background(), res.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, data.Brand, found.Brand)
	assert.Equal(t, data.Model, found.Model)
	assert.Equal(t, data.CustomerPhone, found.CustomerPhone)
}

func TestSubmitRepair_ValidationError(t *testing.T) {
	svc := newTestService(t, newFakeRequestRepo(), newFakeFallbackRepo(), &fakeNotifier{})

	data := validRepairDTO()
	data.CustomerPhone = "   "
	_, err := svc.SubmitRepair(context.Background(), data)

	var inputErr *apperrors.InvalidInputError
	require.ErrorAs(t, err, &inputErr, "пропущенное поле должно давать типизированную ошибку валидации")
}

func TestSubmitBuyback_ValueAndStatus(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newTestService(t, repo, newFakeFallbackRepo(), &fakeNotifier{})

	res, err := svc.SubmitBuyback(context.Background(), dto.CreateBuybackRequestDTO{
		DeviceCategory: "smartphone",
		Brand:          "Apple",
		Model:          "iPhone 14",
		Condition:      "good",
		CustomerName:   "Test",
		CustomerEmail:  "t@example.com",
		CustomerPhone:  "9999999999",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^TRD-[0-9A-Z]{6,}$`, res.TrackingCode)

	stored := repo.stored[res.TrackingCode]
	require.NotNil(t, stored)
	assert.Equal(t, int64(36000), stored.EstimatedValue)
	assert.Equal(t, constants.StatusQuoteGenerated, stored.Status)
}

func TestChangeStatus_StateMachine(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newTestService(t, repo, newFakeFallbackRepo(), &fakeNotifier{})

	res, err := svc.SubmitRepair(context.Background(), validRepairDTO())
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(context.Background(), res.TrackingCode, dto.ChangeStatusDTO{Status: constants.StatusConfirmed}))
	require.NoError(t, svc.ChangeStatus(context.Background(), res.TrackingCode, dto.ChangeStatusDTO{Status: constants.StatusInProgress}))

	// Откат назад запрещен.
	err = svc.ChangeStatus(context.Background(), res.TrackingCode, dto.ChangeStatusDTO{Status: constants.StatusPending})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusChange)
}
