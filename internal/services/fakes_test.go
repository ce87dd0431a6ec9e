package services

import (
	"context"
	"fmt"

	"repair-service/internal/dto"
	"repair-service/internal/entities"
	"repair-service/pkg/constants"
	apperrors "repair-service/pkg/errors"
	"repair-service/pkg/types"
)

// Фейки хранилищ и вендоров для юнит-тестов оркестратора и диспетчера.

type fakeRequestRepo struct {
	createErr error
	findErr   error
	stored    map[string]*entities.ServiceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{stored: map[string]*entities.ServiceRequest{}}
}

func (f *fakeRequestRepo) CreateRequest(ctx context.Context, request *entities.ServiceRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.stored[request.TrackingCode] = request
	return nil
}

func (f *fakeRequestRepo) FindByTrackingCode(ctx context.Context, code string) (*entities.ServiceRequest, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if req, ok := f.stored[code]; ok {
		return req, nil
	}
	return nil, apperrors.NewStoreError(apperrors.StoreRecordNotFound, "find", fmt.Errorf("no rows"))
}

func (f *fakeRequestRepo) TableExists(ctx context.Context, table string) (bool, error) {
	return f.createErr == nil, nil
}

func (f *fakeRequestRepo) GetRequests(ctx context.Context, filter types.Filter) ([]entities.ServiceRequest, uint64, error) {
	list := make([]entities.ServiceRequest, 0, len(f.stored))
	for _, req := range f.stored {
		list = append(list, *req)
	}
	return list, uint64(len(list)), nil
}

func (f *fakeRequestRepo) ChangeStatus(ctx context.Context, code string, newStatus string, message string) error {
	req, ok := f.stored[code]
	if !ok {
		return apperrors.ErrTrackingCodeNotFound
	}
	if !constants.CanTransition(req.Status, newStatus) {
		return apperrors.ErrInvalidStatusChange
	}
	req.Status = newStatus
	return nil
}

type fakeFallbackRepo struct {
	putErr error
	stored map[string]*entities.ServiceRequest
}

func newFakeFallbackRepo() *fakeFallbackRepo {
	return &fakeFallbackRepo{stored: map[string]*entities.ServiceRequest{}}
}

func (f *fakeFallbackRepo) Put(ctx context.Context, request *entities.ServiceRequest) error {
	if f.putErr != nil {
		return f.putErr
	}
	request.SeedFirstUpdate()
	f.stored[string(request.Kind)+":"+request.TrackingCode] = request
	return nil
}

func (f *fakeFallbackRepo) Get(ctx context.Context, kind constants.RequestKind, trackingCode string) (*entities.ServiceRequest, error) {
	if req, ok := f.stored[string(kind)+":"+trackingCode]; ok {
		return req, nil
	}
	return nil, apperrors.ErrNotFound
}

type fakeNotifier struct {
	result dto.NotificationResultDTO
	calls  int
}

func (f *fakeNotifier) Notify(ctx context.Context, request *entities.ServiceRequest) dto.NotificationResultDTO {
	f.calls++
	return f.result
}
