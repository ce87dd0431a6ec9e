package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-service/internal/entities"
	"repair-service/pkg/constants"
	"repair-service/pkg/notifygate"
)

type fakeGateway struct {
	err    error
	result notifygate.Result
	got    *notifygate.Payload
}

func (f *fakeGateway) SendBoth(ctx context.Context, payload notifygate.Payload) (*notifygate.Result, error) {
	f.got = &payload
	if f.err != nil {
		return nil, f.err
	}
	return &f.result, nil
}

type fakeSMS struct {
	err  error
	body string
	to   string
}

func (f *fakeSMS) SendSMS(ctx context.Context, to string, body string) (string, error) {
	f.to, f.body = to, body
	if f.err != nil {
		return "", f.err
	}
	return "msg-123", nil
}

type fakeMailer struct {
	err  error
	to   string
	html string
}

func (f *fakeMailer) SendHTML(ctx context.Context, to string, subject string, htmlBody string) error {
	f.to, f.html = to, htmlBody
	return f.err
}

func sampleRequest() *entities.ServiceRequest {
	now := time.Now()
	req := &entities.ServiceRequest{
		TrackingCode:     "RMT-TEST01",
		Kind:             constants.KindRepair,
		DeviceCategory:   "smartphone",
		Brand:            "Apple",
		Model:            "iPhone 14",
		IssueOrCondition: "screen_broken",
		CustomerName:     "Test",
		CustomerEmail:    "t@example.com",
		CustomerPhone:    "9999999999",
		EstimatedValue:   3500,
		Status:           constants.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	req.SeedFirstUpdate()
	return req
}

func TestNotify_AggregatedSuccess(t *testing.T) {
	gateway := &fakeGateway{result: notifygate.Result{SMSSent: true, EmailSent: true}}
	sms := &fakeSMS{}
	mail := &fakeMailer{}
	svc := NewNotificationService(gateway, sms, mail, "https://example.com/track", time.Second, zap.NewNop())

	res := svc.Notify(context.Background(), sampleRequest())

	assert.Equal(t, MethodAggregated, res.Method)
	assert.True(t, res.SMSSent)
	assert.True(t, res.EmailSent)
	assert.Empty(t, sms.to, "при успехе шлюза прямые вызовы не выполняются")
	assert.Empty(t, mail.to)

	require.NotNil(t, gateway.got)
	assert.Equal(t, "RMT-TEST01", gateway.got.TrackingCode)
	assert.Equal(t, "9999999999", gateway.got.RecipientPhone)
	assert.Equal(t, "t@example.com", gateway.got.RecipientEmail)
}

func TestNotify_FallsBackToDirect(t *testing.T) {
	gateway := &fakeGateway{err: fmt.Errorf("шлюз не развернут")}
	sms := &fakeSMS{}
	mail := &fakeMailer{}
	svc := NewNotificationService(gateway, sms, mail, "https://example.com/track", time.Second, zap.NewNop())

	res := svc.Notify(context.Background(), sampleRequest())

	assert.Equal(t, MethodDirect, res.Method)
	assert.True(t, res.SMSSent)
	assert.True(t, res.EmailSent)
	assert.Empty(t, res.Errors)

	// Оба канала обязаны содержать трек-код дословно.
	assert.Contains(t, sms.body, "RMT-TEST01")
	assert.Contains(t, mail.html, "RMT-TEST01")
	assert.True(t, strings.Contains(mail.html, "https://example.com/track/RMT-TEST01"),
		"письмо должно содержать ссылку на страницу трекинга")
}

func TestNotify_DirectChannelsAreIndependent(t *testing.T) {
	gateway := &fakeGateway{err: fmt.Errorf("недоступен")}
	sms := &fakeSMS{err: fmt.Errorf("вендор лежит")}
	mail := &fakeMailer{}
	svc := NewNotificationService(gateway, sms, mail, "https://example.com/track", time.Second, zap.NewNop())

	res := svc.Notify(context.Background(), sampleRequest())

	assert.Equal(t, MethodDirect, res.Method)
	assert.False(t, res.SMSSent)
	assert.True(t, res.EmailSent, "провал SMS не должен мешать отправке письма")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "sms:")
}

func TestNotify_TotalFailureIsNotFatal(t *testing.T) {
	gateway := &fakeGateway{err: fmt.Errorf("недоступен")}
	sms := &fakeSMS{err: fmt.Errorf("недоступен")}
	mail := &fakeMailer{err: fmt.Errorf("недоступен")}
	svc := NewNotificationService(gateway, sms, mail, "https://example.com/track", time.Second, zap.NewNop())

	res := svc.Notify(context.Background(), sampleRequest())

	assert.False(t, res.SMSSent)
	assert.False(t, res.EmailSent)
	assert.Len(t, res.Errors, 2)
}
