package entities

import (
	"time"

	"repair-service/pkg/constants"
)

// StatusUpdate - одна запись истории статусов. История append-only:
// записи не правятся и не удаляются, порядок хронологический.
type StatusUpdate struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ServiceRequest - заявка на ремонт или выкуп устройства.
// TrackingCode - первичный ключ поиска, выдается клиенту при оформлении.
type ServiceRequest struct {
	ID             uint64                `json:"id,omitempty"`
	TrackingCode   string                `json:"tracking_code"`
	Kind           constants.RequestKind `json:"kind"`
	DeviceCategory string                `json:"device_category"`
	Brand          string                `json:"brand"`
	Model          string                `json:"model"`
	// Описание поломки (ремонт) или оценка состояния (выкуп).
	IssueOrCondition string `json:"issue_or_condition"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	// Оценочная стоимость ремонта либо предложенная цена выкупа.
	EstimatedValue int64 `json:"estimated_value"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Updates []StatusUpdate `json:"updates"`
}

// SeedFirstUpdate записывает первую запись истории. Она одинаково выглядит
// и в удаленном хранилище, и в локальном резервном кеше, поэтому форма
// заявки не зависит от того, где она была сохранена.
func (r *ServiceRequest) SeedFirstUpdate() {
	if len(r.Updates) > 0 {
		return
	}
	message := constants.StatusMessages[r.Status]
	r.Updates = append(r.Updates, StatusUpdate{
		Status:    r.Status,
		Message:   message,
		CreatedAt: r.CreatedAt,
	})
}

// DeviceInfo - краткое описание устройства для SMS и письма.
func (r *ServiceRequest) DeviceInfo() string {
	return r.Brand + " " + r.Model
}
