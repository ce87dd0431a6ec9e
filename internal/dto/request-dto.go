package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateRepairRequestDTO struct {
	DeviceCategory string      `json:"device_category" validate:"required,min=2,max=100"`
	Brand          string      `json:"brand" validate:"required,min=1,max=100"`
	Model          string      `json:"model" validate:"required,min=1,max=150"`
	Issue          string      `json:"issue" validate:"required,min=3,max=500"`
	CustomerName   string      `json:"customer_name" validate:"required,min=2,max=150"`
	CustomerEmail  string      `json:"customer_email" validate:"required,email"`
	CustomerPhone  string      `json:"customer_phone" validate:"required,min=7,max=20"`
	Comment        null.String `json:"comment,omitempty" validate:"omitempty"`
}

type CreateBuybackRequestDTO struct {
	DeviceCategory string      `json:"device_category" validate:"required,min=2,max=100"`
	Brand          string      `json:"brand" validate:"required,min=1,max=100"`
	Model          string      `json:"model" validate:"required,min=1,max=150"`
	Condition      string      `json:"condition" validate:"required,oneof=excellent good fair poor"`
	CustomerName   string      `json:"customer_name" validate:"required,min=2,max=150"`
	CustomerEmail  string      `json:"customer_email" validate:"required,email"`
	CustomerPhone  string      `json:"customer_phone" validate:"required,min=7,max=20"`
	Comment        null.String `json:"comment,omitempty" validate:"omitempty"`
}

// NotificationResultDTO - итог рассылки уведомлений. Частичный успех
// (дошел хотя бы один канал) заявку не ломает и возвращается клиенту как есть.
type NotificationResultDTO struct {
	SMSSent   bool     `json:"sms_sent"`
	EmailSent bool     `json:"email_sent"`
	Method    string   `json:"method"` // "aggregated" | "direct"
	Errors    []string `json:"errors,omitempty"`
}

type SubmitResultDTO struct {
	TrackingCode string                `json:"tracking_code"`
	Notification NotificationResultDTO `json:"notification"`
}

type StatusUpdateDTO struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type TrackingResponseDTO struct {
	TrackingCode     string            `json:"tracking_code"`
	Kind             string            `json:"kind"`
	DeviceCategory   string            `json:"device_category"`
	Brand            string            `json:"brand"`
	Model            string            `json:"model"`
	IssueOrCondition string            `json:"issue_or_condition"`
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email"`
	CustomerPhone    string            `json:"customer_phone"`
	EstimatedValue   int64             `json:"estimated_value"`
	Status           string            `json:"status"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
	Updates          []StatusUpdateDTO `json:"updates"`
}

type ChangeStatusDTO struct {
	Status  string      `json:"status" validate:"required,oneof=pending confirmed in_progress completed cancelled"`
	Comment null.String `json:"comment,omitempty" validate:"omitempty,min=3"`
}

type RequestListItemDTO struct {
	TrackingCode   string `json:"tracking_code"`
	Kind           string `json:"kind"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Status         string `json:"status"`
	EstimatedValue int64  `json:"estimated_value"`
	CustomerName   string `json:"customer_name"`
	CreatedAt      string `json:"created_at"`
}
