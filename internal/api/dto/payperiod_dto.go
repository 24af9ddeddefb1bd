package dto

import "time"

// ConfirmPayPeriodRequest payload.
type ConfirmPayPeriodRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// PayPeriodResponse describes one confirmed period.
type PayPeriodResponse struct {
	ID          string    `json:"id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	ConfirmedBy string    `json:"confirmed_by"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// PayPeriodStatusResponse reports whether a window is locked.
type PayPeriodStatusResponse struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Confirmed bool               `json:"confirmed"`
	PayPeriod *PayPeriodResponse `json:"pay_period,omitempty"`
}
