package dto

import "time"

type UpdateQuotaRequest struct {
	DailyLimit *int       `json:"daily_limit" validate:"omitempty,gte=0"`
	UsedToday  *int       `json:"used_today" validate:"omitempty,gte=0"`
	ResetAt    *time.Time `json:"reset_at"`
}

type QuotaResponse struct {
	DailyLimit int       `json:"daily_limit"`
	UsedToday  int       `json:"used_today"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}
