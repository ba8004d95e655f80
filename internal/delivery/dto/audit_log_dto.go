package dto

import (
	"time"

	"longa/internal/domain/entity"
)

// Request DTOs

type ListAuditLogsRequest struct {
	Action   string `validate:"omitempty,max=100"`
	EntityID string `validate:"omitempty,max=100"`
	Limit    int    `validate:"omitempty,min=1,max=1000"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
