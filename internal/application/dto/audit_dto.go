package dto

import "time"

// AuditListRequest filtros para consultar el audit trail.
type AuditListRequest struct {
	PageRequest
	UserID string     `query:"user_id"`
	Action string     `query:"action"`
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
}

// AuditLogResponse un registro del audit trail.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditListResponse lista paginada del audit trail.
type AuditListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
