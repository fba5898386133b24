package entity

import "time"

// AuditLog es un registro append-only de una mutación confirmada.
type AuditLog struct {
	ID          string
	UserID      string
	Action      string
	Description string
	CreatedAt   time.Time
}
