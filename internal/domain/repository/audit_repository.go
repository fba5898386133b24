package repository

import (
	"time"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// AuditFilter criterios opcionales para consultar el audit trail.
type AuditFilter struct {
	UserID string
	Action string
	From   *time.Time
	To     *time.Time
}

// AuditRepository puerto append-only para el audit trail.
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	List(f AuditFilter, limit, offset int) ([]*entity.AuditLog, error)
}
