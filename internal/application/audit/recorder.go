package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

// Recorder escribe el audit trail de mutaciones confirmadas. Record es
// fire-and-forget: un fallo al persistir se loguea y no se propaga, para que
// una caída del audit trail nunca tumbe la operación de negocio que lo originó.
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record persiste una entrada del audit trail. Nunca retorna error.
func (r *Recorder) Record(ctx context.Context, userID, action, description string) {
	entry := &entity.AuditLog{
		ID:          uuid.New().String(),
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := r.repo.Create(entry); err != nil {
		r.log.Error().Err(err).
			Str("user_id", userID).
			Str("action", action).
			Msg("No se pudo registrar la entrada del audit trail")
	}
}

// ListUseCase consulta del audit trail para el back office.
type ListUseCase struct {
	repo repository.AuditRepository
}

func NewListUseCase(repo repository.AuditRepository) *ListUseCase {
	return &ListUseCase{repo: repo}
}

// List devuelve entradas del audit trail según el filtro, más recientes primero.
func (uc *ListUseCase) List(ctx context.Context, in dto.AuditListRequest) (*dto.AuditListResponse, error) {
	in.DefaultPage()
	f := repository.AuditFilter{
		UserID: in.UserID,
		Action: in.Action,
		From:   in.From,
		To:     in.To,
	}
	logs, err := uc.repo.List(f, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditListResponse{
		Items: make([]dto.AuditLogResponse, 0, len(logs)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, l := range logs {
		out.Items = append(out.Items, dto.AuditLogResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			Action:      l.Action,
			Description: l.Description,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out, nil
}
