package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// SessionStore puerto de persistencia clave-valor de la sesión de picking,
// indexada por el identificador de la orden. El snapshot completo se guarda
// tras cada mutación (write-through): el Save es el punto de commit efectivo.
type SessionStore interface {
	// Load devuelve la sesión de la orden, o nil (sin error) si no existe.
	Load(ctx context.Context, orderID string) (*entity.PickingSession, error)
	Save(ctx context.Context, session *entity.PickingSession) error
	Delete(ctx context.Context, orderID string) error
}
