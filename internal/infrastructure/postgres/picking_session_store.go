package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.SessionStore = (*PickingSessionStore)(nil)

// PickingSessionStore implementación del puerto SessionStore sobre PostgreSQL.
// El snapshot completo de la sesión se guarda como JSONB en una fila por
// orden; status y updated_at se materializan como columnas para poder
// consultar sesiones en curso sin deserializar.
//
// Tabla esperada:
//
//	CREATE TABLE picking_sessions (
//	    order_id   TEXT PRIMARY KEY,
//	    status     TEXT NOT NULL,
//	    snapshot   JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PickingSessionStore struct {
	pool *pgxpool.Pool
}

// NewPickingSessionStore construye el adaptador de persistencia de sesiones.
func NewPickingSessionStore(pool *pgxpool.Pool) *PickingSessionStore {
	return &PickingSessionStore{pool: pool}
}

// Load devuelve la sesión de la orden, o nil si no existe.
func (r *PickingSessionStore) Load(ctx context.Context, orderID string) (*entity.PickingSession, error) {
	query := `SELECT snapshot FROM picking_sessions WHERE order_id = $1`
	var raw []byte
	err := r.pool.QueryRow(ctx, query, orderID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load picking session: %w", err)
	}
	var session entity.PickingSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode picking session: %w", err)
	}
	return &session, nil
}

// Save persiste el snapshot completo (upsert). Es el punto de commit de cada
// mutación: si falla, la operación que lo disparó falla completa.
func (r *PickingSessionStore) Save(ctx context.Context, session *entity.PickingSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode picking session: %w", err)
	}
	query := `
		INSERT INTO picking_sessions (order_id, status, snapshot, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (order_id)
		DO UPDATE SET status = EXCLUDED.status, snapshot = EXCLUDED.snapshot, updated_at = now()`
	if _, err := r.pool.Exec(ctx, query, session.OrderID, string(session.Status), raw); err != nil {
		return fmt.Errorf("save picking session: %w", err)
	}
	return nil
}

// Delete elimina la sesión de la orden (reinicio explícito).
func (r *PickingSessionStore) Delete(ctx context.Context, orderID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM picking_sessions WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete picking session: %w", err)
	}
	return nil
}
