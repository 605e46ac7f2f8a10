// Package redis implementa el SessionStore sobre Redis: la sesión es un
// contrato clave-valor puro por orden, así que un backend KV sirve igual que
// PostgreSQL. Se elige por configuración (STORE_BACKEND=redis).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

var _ repository.SessionStore = (*SessionStore)(nil)

const keyPrefix = "picking:session:"

// SessionStore snapshots de sesión en Redis, una clave por orden.
// Las sesiones no expiran: el reinicio es una acción explícita del operario y
// la limpieza de sesiones zombi es responsabilidad externa.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore construye el adaptador.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Load devuelve la sesión de la orden, o nil si no existe.
func (r *SessionStore) Load(ctx context.Context, orderID string) (*entity.PickingSession, error) {
	raw, err := r.client.Get(ctx, keyPrefix+orderID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

// Save persiste el snapshot completo de la sesión.
func (r *SessionStore) Save(ctx context.Context, session *entity.PickingSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode picking session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.OrderID, raw, 0).Err(); err != nil {
		return fmt.Errorf("save picking session: %w", err)
	}
	return nil
}

// Delete elimina la sesión de la orden.
func (r *SessionStore) Delete(ctx context.Context, orderID string) error {
	if err := r.client.Del(ctx, keyPrefix+orderID).Err(); err != nil {
		return fmt.Errorf("delete picking session: %w", err)
	}
	return nil
}
