package picking

// Test de caja blanca: observa el mapa interno de locks por orden.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/pkg/logger"
)

type memStore struct {
	data map[string]*entity.PickingSession
}

func (m *memStore) Load(_ context.Context, orderID string) (*entity.PickingSession, error) {
	return m.data[orderID], nil
}

func (m *memStore) Save(_ context.Context, session *entity.PickingSession) error {
	m.data[session.OrderID] = session
	return nil
}

func (m *memStore) Delete(_ context.Context, orderID string) error {
	delete(m.data, orderID)
	return nil
}

func (uc *SessionUseCase) lockCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.locks)
}

func TestReset_PodaElLockDeLaOrden(t *testing.T) {
	store := &memStore{data: make(map[string]*entity.PickingSession)}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := NewSessionUseCase(store, nil, log, nil)
	ctx := context.Background()

	lines := []entity.OrderLineItem{
		{Bin: "A-01", SKU: "SKU-A", ProductName: "Camiseta", RequestedQuantity: 1, LineItemID: "li-1"},
	}
	_, err := uc.CreateSession(ctx, "ORD-1", lines)
	require.NoError(t, err)
	require.Equal(t, 1, uc.lockCount())

	require.NoError(t, uc.Reset(ctx, "ORD-1"))
	assert.Equal(t, 0, uc.lockCount(),
		"reiniciar la orden poda su lock: el mapa no crece sin límite")

	// Una sesión nueva para la misma orden opera con normalidad.
	_, err = uc.CreateSession(ctx, "ORD-1", lines)
	require.NoError(t, err)
	assert.Equal(t, 1, uc.lockCount())
}
