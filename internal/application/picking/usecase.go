// Package picking casos de uso de la sesión de picking: serialización por
// orden, persistencia write-through y traducción de resultados para la capa
// HTTP. La lógica del agregado vive en internal/domain/picking.
package picking

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	dompicking "github.com/jhoicas/fulfillment-api/internal/domain/picking"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
	"github.com/jhoicas/fulfillment-api/pkg/logger"
)

// SessionUseCase opera la sesión de picking y verificación. Cada operación
// sigue el mismo patrón: lock por orden → load → mutación pura → save.
// No se cachea la sesión en memoria: si el Save falla, el último snapshot
// durable queda intacto y la mutación simplemente no ocurrió.
type SessionUseCase struct {
	store   repository.SessionStore
	sheets  PickSheetGenerator
	log     *logger.Logger
	metrics Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionUseCase construye el caso de uso. metrics puede ser NopMetrics.
func NewSessionUseCase(store repository.SessionStore, sheets PickSheetGenerator, log *logger.Logger, metrics Metrics) *SessionUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &SessionUseCase{
		store:   store,
		sheets:  sheets,
		log:     log,
		metrics: metrics,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockFor devuelve el mutex de la orden, creándolo si no existe. Dos escaneos
// casi simultáneos sobre la misma sesión (doble tap, reintento en carrera) se
// serializan aquí; órdenes distintas no se coordinan entre sí.
func (uc *SessionUseCase) lockFor(orderID string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	l, ok := uc.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		uc.locks[orderID] = l
	}
	return l
}

// CreateSession materializa la sesión desde las líneas de la orden y la persiste.
func (uc *SessionUseCase) CreateSession(ctx context.Context, orderID string, lines []entity.OrderLineItem) (*entity.PickingSession, error) {
	lock := uc.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSessionExists
	}

	session, err := dompicking.NewSession(orderID, lines, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, session); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", orderID).
		Int("bins", len(session.BinsToProcess)).
		Msg("sesión de picking creada")
	return session, nil
}

// Get devuelve el snapshot de la sesión (para retomar la operación en el cliente).
func (uc *SessionUseCase) Get(ctx context.Context, orderID string) (*entity.PickingSession, error) {
	session, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Reset elimina la sesión (reinicio explícito del operario). El agregado nunca
// se borra parcialmente: o existe completo o no existe.
func (uc *SessionUseCase) Reset(ctx context.Context, orderID string) error {
	lock := uc.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	session, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrSessionNotFound
	}
	if err := uc.store.Delete(ctx, orderID); err != nil {
		return err
	}
	// Se poda la entrada del mapa de locks para que no crezca sin límite en un
	// proceso de larga vida. Un rezagado aún serializado en el mutex viejo solo
	// puede observar la sesión inexistente.
	uc.mu.Lock()
	delete(uc.locks, orderID)
	uc.mu.Unlock()
	uc.log.Info().Str("order_id", orderID).Msg("sesión de picking reiniciada")
	return nil
}

// ScanBin escanea el código de la ubicación bajo el cursor.
func (uc *SessionUseCase) ScanBin(ctx context.Context, orderID, code string) (*entity.PickingSession, dompicking.ScanOutcome, error) {
	session, out, err := uc.mutate(ctx, orderID, func(s *entity.PickingSession) (dompicking.ScanOutcome, error) {
		return dompicking.ScanBin(s, code)
	})
	// Los contadores se registran después del punto de commit: un escaneo cuyo
	// Save falló no ocurrió.
	if err == nil {
		uc.metrics.ScanResult(string(out.Code))
	}
	return session, out, err
}

// ScanProduct escanea una unidad física de un SKU en la ubicación actual.
func (uc *SessionUseCase) ScanProduct(ctx context.Context, orderID, sku string) (*entity.PickingSession, dompicking.ScanOutcome, error) {
	session, out, err := uc.mutate(ctx, orderID, func(s *entity.PickingSession) (dompicking.ScanOutcome, error) {
		return dompicking.ScanProduct(s, sku, time.Now())
	})
	if err == nil {
		uc.metrics.ScanResult(string(out.Code))
	}
	return session, out, err
}

// MoveToNextBin avanza el cursor tras completar la ubicación actual.
func (uc *SessionUseCase) MoveToNextBin(ctx context.Context, orderID string) (*entity.PickingSession, dompicking.ScanOutcome, error) {
	return uc.mutate(ctx, orderID, func(s *entity.PickingSession) (dompicking.ScanOutcome, error) {
		return dompicking.MoveToNextBin(s)
	})
}

// StartVerification inicia el segundo pase de verificación.
func (uc *SessionUseCase) StartVerification(ctx context.Context, orderID string) (*entity.PickingSession, error) {
	session, _, err := uc.mutate(ctx, orderID, func(s *entity.PickingSession) (dompicking.ScanOutcome, error) {
		if err := dompicking.StartVerification(s, time.Now()); err != nil {
			return dompicking.ScanOutcome{}, err
		}
		return dompicking.ScanOutcome{Code: dompicking.OutcomeOK}, nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Msg("verificación iniciada")
	return session, nil
}

// ScanForVerification escanea una unidad contra el agregado de verificación.
func (uc *SessionUseCase) ScanForVerification(ctx context.Context, orderID, sku string) (*entity.PickingSession, dompicking.ScanOutcome, error) {
	session, out, err := uc.mutate(ctx, orderID, func(s *entity.PickingSession) (dompicking.ScanOutcome, error) {
		return dompicking.ScanForVerification(s, sku, time.Now())
	})
	if err != nil {
		return session, out, err
	}
	uc.metrics.VerificationScanResult(string(out.Code))
	if out.VerificationCompleted {
		uc.metrics.SessionCompleted()
		uc.log.Info().Str("order_id", orderID).Msg("orden verificada y completada")
	}
	return session, out, err
}

// PickSheet genera la hoja de ruta imprimible de la sesión.
func (uc *SessionUseCase) PickSheet(ctx context.Context, orderID string) ([]byte, error) {
	session, err := uc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.sheets.GeneratePickSheet(ctx, session)
}

// mutate patrón común: lock por orden, load, operación pura y save solo si
// hubo mutación. Un fallo del Save hace fallar la operación completa; el
// snapshot durable anterior sigue siendo el estado efectivo de la sesión.
func (uc *SessionUseCase) mutate(ctx context.Context, orderID string, fn func(*entity.PickingSession) (dompicking.ScanOutcome, error)) (*entity.PickingSession, dompicking.ScanOutcome, error) {
	lock := uc.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	session, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return nil, dompicking.ScanOutcome{}, err
	}
	if session == nil {
		return nil, dompicking.ScanOutcome{}, domain.ErrSessionNotFound
	}

	out, err := fn(session)
	if err != nil {
		return nil, dompicking.ScanOutcome{}, err
	}
	if out.Mutated() {
		if err := uc.store.Save(ctx, session); err != nil {
			return nil, dompicking.ScanOutcome{}, err
		}
	}
	return session, out, nil
}
