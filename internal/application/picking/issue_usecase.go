package picking

import (
	"context"
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	dompicking "github.com/jhoicas/fulfillment-api/internal/domain/picking"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
	"github.com/jhoicas/fulfillment-api/pkg/logger"
)

// IssueUseCase registra y resuelve incidencias de picking. La resolución es en
// dos fases: Plan calcula las instrucciones (ajuste de cantidad o reasignación)
// sin mutar la sesión; Confirm se invoca cuando el sistema de pedidos ya las
// aplicó, y solo entonces la sesión refleja la resolución. Ese orden evita
// registrar una resolución que nunca se ejecutó aguas arriba.
type IssueUseCase struct {
	sessions *SessionUseCase
	store    repository.SessionStore
	binStock repository.BinStockRepository
	log      *logger.Logger
	metrics  Metrics
}

// NewIssueUseCase construye el caso de uso.
func NewIssueUseCase(sessions *SessionUseCase, store repository.SessionStore, binStock repository.BinStockRepository, log *logger.Logger, metrics Metrics) *IssueUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &IssueUseCase{sessions: sessions, store: store, binStock: binStock, log: log, metrics: metrics}
}

// ReportIssue anexa una incidencia sin resolver a la sesión y la persiste.
func (uc *IssueUseCase) ReportIssue(ctx context.Context, orderID string, report dompicking.IssueReport) (*entity.ProductIssue, error) {
	lock := uc.sessions.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	session, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	issue, err := dompicking.ReportIssue(session, report, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.metrics.IssueReported(string(report.Type))
	uc.log.Warn().
		Str("order_id", orderID).
		Str("sku", report.SKU).
		Str("bin", report.BinCode).
		Str("type", string(report.Type)).
		Int("expected", report.ExpectedQuantity).
		Int("found", report.FoundQuantity).
		Msg("incidencia de picking reportada")
	return issue, nil
}

// PlanResolution calcula las instrucciones de resolución sin mutar la sesión.
// Valida las asignaciones contra el stock disponible de cada ubicación
// candidata (las congeladas nunca son válidas).
func (uc *IssueUseCase) PlanResolution(ctx context.Context, orderID, sku, binCode string, allocations []entity.AlternativeBin) (*dompicking.Resolution, error) {
	session, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if err := uc.validateAllocations(ctx, session, sku, binCode, allocations); err != nil {
		return nil, err
	}
	return dompicking.PlanResolution(session, sku, binCode, allocations)
}

// ConfirmResolution marca la incidencia como resuelta y aplica la resolución a
// la sesión, una vez que el colaborador confirmó la ejecución del plan.
func (uc *IssueUseCase) ConfirmResolution(ctx context.Context, orderID, sku, binCode string, allocations []entity.AlternativeBin) (*entity.ProductIssue, *dompicking.Resolution, error) {
	lock := uc.sessions.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	session, err := uc.store.Load(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, domain.ErrSessionNotFound
	}
	if err := uc.validateAllocations(ctx, session, sku, binCode, allocations); err != nil {
		return nil, nil, err
	}

	issue, res, err := dompicking.ApplyResolution(session, sku, binCode, allocations, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := uc.store.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	uc.log.Info().
		Str("order_id", orderID).
		Str("sku", sku).
		Str("bin", binCode).
		Bool("covered", res.Covered).
		Int("alternative_bins", len(allocations)).
		Msg("incidencia de picking resuelta")
	return issue, res, nil
}

// FindCandidates busca ubicaciones candidatas con stock del SKU para el
// diálogo de reasignación. El core nunca inventa candidatas: siempre salen de
// esta búsqueda.
func (uc *IssueUseCase) FindCandidates(ctx context.Context, sku, excludeBin string, limit, offset int) ([]*entity.BinStock, error) {
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.binStock.FindCandidates(ctx, sku, excludeBin, limit, offset)
}

// validateAllocations reconstruye la selección con el allocator de dominio
// sobre las candidatas reales: la selección que acepta el caso de uso es
// exactamente la que el allocator habría permitido. Ubicación desconocida,
// congelada, repetida o con cantidad fuera de [1, disponible] se rechazan con
// el error correspondiente.
func (uc *IssueUseCase) validateAllocations(ctx context.Context, session *entity.PickingSession, sku, binCode string, allocations []entity.AlternativeBin) error {
	if len(allocations) == 0 {
		return nil
	}
	issue := session.OpenIssue(sku, binCode)
	if issue == nil {
		return domain.ErrIssueNotFound
	}
	candidates, err := uc.binStock.FindCandidates(ctx, sku, binCode, len(allocations)+50, 0)
	if err != nil {
		return err
	}
	cands := make([]dompicking.Candidate, len(candidates))
	for i, c := range candidates {
		cands[i] = dompicking.Candidate{
			BinCode:   c.BinCode,
			Available: c.AvailableUnits(),
			IsFrozen:  c.IsFrozen,
		}
	}
	// El faltante real es esperado − encontrado. El allocator admite
	// sobre-asignación; solo necesita un objetivo positivo.
	needed := issue.ExpectedQuantity - issue.FoundQuantity
	if needed < 1 {
		needed = 1
	}
	alloc, err := dompicking.NewAllocator(needed, cands)
	if err != nil {
		return err
	}
	for _, a := range allocations {
		if _, err := alloc.Select(a.Bin); err != nil {
			return err
		}
		applied, clamped, err := alloc.SetQuantity(a.Bin, a.Quantity)
		if err != nil {
			return err
		}
		if clamped || applied != a.Quantity {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
