// Package picking implementa el motor puro de la sesión de picking:
// cada operación toma el agregado, lo muta y devuelve un resultado etiquetado.
// El bloqueo por sesión y la persistencia write-through viven en la capa de
// aplicación; aquí no hay estado global ni efectos.
package picking

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// OutcomeCode etiqueta del resultado de un escaneo.
type OutcomeCode string

const (
	OutcomeOK               OutcomeCode = "OK"
	OutcomeWrongBin         OutcomeCode = "WRONG_BIN"
	OutcomeNotInBin         OutcomeCode = "NOT_IN_BIN"
	OutcomeAlreadyFulfilled OutcomeCode = "ALREADY_FULFILLED"
)

// ScanOutcome resultado de una operación de escaneo. Los desajustes
// (WrongBin, NotInBin, AlreadyFulfilled) son recuperables: la sesión no cambia
// y el operario reintenta. Los flags indican transiciones alcanzadas en este
// mismo escaneo.
type ScanOutcome struct {
	Code                  OutcomeCode
	ExpectedBin           string // solo en WrongBin
	ScannedBin            string // solo en WrongBin
	SKU                   string
	BinCompleted          bool
	PickingCompleted      bool
	VerificationCompleted bool
}

// Mutated indica si la operación modificó la sesión (y por tanto debe persistirse).
func (o ScanOutcome) Mutated() bool { return o.Code == OutcomeOK }

// NewSession materializa la sesión a partir de las líneas de la orden,
// agrupándolas por ubicación en su orden natural de aparición. Ese orden ES la
// ruta de picking y no se reordena después.
func NewSession(orderID string, lines []entity.OrderLineItem, now time.Time) (*entity.PickingSession, error) {
	if orderID == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	binIndex := make(map[string]int)
	var bins []entity.BinPickingData
	for _, line := range lines {
		if line.Bin == "" || line.SKU == "" || line.RequestedQuantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		idx, ok := binIndex[line.Bin]
		if !ok {
			idx = len(bins)
			binIndex[line.Bin] = idx
			bins = append(bins, entity.BinPickingData{BinCode: line.Bin})
		}
		bins[idx].Items = append(bins[idx].Items, entity.BinPickingItem{
			SKU:               line.SKU,
			ProductName:       line.ProductName,
			Variant:           line.Variant,
			LineItemID:        line.LineItemID,
			RequestedQuantity: line.RequestedQuantity,
		})
	}

	return &entity.PickingSession{
		ID:              uuid.New().String(),
		OrderID:         orderID,
		Status:          entity.StatusWaitingForBin,
		BinsToProcess:   bins,
		CurrentBinIndex: 0,
		StartedAt:       now,
	}, nil
}

// ScanBin compara el código escaneado contra la ubicación bajo el cursor
// (comparación exacta, sensible a mayúsculas, tal como llega del lector).
// En desajuste devuelve WrongBin con ambos códigos y no cambia el estado.
func ScanBin(s *entity.PickingSession, code string) (ScanOutcome, error) {
	if s.Status != entity.StatusWaitingForBin {
		return ScanOutcome{}, domain.ErrInvalidTransition
	}
	bin := s.CurrentBin()
	if bin == nil {
		return ScanOutcome{}, domain.ErrInvalidTransition
	}
	if code != bin.BinCode {
		return ScanOutcome{Code: OutcomeWrongBin, ExpectedBin: bin.BinCode, ScannedBin: code}, nil
	}
	s.Status = entity.StatusWaitingForProducts
	return ScanOutcome{Code: OutcomeOK, ScannedBin: code}, nil
}

// ScanProduct registra exactamente una unidad física del SKU en la ubicación
// actual. Sobre-escanear un ítem ya completo se rechaza (AlreadyFulfilled), no
// se ignora en silencio. Si con esta unidad la ubicación queda completa, la
// marca y pasa a BIN_COMPLETED; el cursor no avanza solo.
func ScanProduct(s *entity.PickingSession, sku string, now time.Time) (ScanOutcome, error) {
	if s.Status != entity.StatusWaitingForProducts {
		return ScanOutcome{}, domain.ErrInvalidTransition
	}
	bin := s.CurrentBin()
	if bin == nil {
		return ScanOutcome{}, domain.ErrInvalidTransition
	}

	var target *entity.BinPickingItem
	seen := false
	for i := range bin.Items {
		item := &bin.Items[i]
		if item.SKU != sku {
			continue
		}
		seen = true
		if item.ScannedQuantity < item.RequestedQuantity {
			target = item
			break
		}
	}
	if target == nil {
		if seen {
			return ScanOutcome{Code: OutcomeAlreadyFulfilled, SKU: sku}, nil
		}
		return ScanOutcome{Code: OutcomeNotInBin, SKU: sku}, nil
	}

	target.ScannedQuantity++
	target.IsScanned = target.ScannedQuantity >= target.RequestedQuantity
	bin.ScannedItems = append(bin.ScannedItems, entity.ScannedItem{
		ID:        uuid.New().String(),
		SKU:       sku,
		ScannedAt: now,
	})

	out := ScanOutcome{Code: OutcomeOK, SKU: sku}
	if binSatisfied(bin) {
		completeBin(bin, now)
		s.Status = entity.StatusBinCompleted
		out.BinCompleted = true
	}
	return out, nil
}

// MoveToNextBin avanza el cursor tras revisar una ubicación completa. Es una
// acción explícita del operario, separada del escaneo. Si no quedan
// ubicaciones, la fase de picking termina y queda pendiente la verificación.
func MoveToNextBin(s *entity.PickingSession) (ScanOutcome, error) {
	if s.Status != entity.StatusBinCompleted {
		return ScanOutcome{}, domain.ErrInvalidTransition
	}
	if s.CurrentBinIndex+1 < len(s.BinsToProcess) {
		s.CurrentBinIndex++
		s.Status = entity.StatusWaitingForBin
		return ScanOutcome{Code: OutcomeOK}, nil
	}
	s.CurrentBinIndex = len(s.BinsToProcess)
	s.Status = entity.StatusPickingCompleted
	return ScanOutcome{Code: OutcomeOK, PickingCompleted: true}, nil
}

// binSatisfied: todos los ítems de la ubicación alcanzaron su cantidad solicitada.
func binSatisfied(bin *entity.BinPickingData) bool {
	for i := range bin.Items {
		if !bin.Items[i].IsScanned {
			return false
		}
	}
	return true
}

func completeBin(bin *entity.BinPickingData, now time.Time) {
	bin.IsCompleted = true
	t := now
	bin.CompletedAt = &t
}
