package picking

import (
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// StartVerification construye los agregados por SKU y entra en modo
// verificación. Los totales se rederivan de RequestedQuantity ubicación por
// ubicación: la verificación es un control independiente contra lo que pide la
// orden, no una repetición del log de escaneos del picking.
func StartVerification(s *entity.PickingSession, now time.Time) error {
	if s.Status != entity.StatusPickingCompleted {
		return domain.ErrInvalidTransition
	}

	skuIndex := make(map[string]int)
	var items []entity.VerificationItem
	for _, bin := range s.BinsToProcess {
		for _, item := range bin.Items {
			idx, ok := skuIndex[item.SKU]
			if !ok {
				idx = len(items)
				skuIndex[item.SKU] = idx
				items = append(items, entity.VerificationItem{
					SKU:         item.SKU,
					ProductName: item.ProductName,
				})
			}
			items[idx].TotalQuantity += item.RequestedQuantity
			items[idx].IsVerified = items[idx].VerifiedQuantity >= items[idx].TotalQuantity
		}
	}

	s.VerificationItems = items
	s.Status = entity.StatusVerificationMode
	t := now
	s.VerificationStartedAt = &t
	return nil
}

// ScanForVerification registra una unidad del SKU contra el agregado de
// verificación, con la misma semántica de una-unidad-por-escaneo y los mismos
// desajustes que ScanProduct. Una unidad correcta recogida de la ubicación
// equivocada sigue contando: la verificación confirma el total por SKU,
// desacoplado de la ubicación de origen. Cuando todos los agregados quedan
// verificados, la sesión termina.
func ScanForVerification(s *entity.PickingSession, sku string, now time.Time) (ScanOutcome, error) {
	if s.Status != entity.StatusVerificationMode {
		return ScanOutcome{}, domain.ErrInvalidTransition
	}

	var target *entity.VerificationItem
	seen := false
	for i := range s.VerificationItems {
		item := &s.VerificationItems[i]
		if item.SKU != sku {
			continue
		}
		seen = true
		if item.VerifiedQuantity < item.TotalQuantity {
			target = item
		}
		break
	}
	if target == nil {
		if seen {
			return ScanOutcome{Code: OutcomeAlreadyFulfilled, SKU: sku}, nil
		}
		return ScanOutcome{Code: OutcomeNotInBin, SKU: sku}, nil
	}

	target.VerifiedQuantity++
	target.IsVerified = target.VerifiedQuantity >= target.TotalQuantity

	out := ScanOutcome{Code: OutcomeOK, SKU: sku}
	if allVerified(s.VerificationItems) {
		s.Status = entity.StatusVerificationCompleted
		t := now
		s.VerificationCompletedAt = &t
		s.CompletedAt = &t
		out.VerificationCompleted = true
	}
	return out, nil
}

func allVerified(items []entity.VerificationItem) bool {
	for i := range items {
		if !items[i].IsVerified {
			return false
		}
	}
	return true
}
