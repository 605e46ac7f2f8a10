package picking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// IssueReport datos para registrar una incidencia de picking.
type IssueReport struct {
	SKU              string
	ProductName      string
	BinCode          string
	Type             entity.IssueType
	ExpectedQuantity int
	FoundQuantity    int
}

// QuantityAdjustment instrucción de ajuste de cantidad para el sistema de
// pedidos (cumplimiento parcial). El core solo produce la intención; aplicarla
// es trabajo del colaborador.
type QuantityAdjustment struct {
	SKU         string `json:"sku"`
	LineItemID  string `json:"line_item_id,omitempty"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// Resolution plan de resolución de una incidencia: las instrucciones que el
// sistema externo debe ejecutar antes de confirmar contra la sesión.
type Resolution struct {
	SKU     string `json:"sku"`
	BinCode string `json:"bin_code"`
	// Covered: lo encontrado más lo asignado cubre la cantidad esperada.
	Covered bool `json:"covered"`
	// Reassignments reasignación a ubicaciones alternativas (vacío si no hay asignaciones).
	Reassignments []entity.AlternativeBin `json:"reassignments,omitempty"`
	// Adjustment ajuste de cantidad; solo cuando no se cubre la cantidad esperada.
	Adjustment *QuantityAdjustment `json:"adjustment,omitempty"`
}

// ReportIssue anexa una incidencia sin resolver. Es un append puro: no toca
// cantidades recogidas. Pueden coexistir incidencias abiertas de SKUs
// distintos, pero no dos abiertas para el mismo (sku, bin).
func ReportIssue(s *entity.PickingSession, report IssueReport, now time.Time) (*entity.ProductIssue, error) {
	if report.SKU == "" || report.BinCode == "" {
		return nil, domain.ErrInvalidInput
	}
	switch report.Type {
	case entity.IssueNotFound, entity.IssueInsufficient, entity.IssueRelocated:
	default:
		return nil, domain.ErrInvalidInput
	}
	if report.FoundQuantity < 0 || report.ExpectedQuantity <= 0 || report.FoundQuantity > report.ExpectedQuantity {
		return nil, domain.ErrInvalidInput
	}
	if s.OpenIssue(report.SKU, report.BinCode) != nil {
		return nil, domain.ErrInvalidInput
	}

	s.Issues = append(s.Issues, entity.ProductIssue{
		ID:               uuid.New().String(),
		SKU:              report.SKU,
		ProductName:      report.ProductName,
		BinCode:          report.BinCode,
		Type:             report.Type,
		ExpectedQuantity: report.ExpectedQuantity,
		FoundQuantity:    report.FoundQuantity,
		ReportedAt:       now,
	})
	return &s.Issues[len(s.Issues)-1], nil
}

// PlanResolution calcula las instrucciones de una resolución sin mutar la
// sesión. Regla de umbral: si encontrado + asignado < esperado, la acción
// correcta es ajustar a la baja la cantidad de la orden (cumplimiento
// parcial); si lo cubre, se reasigna a las ubicaciones alternativas y la
// cantidad de la orden no cambia.
func PlanResolution(s *entity.PickingSession, sku, binCode string, allocations []entity.AlternativeBin) (*Resolution, error) {
	issue := s.OpenIssue(sku, binCode)
	if issue == nil {
		return nil, domain.ErrIssueNotFound
	}
	for _, a := range allocations {
		if a.Bin == "" || a.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		// La ubicación origen no es alternativa de sí misma.
		if a.Bin == binCode {
			return nil, domain.ErrInvalidInput
		}
		// Una parada ya completada no recibe más recogidas: anexar otra con el
		// mismo código rompería la unicidad de binCode en la ruta.
		if completedStop(s, a.Bin) {
			return nil, domain.ErrBinNotCandidate
		}
	}

	allocated := 0
	for _, a := range allocations {
		allocated += a.Quantity
	}
	covered := issue.FoundQuantity+allocated >= issue.ExpectedQuantity

	res := &Resolution{
		SKU:           sku,
		BinCode:       binCode,
		Covered:       covered,
		Reassignments: allocations,
	}
	if !covered {
		newQty := issue.FoundQuantity + allocated
		res.Adjustment = &QuantityAdjustment{
			SKU:         sku,
			LineItemID:  lineItemIDFor(s, sku, binCode),
			NewQuantity: newQty,
			Reason: fmt.Sprintf("stock insuficiente en %s: esperado %d, disponible %d",
				binCode, issue.ExpectedQuantity, newQty),
		}
	}
	return res, nil
}

// ApplyResolution marca la incidencia como resuelta y traslada la resolución al
// estado de la sesión. Se invoca solo después de que el colaborador confirmó
// las instrucciones; una incidencia resuelta no se reabre, por lo que resolver
// dos veces el mismo (sku, bin) devuelve ErrIssueNotFound sin duplicar nada.
//
// Efectos sobre la ruta:
//   - el ítem de la ubicación origen baja su RequestedQuantity a lo encontrado
//     (nunca por debajo de lo ya escaneado);
//   - cada asignación alternativa anexa o amplía una ubicación pendiente al
//     final de la ruta (anexar no reordena la ruta fijada al crear la sesión);
//   - si con esto la ubicación actual queda satisfecha, se completa sin exigir
//     un escaneo redundante.
func ApplyResolution(s *entity.PickingSession, sku, binCode string, allocations []entity.AlternativeBin, now time.Time) (*entity.ProductIssue, *Resolution, error) {
	switch s.Status {
	case entity.StatusPickingCompleted, entity.StatusVerificationMode, entity.StatusVerificationCompleted:
		return nil, nil, domain.ErrInvalidTransition
	}

	res, err := PlanResolution(s, sku, binCode, allocations)
	if err != nil {
		return nil, nil, err
	}
	issue := s.OpenIssue(sku, binCode)

	issue.AlternativeBins = allocations
	issue.Resolved = true
	t := now
	issue.ResolvedAt = &t

	adjustHomeItem(s, sku, binCode, issue.FoundQuantity)
	for _, a := range allocations {
		appendAllocation(s, sku, binCode, a)
	}
	recheckCurrentBin(s, now)

	return issue, res, nil
}

// adjustHomeItem baja la cantidad solicitada del ítem en su ubicación origen a
// lo encontrado. La instrucción de ajuste promete FoundQuantity + asignado
// aguas arriba: las unidades encontradas pero aún no escaneadas siguen
// pendientes de recoger, por eso el piso es max(escaneado, encontrado) y el
// techo lo solicitado original. Mantiene el invariante scanned ≤ requested.
func adjustHomeItem(s *entity.PickingSession, sku, binCode string, found int) {
	for b := range s.BinsToProcess {
		bin := &s.BinsToProcess[b]
		if bin.BinCode != binCode {
			continue
		}
		for i := range bin.Items {
			item := &bin.Items[i]
			if item.SKU != sku {
				continue
			}
			newQty := item.ScannedQuantity
			if found > newQty {
				newQty = found
			}
			if newQty > item.RequestedQuantity {
				newQty = item.RequestedQuantity
			}
			item.RequestedQuantity = newQty
			item.IsScanned = item.ScannedQuantity >= item.RequestedQuantity
			return
		}
	}
}

// appendAllocation amplía una ubicación pendiente con el mismo código
// (incluida la actual), o anexa una nueva al final de la ruta. binCode es único
// en la sesión: las paradas completadas se rechazan al planificar, así que aquí
// cualquier código repetido corresponde a una parada aún abierta.
func appendAllocation(s *entity.PickingSession, sku, homeBin string, alloc entity.AlternativeBin) {
	name, variant, lineItemID := itemDetailsFor(s, sku, homeBin)
	item := entity.BinPickingItem{
		SKU:               sku,
		ProductName:       name,
		Variant:           variant,
		LineItemID:        lineItemID,
		RequestedQuantity: alloc.Quantity,
	}
	for b := range s.BinsToProcess {
		bin := &s.BinsToProcess[b]
		if bin.BinCode != alloc.Bin || bin.IsCompleted {
			continue
		}
		bin.Items = append(bin.Items, item)
		return
	}
	s.BinsToProcess = append(s.BinsToProcess, entity.BinPickingData{
		BinCode: alloc.Bin,
		Items:   []entity.BinPickingItem{item},
	})
}

// completedStop indica si el código corresponde a una parada ya completada de
// la ruta.
func completedStop(s *entity.PickingSession, binCode string) bool {
	for i := range s.BinsToProcess {
		if s.BinsToProcess[i].BinCode == binCode && s.BinsToProcess[i].IsCompleted {
			return true
		}
	}
	return false
}

// recheckCurrentBin: tras una resolución la ubicación actual puede haber
// quedado satisfecha (p. ej. cantidad ajustada a lo ya escaneado); en ese caso
// se completa sin exigir otro escaneo. Aplica también en WAITING_FOR_BIN: una
// ubicación sin nada pendiente dejaría la sesión bloqueada, porque ScanProduct
// no tendría ningún ítem que incrementar.
func recheckCurrentBin(s *entity.PickingSession, now time.Time) {
	if s.Status != entity.StatusWaitingForProducts && s.Status != entity.StatusWaitingForBin {
		return
	}
	bin := s.CurrentBin()
	if bin == nil || bin.IsCompleted || !binSatisfied(bin) {
		return
	}
	completeBin(bin, now)
	s.Status = entity.StatusBinCompleted
}

func lineItemIDFor(s *entity.PickingSession, sku, binCode string) string {
	_, _, id := itemDetailsFor(s, sku, binCode)
	return id
}

func itemDetailsFor(s *entity.PickingSession, sku, binCode string) (name, variant, lineItemID string) {
	for _, bin := range s.BinsToProcess {
		if bin.BinCode != binCode {
			continue
		}
		for _, item := range bin.Items {
			if item.SKU == sku {
				return item.ProductName, item.Variant, item.LineItemID
			}
		}
	}
	return "", "", ""
}
