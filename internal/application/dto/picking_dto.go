package dto

import (
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/picking"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// OrderLineItemRequest línea de la orden para crear la sesión.
type OrderLineItemRequest struct {
	Bin               string `json:"bin"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	Variant           string `json:"variant,omitempty"`
	RequestedQuantity int    `json:"requested_quantity"`
	LineItemID        string `json:"line_item_id"`
}

// CreateSessionRequest crea la sesión de picking de una orden.
type CreateSessionRequest struct {
	OrderID   string                 `json:"order_id"`
	LineItems []OrderLineItemRequest `json:"line_items"`
}

// ScanBinRequest escaneo del código de una ubicación.
type ScanBinRequest struct {
	Code string `json:"code"`
}

// ScanProductRequest escaneo de una unidad de un SKU.
type ScanProductRequest struct {
	SKU string `json:"sku"`
}

// ReportIssueRequest reporte de incidencia en la ubicación actual.
type ReportIssueRequest struct {
	SKU              string `json:"sku"`
	ProductName      string `json:"product_name"`
	BinCode          string `json:"bin_code"`
	IssueType        string `json:"issue_type"` // not_found | insufficient | relocated
	ExpectedQuantity int    `json:"expected_quantity"`
	FoundQuantity    int    `json:"found_quantity"`
}

// AlternativeBinRequest asignación de cantidad a una ubicación alternativa.
type AlternativeBinRequest struct {
	Bin      string `json:"bin"`
	Quantity int    `json:"quantity"`
}

// ResolveIssueRequest resolución de una incidencia (plan y confirmación usan el
// mismo cuerpo; el plan no muta la sesión).
type ResolveIssueRequest struct {
	SKU             string                  `json:"sku"`
	BinCode         string                  `json:"bin_code"`
	AlternativeBins []AlternativeBinRequest `json:"alternative_bins"`
}

// Allocations convierte las asignaciones del request al tipo de dominio.
func (r ResolveIssueRequest) Allocations() []entity.AlternativeBin {
	if len(r.AlternativeBins) == 0 {
		return nil
	}
	out := make([]entity.AlternativeBin, len(r.AlternativeBins))
	for i, a := range r.AlternativeBins {
		out[i] = entity.AlternativeBin{Bin: a.Bin, Quantity: a.Quantity}
	}
	return out
}

// ── Responses ─────────────────────────────────────────────────────────────────

// BinItemResponse ítem de una ubicación en la ruta.
type BinItemResponse struct {
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	Variant           string `json:"variant,omitempty"`
	LineItemID        string `json:"line_item_id"`
	RequestedQuantity int    `json:"requested_quantity"`
	ScannedQuantity   int    `json:"scanned_quantity"`
	IsScanned         bool   `json:"is_scanned"`
}

// BinResponse ubicación de la ruta con sus ítems.
type BinResponse struct {
	BinCode     string            `json:"bin_code"`
	Items       []BinItemResponse `json:"items"`
	IsCompleted bool              `json:"is_completed"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	ScannedLog  int               `json:"scanned_log"` // entradas del log de auditoría
}

// IssueResponse incidencia registrada.
type IssueResponse struct {
	ID               string                  `json:"id"`
	SKU              string                  `json:"sku"`
	ProductName      string                  `json:"product_name,omitempty"`
	BinCode          string                  `json:"bin_code"`
	IssueType        string                  `json:"issue_type"`
	ExpectedQuantity int                     `json:"expected_quantity"`
	FoundQuantity    int                     `json:"found_quantity"`
	AlternativeBins  []AlternativeBinRequest `json:"alternative_bins,omitempty"`
	Resolved         bool                    `json:"resolved"`
	ReportedAt       time.Time               `json:"reported_at"`
	ResolvedAt       *time.Time              `json:"resolved_at,omitempty"`
}

// VerificationItemResponse agregado por SKU del pase de verificación.
type VerificationItemResponse struct {
	SKU              string `json:"sku"`
	ProductName      string `json:"product_name"`
	TotalQuantity    int    `json:"total_quantity"`
	VerifiedQuantity int    `json:"verified_quantity"`
	IsVerified       bool   `json:"is_verified"`
}

// SessionResponse snapshot completo de la sesión para el cliente.
type SessionResponse struct {
	ID                      string                     `json:"id"`
	OrderID                 string                     `json:"order_id"`
	Status                  string                     `json:"status"`
	Bins                    []BinResponse              `json:"bins"`
	CurrentBinIndex         int                        `json:"current_bin_index"`
	Issues                  []IssueResponse            `json:"issues,omitempty"`
	VerificationItems       []VerificationItemResponse `json:"verification_items,omitempty"`
	StartedAt               time.Time                  `json:"started_at"`
	CompletedAt             *time.Time                 `json:"completed_at,omitempty"`
	VerificationStartedAt   *time.Time                 `json:"verification_started_at,omitempty"`
	VerificationCompletedAt *time.Time                 `json:"verification_completed_at,omitempty"`
}

// ScanResultResponse resultado de un escaneo más el snapshot resultante.
type ScanResultResponse struct {
	Outcome               string          `json:"outcome"`
	ExpectedBin           string          `json:"expected_bin,omitempty"`
	ScannedBin            string          `json:"scanned_bin,omitempty"`
	SKU                   string          `json:"sku,omitempty"`
	BinCompleted          bool            `json:"bin_completed,omitempty"`
	PickingCompleted      bool            `json:"picking_completed,omitempty"`
	VerificationCompleted bool            `json:"verification_completed,omitempty"`
	Session               SessionResponse `json:"session"`
}

// AdjustmentResponse instrucción de ajuste de cantidad para el sistema de pedidos.
type AdjustmentResponse struct {
	SKU         string `json:"sku"`
	LineItemID  string `json:"line_item_id,omitempty"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// ResolutionResponse instrucciones de resolución de una incidencia.
type ResolutionResponse struct {
	SKU           string                  `json:"sku"`
	BinCode       string                  `json:"bin_code"`
	Covered       bool                    `json:"covered"`
	Reassignments []AlternativeBinRequest `json:"reassignments,omitempty"`
	Adjustment    *AdjustmentResponse     `json:"adjustment,omitempty"`
}

// BinCandidateResponse ubicación candidata para reasignación.
type BinCandidateResponse struct {
	BinCode        string `json:"bin_code"`
	SKU            string `json:"sku"`
	Available      string `json:"available"`
	AvailableUnits int    `json:"available_units"`
	IsFrozen       bool   `json:"is_frozen"`
}

// ── Mappers ───────────────────────────────────────────────────────────────────

// ToLineItems convierte las líneas del request al tipo de dominio.
func ToLineItems(in []OrderLineItemRequest) []entity.OrderLineItem {
	out := make([]entity.OrderLineItem, len(in))
	for i, l := range in {
		out[i] = entity.OrderLineItem{
			Bin:               l.Bin,
			SKU:               l.SKU,
			ProductName:       l.ProductName,
			Variant:           l.Variant,
			RequestedQuantity: l.RequestedQuantity,
			LineItemID:        l.LineItemID,
		}
	}
	return out
}

// ToSessionResponse mapea el agregado al DTO de respuesta.
func ToSessionResponse(s *entity.PickingSession) SessionResponse {
	bins := make([]BinResponse, len(s.BinsToProcess))
	for i, bin := range s.BinsToProcess {
		items := make([]BinItemResponse, len(bin.Items))
		for j, item := range bin.Items {
			items[j] = BinItemResponse{
				SKU:               item.SKU,
				ProductName:       item.ProductName,
				Variant:           item.Variant,
				LineItemID:        item.LineItemID,
				RequestedQuantity: item.RequestedQuantity,
				ScannedQuantity:   item.ScannedQuantity,
				IsScanned:         item.IsScanned,
			}
		}
		bins[i] = BinResponse{
			BinCode:     bin.BinCode,
			Items:       items,
			IsCompleted: bin.IsCompleted,
			CompletedAt: bin.CompletedAt,
			ScannedLog:  len(bin.ScannedItems),
		}
	}

	var issues []IssueResponse
	for i := range s.Issues {
		issues = append(issues, ToIssueResponse(&s.Issues[i]))
	}

	var verification []VerificationItemResponse
	for _, v := range s.VerificationItems {
		verification = append(verification, VerificationItemResponse{
			SKU:              v.SKU,
			ProductName:      v.ProductName,
			TotalQuantity:    v.TotalQuantity,
			VerifiedQuantity: v.VerifiedQuantity,
			IsVerified:       v.IsVerified,
		})
	}

	return SessionResponse{
		ID:                      s.ID,
		OrderID:                 s.OrderID,
		Status:                  string(s.Status),
		Bins:                    bins,
		CurrentBinIndex:         s.CurrentBinIndex,
		Issues:                  issues,
		VerificationItems:       verification,
		StartedAt:               s.StartedAt,
		CompletedAt:             s.CompletedAt,
		VerificationStartedAt:   s.VerificationStartedAt,
		VerificationCompletedAt: s.VerificationCompletedAt,
	}
}

// ToScanResultResponse mapea el resultado de un escaneo y la sesión resultante.
func ToScanResultResponse(out picking.ScanOutcome, s *entity.PickingSession) ScanResultResponse {
	return ScanResultResponse{
		Outcome:               string(out.Code),
		ExpectedBin:           out.ExpectedBin,
		ScannedBin:            out.ScannedBin,
		SKU:                   out.SKU,
		BinCompleted:          out.BinCompleted,
		PickingCompleted:      out.PickingCompleted,
		VerificationCompleted: out.VerificationCompleted,
		Session:               ToSessionResponse(s),
	}
}

// ToIssueResponse mapea una incidencia.
func ToIssueResponse(issue *entity.ProductIssue) IssueResponse {
	var alts []AlternativeBinRequest
	for _, a := range issue.AlternativeBins {
		alts = append(alts, AlternativeBinRequest{Bin: a.Bin, Quantity: a.Quantity})
	}
	return IssueResponse{
		ID:               issue.ID,
		SKU:              issue.SKU,
		ProductName:      issue.ProductName,
		BinCode:          issue.BinCode,
		IssueType:        string(issue.Type),
		ExpectedQuantity: issue.ExpectedQuantity,
		FoundQuantity:    issue.FoundQuantity,
		AlternativeBins:  alts,
		Resolved:         issue.Resolved,
		ReportedAt:       issue.ReportedAt,
		ResolvedAt:       issue.ResolvedAt,
	}
}

// ToResolutionResponse mapea las instrucciones de resolución.
func ToResolutionResponse(res *picking.Resolution) ResolutionResponse {
	var reassignments []AlternativeBinRequest
	for _, r := range res.Reassignments {
		reassignments = append(reassignments, AlternativeBinRequest{Bin: r.Bin, Quantity: r.Quantity})
	}
	out := ResolutionResponse{
		SKU:           res.SKU,
		BinCode:       res.BinCode,
		Covered:       res.Covered,
		Reassignments: reassignments,
	}
	if res.Adjustment != nil {
		out.Adjustment = &AdjustmentResponse{
			SKU:         res.Adjustment.SKU,
			LineItemID:  res.Adjustment.LineItemID,
			NewQuantity: res.Adjustment.NewQuantity,
			Reason:      res.Adjustment.Reason,
		}
	}
	return out
}

// ToBinCandidateResponse mapea una ubicación candidata.
func ToBinCandidateResponse(b *entity.BinStock) BinCandidateResponse {
	return BinCandidateResponse{
		BinCode:        b.BinCode,
		SKU:            b.SKU,
		Available:      b.Available.String(),
		AvailableUnits: b.AvailableUnits(),
		IsFrozen:       b.IsFrozen,
	}
}
