package entity

import "time"

// Estados de la sesión de picking. El flujo es estrictamente secuencial:
// WAITING_FOR_BIN → WAITING_FOR_PRODUCTS → BIN_COMPLETED → (siguiente bin o
// PICKING_COMPLETED_AWAITING_VERIFICATION) → VERIFICATION_MODE → VERIFICATION_COMPLETED.
type SessionStatus string

const (
	StatusWaitingForBin         SessionStatus = "WAITING_FOR_BIN"
	StatusWaitingForProducts    SessionStatus = "WAITING_FOR_PRODUCTS"
	StatusBinCompleted          SessionStatus = "BIN_COMPLETED"
	StatusPickingCompleted      SessionStatus = "PICKING_COMPLETED_AWAITING_VERIFICATION"
	StatusVerificationMode      SessionStatus = "VERIFICATION_MODE"
	StatusVerificationCompleted SessionStatus = "VERIFICATION_COMPLETED"
)

// Tipos de incidencia detectada durante el picking.
type IssueType string

const (
	IssueNotFound     IssueType = "not_found"    // no se encontró nada en la ubicación
	IssueInsufficient IssueType = "insufficient" // se encontró menos de lo solicitado
	IssueRelocated    IssueType = "relocated"    // el stock está en otra ubicación
)

// OrderLineItem línea de la orden tal como la entrega el sistema de pedidos.
// Solo se usa al crear la sesión; el core no la revalida contra ningún catálogo.
type OrderLineItem struct {
	Bin               string `json:"bin"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	Variant           string `json:"variant,omitempty"`
	RequestedQuantity int    `json:"requested_quantity"`
	LineItemID        string `json:"line_item_id"`
}

// ScannedItem entrada del log de auditoría: un registro por unidad física escaneada.
type ScannedItem struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	ScannedAt time.Time `json:"scanned_at"`
}

// BinPickingItem ítem a recoger dentro de una ubicación.
// Invariante: 0 ≤ ScannedQuantity ≤ RequestedQuantity.
type BinPickingItem struct {
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	Variant           string `json:"variant,omitempty"`
	LineItemID        string `json:"line_item_id"`
	RequestedQuantity int    `json:"requested_quantity"`
	ScannedQuantity   int    `json:"scanned_quantity"`
	IsScanned         bool   `json:"is_scanned"` // derivado: ScannedQuantity ≥ RequestedQuantity
}

// BinPickingData una ubicación de la ruta de picking con sus ítems.
// ScannedItems es el log de auditoría, distinto de las cantidades agregadas de los ítems.
type BinPickingData struct {
	BinCode      string           `json:"bin_code"`
	Items        []BinPickingItem `json:"items"`
	IsCompleted  bool             `json:"is_completed"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	ScannedItems []ScannedItem    `json:"scanned_items,omitempty"`
}

// AlternativeBin asignación de cantidad a una ubicación alternativa.
type AlternativeBin struct {
	Bin      string `json:"bin"`
	Quantity int    `json:"quantity"`
}

// ProductIssue incidencia registrada durante el picking. Es un registro de
// auditoría: nunca se elimina, y una vez resuelta no se reabre.
type ProductIssue struct {
	ID               string           `json:"id"`
	SKU              string           `json:"sku"`
	ProductName      string           `json:"product_name"`
	BinCode          string           `json:"bin_code"`
	Type             IssueType        `json:"issue_type"`
	ExpectedQuantity int              `json:"expected_quantity"`
	FoundQuantity    int              `json:"found_quantity"`
	AlternativeBins  []AlternativeBin `json:"alternative_bins,omitempty"`
	Resolved         bool             `json:"resolved"`
	ReportedAt       time.Time        `json:"reported_at"`
	ResolvedAt       *time.Time       `json:"resolved_at,omitempty"`
}

// VerificationItem agregado por SKU para el segundo pase de verificación.
// TotalQuantity se rederiva de RequestedQuantity al iniciar la verificación,
// de forma independiente al log de escaneos del picking.
type VerificationItem struct {
	SKU              string `json:"sku"`
	ProductName      string `json:"product_name"`
	TotalQuantity    int    `json:"total_quantity"`
	VerifiedQuantity int    `json:"verified_quantity"`
	IsVerified       bool   `json:"is_verified"`
}

// PickingSession agregado raíz: una sesión de picking por orden.
// BinsToProcess ES la ruta de picking: su orden se fija al crear la sesión y
// no se reordena (las resoluciones solo pueden anexar ubicaciones al final).
type PickingSession struct {
	ID                      string             `json:"id"`
	OrderID                 string             `json:"order_id"`
	Status                  SessionStatus      `json:"status"`
	BinsToProcess           []BinPickingData   `json:"bins_to_process"`
	CurrentBinIndex         int                `json:"current_bin_index"`
	Issues                  []ProductIssue     `json:"issues,omitempty"`
	VerificationItems       []VerificationItem `json:"verification_items,omitempty"`
	StartedAt               time.Time          `json:"started_at"`
	CompletedAt             *time.Time         `json:"completed_at,omitempty"`
	VerificationStartedAt   *time.Time         `json:"verification_started_at,omitempty"`
	VerificationCompletedAt *time.Time         `json:"verification_completed_at,omitempty"`
}

// CurrentBin devuelve la ubicación bajo el cursor, o nil si la ruta terminó.
func (s *PickingSession) CurrentBin() *BinPickingData {
	if s.CurrentBinIndex < 0 || s.CurrentBinIndex >= len(s.BinsToProcess) {
		return nil
	}
	return &s.BinsToProcess[s.CurrentBinIndex]
}

// TotalRequested suma RequestedQuantity de todos los ítems de todas las ubicaciones.
func (s *PickingSession) TotalRequested() int {
	total := 0
	for _, bin := range s.BinsToProcess {
		for _, item := range bin.Items {
			total += item.RequestedQuantity
		}
	}
	return total
}

// OpenIssue busca la incidencia sin resolver para (sku, bin). Devuelve nil si no hay.
func (s *PickingSession) OpenIssue(sku, binCode string) *ProductIssue {
	for i := range s.Issues {
		iss := &s.Issues[i]
		if !iss.Resolved && iss.SKU == sku && iss.BinCode == binCode {
			return iss
		}
	}
	return nil
}
