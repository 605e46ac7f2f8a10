package picking

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// Metrics puerto de métricas operativas. La implementación Prometheus vive en
// infraestructura; NopMetrics sirve para tests y para arrancar sin métricas.
type Metrics interface {
	ScanResult(result string)
	VerificationScanResult(result string)
	IssueReported(issueType string)
	SessionCompleted()
}

// NopMetrics implementación vacía del puerto de métricas.
type NopMetrics struct{}

func (NopMetrics) ScanResult(string)             {}
func (NopMetrics) VerificationScanResult(string) {}
func (NopMetrics) IssueReported(string)          {}
func (NopMetrics) SessionCompleted()             {}

// PickSheetGenerator genera la hoja de ruta de picking imprimible de una sesión.
type PickSheetGenerator interface {
	GeneratePickSheet(ctx context.Context, session *entity.PickingSession) ([]byte, error)
}
