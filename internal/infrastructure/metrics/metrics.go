// Package metrics implementa el puerto de métricas con Prometheus y expone el
// endpoint /metrics en un listener propio, separado de la API.
package metrics

import (
	"net/http"

	apppicking "github.com/jhoicas/fulfillment-api/internal/application/picking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ apppicking.Metrics = (*Recorder)(nil)

// Recorder contadores operativos del flujo de picking.
type Recorder struct {
	scans             *prometheus.CounterVec
	verificationScans *prometheus.CounterVec
	issues            *prometheus.CounterVec
	sessionsCompleted prometheus.Counter
}

// NewRecorder construye y registra los contadores en el registry por defecto.
func NewRecorder() *Recorder {
	r := &Recorder{
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picking_scans_total",
			Help: "Escaneos de picking por resultado (OK, WRONG_BIN, NOT_IN_BIN, ALREADY_FULFILLED).",
		}, []string{"result"}),
		verificationScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verification_scans_total",
			Help: "Escaneos de verificación por resultado.",
		}, []string{"result"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picking_issues_total",
			Help: "Incidencias reportadas por tipo (not_found, insufficient, relocated).",
		}, []string{"type"}),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picking_sessions_completed_total",
			Help: "Sesiones de picking verificadas y completadas.",
		}),
	}
	prometheus.MustRegister(r.scans, r.verificationScans, r.issues, r.sessionsCompleted)
	return r
}

func (r *Recorder) ScanResult(result string) { r.scans.WithLabelValues(result).Inc() }

func (r *Recorder) VerificationScanResult(result string) {
	r.verificationScans.WithLabelValues(result).Inc()
}

func (r *Recorder) IssueReported(issueType string) { r.issues.WithLabelValues(issueType).Inc() }

func (r *Recorder) SessionCompleted() { r.sessionsCompleted.Inc() }

// Handler devuelve el handler HTTP de /metrics (registry por defecto).
func Handler() http.Handler {
	return promhttp.Handler()
}
