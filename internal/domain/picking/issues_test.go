package picking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/picking"
)

// reportInsufficient reporta que de SKU-A (2 solicitadas en A-01) solo se encontró `found`.
func reportInsufficient(t *testing.T, s *entity.PickingSession, found int) *entity.ProductIssue {
	t.Helper()
	issue, err := picking.ReportIssue(s, picking.IssueReport{
		SKU:              "SKU-A",
		ProductName:      "Camiseta",
		BinCode:          "A-01",
		Type:             entity.IssueInsufficient,
		ExpectedQuantity: 2,
		FoundQuantity:    found,
	}, testNow)
	require.NoError(t, err)
	return issue
}

// ──────────────────────────────────────────────────────────────────────────────
// ReportIssue
// ──────────────────────────────────────────────────────────────────────────────

func TestReportIssue_AnexaIncidenciaAbierta(t *testing.T) {
	s := newTestSession(t)
	issue := reportInsufficient(t, s, 1)

	assert.NotEmpty(t, issue.ID)
	assert.False(t, issue.Resolved)
	assert.Equal(t, entity.IssueInsufficient, issue.Type)
	require.Len(t, s.Issues, 1)
	assert.Equal(t, 2, s.BinsToProcess[0].Items[0].RequestedQuantity,
		"reportar no toca cantidades: es un append puro")
}

func TestReportIssue_RechazaDuplicadaParaMismoSKUYUbicacion(t *testing.T) {
	s := newTestSession(t)
	reportInsufficient(t, s, 1)

	_, err := picking.ReportIssue(s, picking.IssueReport{
		SKU: "SKU-A", BinCode: "A-01", Type: entity.IssueNotFound,
		ExpectedQuantity: 2, FoundQuantity: 0,
	}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"no pueden coexistir dos incidencias abiertas para el mismo (sku, ubicación)")

	// Pero sí para otro SKU.
	_, err = picking.ReportIssue(s, picking.IssueReport{
		SKU: "SKU-B", BinCode: "A-01", Type: entity.IssueNotFound,
		ExpectedQuantity: 1, FoundQuantity: 0,
	}, testNow)
	assert.NoError(t, err)
	assert.Len(t, s.Issues, 2)
}

func TestReportIssue_ValidaTipoYCantidades(t *testing.T) {
	cases := []struct {
		name   string
		report picking.IssueReport
	}{
		{"sin SKU", picking.IssueReport{BinCode: "A-01", Type: entity.IssueNotFound, ExpectedQuantity: 1}},
		{"sin ubicación", picking.IssueReport{SKU: "SKU-A", Type: entity.IssueNotFound, ExpectedQuantity: 1}},
		{"tipo desconocido", picking.IssueReport{SKU: "SKU-A", BinCode: "A-01", Type: "rota", ExpectedQuantity: 1}},
		{"encontrado negativo", picking.IssueReport{SKU: "SKU-A", BinCode: "A-01", Type: entity.IssueNotFound, ExpectedQuantity: 2, FoundQuantity: -1}},
		{"esperado cero", picking.IssueReport{SKU: "SKU-A", BinCode: "A-01", Type: entity.IssueNotFound, ExpectedQuantity: 0}},
		{"encontrado mayor al esperado", picking.IssueReport{SKU: "SKU-A", BinCode: "A-01", Type: entity.IssueInsufficient, ExpectedQuantity: 2, FoundQuantity: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t)
			_, err := picking.ReportIssue(s, tc.report, testNow)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PlanResolution — regla de umbral
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanResolution_CubiertoConAsignaciones_NoAjustaCantidad(t *testing.T) {
	s := newTestSession(t)
	reportInsufficient(t, s, 1)

	res, err := picking.PlanResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "D-09", Quantity: 1}})
	require.NoError(t, err)

	assert.True(t, res.Covered, "encontrado 1 + asignado 1 cubre las 2 esperadas")
	assert.Nil(t, res.Adjustment)
	require.Len(t, res.Reassignments, 1)
	assert.Equal(t, "D-09", res.Reassignments[0].Bin)
}

func TestPlanResolution_NoCubierto_ProduceAjusteALaBaja(t *testing.T) {
	s := newTestSession(t)
	reportInsufficient(t, s, 1)

	res, err := picking.PlanResolution(s, "SKU-A", "A-01", nil)
	require.NoError(t, err)

	assert.False(t, res.Covered)
	require.NotNil(t, res.Adjustment, "sin cobertura la orden se ajusta a lo disponible")
	assert.Equal(t, 1, res.Adjustment.NewQuantity)
	assert.Equal(t, "li-1", res.Adjustment.LineItemID)
	assert.Contains(t, res.Adjustment.Reason, "A-01")
}

func TestPlanResolution_NoMutaLaSesion(t *testing.T) {
	s := newTestSession(t)
	issue := reportInsufficient(t, s, 1)

	_, err := picking.PlanResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "D-09", Quantity: 1}})
	require.NoError(t, err)

	assert.False(t, issue.Resolved, "planificar no resuelve: eso lo hace la confirmación")
	assert.Len(t, s.BinsToProcess, 2, "la ruta no cambia al planificar")
	assert.Equal(t, 2, s.BinsToProcess[0].Items[0].RequestedQuantity)
}

func TestPlanResolution_IncidenciaInexistente_RetornaErrIssueNotFound(t *testing.T) {
	s := newTestSession(t)
	_, err := picking.PlanResolution(s, "SKU-A", "A-01", nil)
	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
}

func TestPlanResolution_AsignacionInvalida_RetornaErrInvalidInput(t *testing.T) {
	s := newTestSession(t)
	reportInsufficient(t, s, 1)

	_, err := picking.PlanResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = picking.PlanResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "D-09", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = picking.PlanResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "A-01", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"la ubicación origen no es alternativa de sí misma")
}

func TestPlanResolution_AsignacionAUbicacionCompletada_Rechazada(t *testing.T) {
	s := newTestSession(t)
	pickBin(t, s)
	_, err := picking.MoveToNextBin(s)
	require.NoError(t, err)

	_, err = picking.ReportIssue(s, picking.IssueReport{
		SKU: "SKU-C", BinCode: "B-07", Type: entity.IssueInsufficient,
		ExpectedQuantity: 1, FoundQuantity: 0,
	}, testNow)
	require.NoError(t, err)

	_, err = picking.PlanResolution(s, "SKU-C", "B-07",
		[]entity.AlternativeBin{{Bin: "A-01", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrBinNotCandidate,
		"una parada completada no recibe más recogidas: su código quedaría duplicado en la ruta")
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyResolution — efectos sobre la ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyResolution_Cubierto_AnexaUbicacionAlFinalDeLaRuta(t *testing.T) {
	s := newTestSession(t)
	_, err := picking.ScanBin(s, "A-01")
	require.NoError(t, err)
	_, err = picking.ScanProduct(s, "SKU-A", testNow)
	require.NoError(t, err)
	reportInsufficient(t, s, 1)

	issue, res, err := picking.ApplyResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "D-09", Quantity: 1}}, testNow)
	require.NoError(t, err)

	assert.True(t, issue.Resolved)
	require.NotNil(t, issue.ResolvedAt)
	assert.True(t, res.Covered)

	// El ítem origen baja a lo encontrado y la nueva parada va al final.
	require.Len(t, s.BinsToProcess, 3, "la reasignación anexa una parada, nunca reordena")
	assert.Equal(t, "D-09", s.BinsToProcess[2].BinCode)
	assert.Equal(t, 1, s.BinsToProcess[2].Items[0].RequestedQuantity)
	assert.Equal(t, "li-1", s.BinsToProcess[2].Items[0].LineItemID,
		"la parada anexada hereda la línea original")
	homeItem := s.BinsToProcess[0].Items[0]
	assert.Equal(t, 1, homeItem.RequestedQuantity)
	assert.True(t, homeItem.IsScanned)
	assert.GreaterOrEqual(t, homeItem.RequestedQuantity, homeItem.ScannedQuantity,
		"nunca se baja lo solicitado por debajo de lo ya escaneado")
}

func TestApplyResolution_EncontradoSinEscanear_ConservaLoPrometido(t *testing.T) {
	// La incidencia se reporta antes de escanear la unidad encontrada: el ajuste
	// promete esa unidad al sistema de pedidos, así que debe seguir en la ruta
	// pendiente de recoger.
	s := newTestSession(t)
	_, err := picking.ScanBin(s, "A-01")
	require.NoError(t, err)
	reportInsufficient(t, s, 1)

	_, res, err := picking.ApplyResolution(s, "SKU-A", "A-01", nil, testNow)
	require.NoError(t, err)
	require.NotNil(t, res.Adjustment)
	assert.Equal(t, 1, res.Adjustment.NewQuantity)

	homeItem := s.BinsToProcess[0].Items[0]
	assert.Equal(t, 1, homeItem.RequestedQuantity,
		"lo solicitado baja a lo encontrado, no a lo escaneado")
	assert.False(t, homeItem.IsScanned, "la unidad encontrada sigue pendiente")

	total := 0
	for _, bin := range s.BinsToProcess {
		for _, item := range bin.Items {
			if item.SKU == "SKU-A" {
				total += item.RequestedQuantity
			}
		}
	}
	assert.Equal(t, res.Adjustment.NewQuantity, total,
		"el total de la ruta coincide con la cantidad ajustada de la orden")

	// Y esa unidad se recoge con normalidad.
	out, err := picking.ScanProduct(s, "SKU-A", testNow)
	require.NoError(t, err)
	assert.Equal(t, picking.OutcomeOK, out.Code)
}

func TestApplyResolution_AsignacionALaUbicacionActual_SeFusiona(t *testing.T) {
	// La incidencia es de B-07 pero el stock alternativo está en A-01, la parada
	// actual aún abierta: se amplía en lugar de duplicar su código en la ruta.
	s := newTestSession(t)
	_, err := picking.ReportIssue(s, picking.IssueReport{
		SKU: "SKU-C", BinCode: "B-07", Type: entity.IssueRelocated,
		ExpectedQuantity: 1, FoundQuantity: 0,
	}, testNow)
	require.NoError(t, err)

	_, _, err = picking.ApplyResolution(s, "SKU-C", "B-07",
		[]entity.AlternativeBin{{Bin: "A-01", Quantity: 1}}, testNow)
	require.NoError(t, err)

	require.Len(t, s.BinsToProcess, 2, "el código de ubicación sigue siendo único en la sesión")
	require.Len(t, s.BinsToProcess[0].Items, 3)
	assert.Equal(t, "SKU-C", s.BinsToProcess[0].Items[2].SKU)
	assert.Equal(t, 1, s.BinsToProcess[0].Items[2].RequestedQuantity)
}

func TestApplyResolution_AmpliaUbicacionPendienteSiYaEstaEnLaRuta(t *testing.T) {
	s := newTestSession(t)
	_, err := picking.ScanBin(s, "A-01")
	require.NoError(t, err)
	_, err = picking.ScanProduct(s, "SKU-A", testNow)
	require.NoError(t, err)
	reportInsufficient(t, s, 1)

	// B-07 ya es una parada pendiente: la asignación se fusiona ahí.
	_, _, err = picking.ApplyResolution(s, "SKU-A", "A-01",
		[]entity.AlternativeBin{{Bin: "B-07", Quantity: 1}}, testNow)
	require.NoError(t, err)

	require.Len(t, s.BinsToProcess, 2, "no se duplica una parada pendiente con el mismo código")
	require.Len(t, s.BinsToProcess[1].Items, 2)
	assert.Equal(t, "SKU-A", s.BinsToProcess[1].Items[1].SKU)
}

func TestApplyResolution_AjusteSatisfaceLaUbicacionActual_SeCompletaSola(t *testing.T) {
	s := newTestSession(t)
	_, err := picking.ScanBin(s, "A-01")
	require.NoError(t, err)
	// Se recoge todo menos la unidad faltante de SKU-A.
	_, err = picking.ScanProduct(s, "SKU-A", testNow)
	require.NoError(t, err)
	_, err = picking.ScanProduct(s, "SKU-B", testNow)
	require.NoError(t, err)
	reportInsufficient(t, s, 1)

	_, _, err = picking.ApplyResolution(s, "SKU-A", "A-01", nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusBinCompleted, s.Status,
		"el ajuste deja la ubicación satisfecha: se completa sin otro escaneo")
	assert.True(t, s.BinsToProcess[0].IsCompleted)

	// Y el flujo continúa con normalidad.
	out, err := picking.MoveToNextBin(s)
	require.NoError(t, err)
	assert.Equal(t, picking.OutcomeOK, out.Code)
}

func TestApplyResolution_EnEsperaDeUbicacion_TambienDestrabLaRuta(t *testing.T) {
	// Incidencia NOT_FOUND del único ítem de B-07, reportada antes de escanear
	// la ubicación. Sin el recheck la sesión quedaría bloqueada: no habría
	// ninguna unidad que escanear en B-07.
	s := newTestSession(t)
	pickBin(t, s)
	_, err := picking.MoveToNextBin(s)
	require.NoError(t, err)
	require.Equal(t, entity.StatusWaitingForBin, s.Status)

	_, err = picking.ReportIssue(s, picking.IssueReport{
		SKU: "SKU-C", BinCode: "B-07", Type: entity.IssueNotFound,
		ExpectedQuantity: 1, FoundQuantity: 0,
	}, testNow)
	require.NoError(t, err)

	_, _, err = picking.ApplyResolution(s, "SKU-C", "B-07", nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusBinCompleted, s.Status)
	out, err := picking.MoveToNextBin(s)
	require.NoError(t, err)
	assert.True(t, out.PickingCompleted, "la orden ajustada puede cerrar su picking")
}

func TestApplyResolution_ResolverDosVeces_RetornaErrIssueNotFound(t *testing.T) {
	s := newTestSession(t)
	reportInsufficient(t, s, 1)

	_, _, err := picking.ApplyResolution(s, "SKU-A", "A-01", nil, testNow)
	require.NoError(t, err)

	_, _, err = picking.ApplyResolution(s, "SKU-A", "A-01", nil, testNow)
	assert.ErrorIs(t, err, domain.ErrIssueNotFound,
		"una incidencia resuelta no se reabre ni se duplica")
}

func TestApplyResolution_ConPickingTerminado_RetornaErrInvalidTransition(t *testing.T) {
	s := sessionReadyForVerification(t)
	_, _, err := picking.ApplyResolution(s, "SKU-A", "A-01", nil, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"las incidencias se resuelven durante el picking, no después")
}
