package picking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/picking"
)

func testCandidates() []picking.Candidate {
	return []picking.Candidate{
		{BinCode: "D-09", Available: 3},
		{BinCode: "E-02", Available: 1},
		{BinCode: "F-11", Available: 10, IsFrozen: true},
		{BinCode: "G-05", Available: 0},
	}
}

func newTestAllocator(t *testing.T, needed int) *picking.Allocator {
	t.Helper()
	a, err := picking.NewAllocator(needed, testCandidates())
	require.NoError(t, err)
	return a
}

// ──────────────────────────────────────────────────────────────────────────────
// Select — prefijado de cantidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocator_Select_PrefijaLoPendienteSinSuperarElStock(t *testing.T) {
	a := newTestAllocator(t, 4)

	qty, err := a.Select("D-09")
	require.NoError(t, err)
	assert.Equal(t, 3, qty, "se prefija min(pendiente=4, disponible=3)")

	qty, err = a.Select("E-02")
	require.NoError(t, err)
	assert.Equal(t, 1, qty, "la segunda selección prefija lo que queda pendiente")

	sum := a.Summary()
	assert.Equal(t, 4, sum.TotalSelected)
	assert.Zero(t, sum.StillNeeded)
	assert.False(t, sum.Needed)
	assert.False(t, sum.OverAllocated)
}

func TestAllocator_Select_ConTodoCubierto_PrefijaMinimoUno(t *testing.T) {
	a := newTestAllocator(t, 1)
	_, err := a.Select("E-02")
	require.NoError(t, err)

	qty, err := a.Select("D-09")
	require.NoError(t, err)
	assert.Equal(t, 1, qty, "sin pendiente la selección entra con una unidad, no con cero")
	assert.True(t, a.Summary().OverAllocated,
		"la sobre-asignación se señala como información, no como error")
}

func TestAllocator_Select_Rechazos(t *testing.T) {
	a := newTestAllocator(t, 4)

	_, err := a.Select("Z-99")
	assert.ErrorIs(t, err, domain.ErrBinNotCandidate, "solo se seleccionan candidatas de la búsqueda")

	_, err = a.Select("F-11")
	assert.ErrorIs(t, err, domain.ErrBinFrozen, "una ubicación congelada nunca es seleccionable")

	_, err = a.Select("G-05")
	assert.ErrorIs(t, err, domain.ErrBinNotCandidate, "sin stock no hay nada que asignar")

	_, err = a.Select("D-09")
	require.NoError(t, err)
	_, err = a.Select("D-09")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se selecciona dos veces la misma ubicación")
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity / Deselect
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocator_SetQuantity_RecortaAlRangoValido(t *testing.T) {
	a := newTestAllocator(t, 4)
	_, err := a.Select("D-09")
	require.NoError(t, err)

	applied, clamped, err := a.SetQuantity("D-09", 99)
	require.NoError(t, err)
	assert.Equal(t, 3, applied, "se recorta al stock disponible")
	assert.True(t, clamped, "el recorte se avisa al operario")

	applied, clamped, err = a.SetQuantity("D-09", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, applied, "el mínimo editable es una unidad; quitar es Deselect")
	assert.False(t, clamped)

	_, _, err = a.SetQuantity("E-02", 1)
	assert.ErrorIs(t, err, domain.ErrBinNotCandidate, "solo se edita lo ya seleccionado")
}

func TestAllocator_SetQuantity_NoReajustaOtrasAsignaciones(t *testing.T) {
	a := newTestAllocator(t, 4)
	_, err := a.Select("D-09")
	require.NoError(t, err)
	_, err = a.Select("E-02")
	require.NoError(t, err)

	_, _, err = a.SetQuantity("D-09", 1)
	require.NoError(t, err)

	selected := a.Selected()
	require.Len(t, selected, 2)
	assert.Equal(t, 1, selected[1].Quantity, "editar una asignación no toca las demás")
	assert.Equal(t, 2, a.Summary().StillNeeded)
}

func TestAllocator_Deselect_QuitaLaAsignacionCompleta(t *testing.T) {
	a := newTestAllocator(t, 4)
	_, err := a.Select("D-09")
	require.NoError(t, err)
	_, err = a.Select("E-02")
	require.NoError(t, err)

	a.Deselect("D-09")

	selected := a.Selected()
	require.Len(t, selected, 1, "deseleccionar elimina la entrada, no la deja en cero")
	assert.Equal(t, "E-02", selected[0].Bin)
	assert.Equal(t, 3, a.StillNeeded())

	// Reseleccionar tras quitar vuelve a prefijar con lo pendiente actual.
	qty, err := a.Select("D-09")
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes del resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocator_Summary_NuncaNegativoYOrdenDeSeleccion(t *testing.T) {
	a := newTestAllocator(t, 2)
	_, err := a.Select("D-09") // prefija 2
	require.NoError(t, err)
	_, _, err = a.SetQuantity("D-09", 3)
	require.NoError(t, err)

	sum := a.Summary()
	assert.Zero(t, sum.StillNeeded, "el pendiente se satura en cero aunque haya sobre-asignación")
	assert.True(t, sum.OverAllocated)

	_, err = a.Select("E-02")
	require.NoError(t, err)
	selected := a.Selected()
	assert.Equal(t, "D-09", selected[0].Bin, "las asignaciones conservan el orden de selección")
	assert.Equal(t, "E-02", selected[1].Bin)
}

func TestNewAllocator_CantidadInvalida_RetornaError(t *testing.T) {
	_, err := picking.NewAllocator(0, testCandidates())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = picking.NewAllocator(-3, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
