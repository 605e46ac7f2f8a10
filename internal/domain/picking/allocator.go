package picking

import (
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// Candidate ubicación candidata para reasignar un faltante. Las candidatas las
// entrega la búsqueda del colaborador; el allocator nunca las inventa.
type Candidate struct {
	BinCode   string
	Available int
	IsFrozen  bool
}

// Allocator reparte la cantidad pendiente de un faltante entre ubicaciones
// candidatas elegidas por el operario. Mantiene el orden de selección; no
// reajusta automáticamente otras asignaciones al editar o quitar una. La
// sobre-asignación se señala como información, no es un error.
type Allocator struct {
	needed     int
	candidates []Candidate
	selected   []entity.AlternativeBin
}

// AllocationSummary estado de la asignación para mostrar al operario.
type AllocationSummary struct {
	Needed        bool // hay cantidad pendiente sin cubrir
	StillNeeded   int
	TotalSelected int
	OverAllocated bool
}

// NewAllocator construye el allocator con la cantidad pendiente
// (faltante original menos lo ya encontrado en la ubicación origen).
func NewAllocator(quantityNeeded int, candidates []Candidate) (*Allocator, error) {
	if quantityNeeded <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return &Allocator{needed: quantityNeeded, candidates: candidates}, nil
}

// Select marca una candidata y prefija su cantidad con exactamente lo que
// queda pendiente en este momento, sin superar lo disponible en esa ubicación:
// min(stillNeeded, available). Las congeladas nunca son seleccionables.
func (a *Allocator) Select(binCode string) (int, error) {
	cand := a.candidate(binCode)
	if cand == nil {
		return 0, domain.ErrBinNotCandidate
	}
	if cand.IsFrozen {
		return 0, domain.ErrBinFrozen
	}
	if cand.Available < 1 {
		return 0, domain.ErrBinNotCandidate
	}
	if a.allocationFor(binCode) != nil {
		return 0, domain.ErrInvalidInput
	}

	qty := a.StillNeeded()
	if qty > cand.Available {
		qty = cand.Available
	}
	if qty < 1 {
		qty = 1
	}
	a.selected = append(a.selected, entity.AlternativeBin{Bin: binCode, Quantity: qty})
	return qty, nil
}

// Deselect quita la asignación de la ubicación por completo (no la deja en cero).
func (a *Allocator) Deselect(binCode string) {
	for i := range a.selected {
		if a.selected[i].Bin == binCode {
			a.selected = append(a.selected[:i], a.selected[i+1:]...)
			return
		}
	}
}

// SetQuantity edita la cantidad asignada a una ubicación ya seleccionada.
// Se recorta al rango [1, disponible]; clamped indica que el valor pedido
// excedía el stock (aviso para el operario, no un error fatal).
func (a *Allocator) SetQuantity(binCode string, qty int) (applied int, clamped bool, err error) {
	alloc := a.allocationFor(binCode)
	if alloc == nil {
		return 0, false, domain.ErrBinNotCandidate
	}
	cand := a.candidate(binCode)
	if qty < 1 {
		qty = 1
	}
	if qty > cand.Available {
		qty = cand.Available
		clamped = true
	}
	alloc.Quantity = qty
	return qty, clamped, nil
}

// Selected devuelve las asignaciones en orden de selección.
func (a *Allocator) Selected() []entity.AlternativeBin {
	out := make([]entity.AlternativeBin, len(a.selected))
	copy(out, a.selected)
	return out
}

// TotalSelected suma de las cantidades asignadas.
func (a *Allocator) TotalSelected() int {
	total := 0
	for _, s := range a.selected {
		total += s.Quantity
	}
	return total
}

// StillNeeded cantidad pendiente en este momento: max(0, needed − total asignado).
func (a *Allocator) StillNeeded() int {
	rest := a.needed - a.TotalSelected()
	if rest < 0 {
		return 0
	}
	return rest
}

// Summary reconciliación total-vs-pendiente, para informar al operario.
func (a *Allocator) Summary() AllocationSummary {
	total := a.TotalSelected()
	return AllocationSummary{
		Needed:        total < a.needed,
		StillNeeded:   a.StillNeeded(),
		TotalSelected: total,
		OverAllocated: total > a.needed,
	}
}

func (a *Allocator) candidate(binCode string) *Candidate {
	for i := range a.candidates {
		if a.candidates[i].BinCode == binCode {
			return &a.candidates[i]
		}
	}
	return nil
}

func (a *Allocator) allocationFor(binCode string) *entity.AlternativeBin {
	for i := range a.selected {
		if a.selected[i].Bin == binCode {
			return &a.selected[i]
		}
	}
	return nil
}
