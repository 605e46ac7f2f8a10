package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BinStock stock disponible de un SKU en una ubicación, candidato para
// reasignación. IsFrozen marca ubicaciones bloqueadas (conteo cíclico,
// cuarentena): nunca son seleccionables.
type BinStock struct {
	BinCode   string
	SKU       string
	Available decimal.Decimal
	IsFrozen  bool
	UpdatedAt time.Time
}

// AvailableUnits trunca la cantidad disponible a unidades enteras de picking.
func (b BinStock) AvailableUnits() int {
	return int(b.Available.IntPart())
}
