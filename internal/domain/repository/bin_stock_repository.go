package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// BinStockRepository búsqueda de ubicaciones candidatas para reasignar un
// faltante: ubicaciones con stock del SKU, incluyendo el flag de congelada.
type BinStockRepository interface {
	// FindCandidates lista las ubicaciones con stock del SKU, excluyendo
	// excludeBin (la ubicación origen del faltante), ordenadas por cantidad
	// disponible descendente, con paginación.
	FindCandidates(ctx context.Context, sku, excludeBin string, limit, offset int) ([]*entity.BinStock, error)
}
