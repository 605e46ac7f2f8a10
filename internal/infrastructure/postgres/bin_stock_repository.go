package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.BinStockRepository = (*BinStockRepo)(nil)

// BinStockRepo implementación de BinStockRepository sobre PostgreSQL.
// Consulta el stock por ubicación que mantiene el resto de la plataforma.
type BinStockRepo struct {
	pool *pgxpool.Pool
}

// NewBinStockRepository construye el adaptador de búsqueda de candidatas.
func NewBinStockRepository(pool *pgxpool.Pool) *BinStockRepo {
	return &BinStockRepo{pool: pool}
}

// FindCandidates lista ubicaciones con stock del SKU, excluyendo la ubicación
// origen, ordenadas por disponibilidad descendente. Las congeladas se
// devuelven con su flag: la exclusión de selección es decisión del allocator,
// pero el operario debe poder verlas.
func (r *BinStockRepo) FindCandidates(ctx context.Context, sku, excludeBin string, limit, offset int) ([]*entity.BinStock, error) {
	query := `
		SELECT bin_code, sku, quantity, is_frozen, updated_at
		FROM bin_stock
		WHERE sku = $1 AND bin_code <> $2 AND quantity > 0
		ORDER BY quantity DESC, bin_code
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, sku, excludeBin, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("find candidate bins: %w", err)
	}
	defer rows.Close()

	var list []*entity.BinStock
	for rows.Next() {
		var b entity.BinStock
		if err := rows.Scan(&b.BinCode, &b.SKU, &b.Available, &b.IsFrozen, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate bin: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
