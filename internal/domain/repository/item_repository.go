package repository

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para el catálogo de ítems.
// Los ítems se devuelven con sus cuentas (ingreso / activo) ya resueltas.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// GetByIDs carga en una sola consulta los ítems pedidos; los IDs inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Item, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	Count(ctx context.Context) (int64, error)
}
