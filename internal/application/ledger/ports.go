package ledger

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// AccountReader resuelve la cuenta principal de la vista previa. (nil, nil) si no existe.
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
}

// ItemReader carga los ítems del catálogo referenciados por las líneas en una sola llamada.
type ItemReader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Item, error)
}
