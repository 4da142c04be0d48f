package repository

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para el plan de cuentas (DIP).
// Los Get devuelven (nil, nil) cuando no existe el registro.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetByCode(ctx context.Context, code string) (*entity.Account, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Account, error)
	Count(ctx context.Context) (int64, error)
}
