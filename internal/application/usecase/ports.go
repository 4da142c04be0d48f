package usecase

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn dentro de una transacción con repos de cuentas e ítems atados a ella.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(accounts repository.AccountRepository, items repository.ItemRepository) error) error
}

// CatalogCache invalida la caché del catálogo de ítems tras una escritura.
type CatalogCache interface {
	Invalidate(ctx context.Context)
}
