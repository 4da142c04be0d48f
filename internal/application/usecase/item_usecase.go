package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo de ítems (servicios, descuentos, pagos).
// Las escrituras validan las cuentas referenciadas dentro de la misma transacción.
type ItemUseCase struct {
	repo  repository.ItemRepository
	tx    CatalogTxRunner
	cache CatalogCache
}

// NewItemUseCase construye el caso de uso. cache puede ser nil.
func NewItemUseCase(repo repository.ItemRepository, tx CatalogTxRunner, cache CatalogCache) *ItemUseCase {
	return &ItemUseCase{repo: repo, tx: tx, cache: cache}
}

// Create crea un ítem.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	itemType := entity.ParseItemType(in.Type)
	if itemType == entity.ItemTypeUnknown || strings.TrimSpace(in.Code) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		Code:      strings.TrimSpace(in.Code),
		Name:      strings.TrimSpace(in.Name),
		Type:      itemType,
		Rate:      in.Rate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.RunCatalog(ctx, func(accounts repository.AccountRepository, items repository.ItemRepository) error {
		var err error
		if item.IncomeAccount, err = lookupAccount(ctx, accounts, in.IncomeAccountID); err != nil {
			return err
		}
		if item.AssetAccount, err = lookupAccount(ctx, accounts, in.AssetAccountID); err != nil {
			return err
		}
		if err := validateItemAccounts(item); err != nil {
			return err
		}
		return items.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toItemResponse(item), nil
}

// Update aplica los campos presentes de in sobre el ítem.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	var item *entity.Item
	err := uc.tx.RunCatalog(ctx, func(accounts repository.AccountRepository, items repository.ItemRepository) error {
		var err error
		item, err = items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Code != nil {
			item.Code = strings.TrimSpace(*in.Code)
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Type != nil {
			item.Type = entity.ParseItemType(*in.Type)
			if item.Type == entity.ItemTypeUnknown {
				return domain.ErrInvalidInput
			}
		}
		if in.Rate != nil {
			item.Rate = *in.Rate
		}
		if in.IncomeAccountID != nil {
			if item.IncomeAccount, err = lookupAccount(ctx, accounts, in.IncomeAccountID); err != nil {
				return err
			}
		}
		if in.AssetAccountID != nil {
			if item.AssetAccount, err = lookupAccount(ctx, accounts, in.AssetAccountID); err != nil {
				return err
			}
		}
		if err := validateItemAccounts(item); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		return items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem; ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista ítems paginados.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func (uc *ItemUseCase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}

// lookupAccount resuelve una cuenta opcional; id nil o 0 significa sin cuenta.
func lookupAccount(ctx context.Context, accounts repository.AccountRepository, id *int64) (*entity.Account, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	acc, err := accounts.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("cuenta %d no existe: %w", *id, domain.ErrInvalidInput)
	}
	return acc, nil
}

// validateItemAccounts: servicios y descuentos usan cuenta de ingreso, pagos cuenta de activo.
func validateItemAccounts(item *entity.Item) error {
	switch item.Type {
	case entity.ItemTypeService, entity.ItemTypeDiscount:
		if item.AssetAccount != nil {
			return fmt.Errorf("%s no admite cuenta de activo: %w", item.Type, domain.ErrInvalidInput)
		}
	case entity.ItemTypePayment:
		if item.IncomeAccount != nil {
			return fmt.Errorf("payment no admite cuenta de ingreso: %w", domain.ErrInvalidInput)
		}
		if item.AssetAccount != nil && item.AssetAccount.Type != entity.AccountTypeAsset {
			return fmt.Errorf("la cuenta de un pago debe ser de activo: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            it.ID,
		Code:          it.Code,
		Name:          it.Name,
		Type:          it.Type.String(),
		Rate:          it.Rate,
		IncomeAccount: toAccountRef(it.IncomeAccount),
		AssetAccount:  toAccountRef(it.AssetAccount),
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}
