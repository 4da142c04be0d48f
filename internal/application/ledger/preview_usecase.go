package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	domainledger "github.com/jhoicas/Contabilidad-api/internal/domain/ledger"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// PreviewUseCase arma la vista previa de partidas: resuelve cuenta principal y catálogo,
// normaliza las líneas y delega en el calculador puro.
type PreviewUseCase struct {
	accounts AccountReader
	items    ItemReader
	policy   domainledger.DimensionPolicy
	log      *logger.Logger
}

// NewPreviewUseCase construye el caso de uso. policy aplica a todas las transacciones.
func NewPreviewUseCase(accounts AccountReader, items ItemReader, policy domainledger.DimensionPolicy, log *logger.Logger) *PreviewUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PreviewUseCase{accounts: accounts, items: items, policy: policy, log: log.Component("split_preview")}
}

// Preview calcula las partidas. Con strict=true un resultado descuadrado devuelve además
// domain.ErrUnbalanced; la respuesta se devuelve igual para que el caller la muestre.
// Solo los fallos de repositorio son errores "reales".
func (uc *PreviewUseCase) Preview(ctx context.Context, in dto.PreviewRequest, strict bool) (*dto.PreviewResponse, error) {
	target, err := uc.resolveTarget(ctx, in.TargetAccountID)
	if err != nil {
		return nil, err
	}
	if target == nil || len(in.LineItems) == 0 {
		res := domainledger.ComputeSplits(nil, nil, nil, domainledger.SplitContext{})
		return toPreviewResponse(res), nil
	}

	catalog, err := uc.loadCatalog(ctx, in.LineItems)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.LineItem, 0, len(in.LineItems))
	for _, l := range in.LineItems {
		id := int64(l.ItemID)
		lines = append(lines, entity.LineItem{ItemID: id, Total: lineTotal(l, catalog[id])})
	}

	res := domainledger.ComputeSplits(lines, target, catalog, domainledger.SplitContext{
		PeopleID: in.PeopleID.Ptr(),
		UnitID:   in.UnitID.Ptr(),
		Policy:   uc.policy,
	})

	uc.log.Debug().
		Int64("target_account_id", target.ID).
		Int("lines", len(lines)).
		Int("catalog_items", len(catalog)).
		Int("splits", len(res.Splits)).
		Bool("balanced", res.IsBalanced).
		Msg("vista previa de partidas")

	resp := toPreviewResponse(res)
	if err := domainledger.Validate(res); err != nil {
		uc.log.Warn().
			Str("total_debit", res.TotalDebit.String()).
			Str("total_credit", res.TotalCredit.String()).
			Msg("vista previa descuadrada")
		if strict {
			return resp, err
		}
	}
	return resp, nil
}

// resolveTarget devuelve nil (sin error) si no hay cuenta o no existe: estado "no listo".
func (uc *PreviewUseCase) resolveTarget(ctx context.Context, id dto.ID) (*entity.Account, error) {
	if id == 0 {
		return nil, nil
	}
	acc, err := uc.accounts.GetByID(ctx, int64(id))
	if err != nil {
		return nil, fmt.Errorf("cuenta principal: %w", err)
	}
	if acc == nil {
		uc.log.Debug().Int64("target_account_id", int64(id)).Msg("cuenta principal inexistente, vista previa vacía")
	}
	return acc, nil
}

func (uc *PreviewUseCase) loadCatalog(ctx context.Context, lines []dto.PreviewLineRequest) (domainledger.Catalog, error) {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		id := int64(l.ItemID)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	catalog := make(domainledger.Catalog, len(ids))
	if len(ids) == 0 {
		return catalog, nil
	}
	items, err := uc.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catálogo de ítems: %w", err)
	}
	for _, it := range items {
		if it != nil {
			catalog[it.ID] = it
		}
	}
	return catalog, nil
}

// lineTotal usa el total manual si viene; si no quantity × rate, con la tarifa del ítem por defecto.
func lineTotal(l dto.PreviewLineRequest, item *entity.Item) decimal.Decimal {
	if l.Total != nil {
		return l.Total.Decimal
	}
	if l.Quantity == nil {
		return decimal.Zero
	}
	rate := decimal.Zero
	switch {
	case l.Rate != nil:
		rate = l.Rate.Decimal
	case item != nil:
		rate = item.Rate
	}
	return l.Quantity.Mul(rate)
}

func toPreviewResponse(res entity.PreviewResult) *dto.PreviewResponse {
	splits := make([]dto.SplitResponse, 0, len(res.Splits))
	for _, s := range res.Splits {
		splits = append(splits, dto.SplitResponse{
			AccountID:   s.AccountID,
			AccountName: s.AccountName,
			PeopleID:    s.PeopleID,
			UnitID:      s.UnitID,
			Debit:       s.Debit,
			Credit:      s.Credit,
		})
	}
	return &dto.PreviewResponse{
		Splits:      splits,
		TotalDebit:  res.TotalDebit,
		TotalCredit: res.TotalCredit,
		IsBalanced:  res.IsBalanced,
	}
}
