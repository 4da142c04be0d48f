package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// itemSelect trae el ítem con sus cuentas de ingreso y activo (LEFT JOIN: ambas opcionales).
const itemSelect = `
	SELECT i.id, i.code, i.name, i.type, i.rate, i.created_at, i.updated_at,
	       ia.id, ia.code, ia.name, ia.type,
	       aa.id, aa.code, aa.name, aa.type
	FROM items i
	LEFT JOIN accounts ia ON ia.id = i.income_account_id
	LEFT JOIN accounts aa ON aa.id = i.asset_account_id`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador del catálogo de ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un ítem y asigna el ID generado.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (code, name, type, rate, income_account_id, asset_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		it.Code, it.Name, it.Type.String(), it.Rate,
		accountID(it.IncomeAccount), accountID(it.AssetAccount),
		it.CreatedAt, it.UpdatedAt,
	).Scan(&it.ID)
	if err != nil {
		return mapItemWriteError("insert item", err)
	}
	return nil
}

// Update actualiza nombre, tipo, tarifa y cuentas de un ítem.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET code = $2, name = $3, type = $4, rate = $5,
		       income_account_id = $6, asset_account_id = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.Code, it.Name, it.Type.String(), it.Rate,
		accountID(it.IncomeAccount), accountID(it.AssetAccount), it.UpdatedAt,
	)
	if err != nil {
		return mapItemWriteError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un ítem por ID con sus cuentas.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetByIDs carga los ítems pedidos en una sola consulta.
func (r *ItemRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryItems(ctx, itemSelect+` WHERE i.id = ANY($1) ORDER BY i.id`, ids)
}

// List lista ítems ordenados por nombre.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return r.queryItems(ctx, itemSelect+` ORDER BY i.name, i.id LIMIT $1 OFFSET $2`, limit, offset)
}

// Count total de ítems (paginación).
func (r *ItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (r *ItemRepo) queryItems(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// nullAccount columnas de una cuenta que puede venir nula por el LEFT JOIN.
type nullAccount struct {
	id               *int64
	code, name, kind *string
}

func (n nullAccount) account() *entity.Account {
	if n.id == nil {
		return nil
	}
	a := &entity.Account{ID: *n.id}
	if n.code != nil {
		a.Code = *n.code
	}
	if n.name != nil {
		a.Name = *n.name
	}
	if n.kind != nil {
		a.Type = *n.kind
	}
	return a
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		it            entity.Item
		itemType      string
		rate          decimal.Decimal
		income, asset nullAccount
	)
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &itemType, &rate, &it.CreatedAt, &it.UpdatedAt,
		&income.id, &income.code, &income.name, &income.kind,
		&asset.id, &asset.code, &asset.name, &asset.kind,
	)
	if err != nil {
		return nil, err
	}
	it.Type = entity.ParseItemType(itemType)
	it.Rate = rate
	it.IncomeAccount = income.account()
	it.AssetAccount = asset.account()
	return &it, nil
}

func accountID(a *entity.Account) *int64 {
	if a == nil {
		return nil
	}
	return &a.ID
}

func mapItemWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: cuenta inexistente: %w", op, domain.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
