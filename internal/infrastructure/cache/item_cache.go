package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

const (
	itemVersionKey = "catalog:items:version"
	itemKeyPrefix  = "catalog:item"

	// loadTimeout acota la carga compartida, que no depende del contexto de ningún caller.
	loadTimeout = 10 * time.Second
)

var _ repository.ItemRepository = (*ItemRepository)(nil)

// ItemRepository decora un ItemRepository con caché Redis por ítem.
// Las escrituras incrementan la versión del catálogo, lo que invalida todas las claves previas.
// Un fallo de Redis degrada a lectura directa del repositorio.
type ItemRepository struct {
	next   repository.ItemRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
	group  singleflight.Group
}

// NewItemRepository construye el decorador. Con client nil todas las llamadas van directo a next.
func NewItemRepository(next repository.ItemRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *ItemRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemRepository{next: next, client: client, ttl: ttl, log: log.Component("item_cache")}
}

// Create delega e invalida.
func (r *ItemRepository) Create(ctx context.Context, it *entity.Item) error {
	if err := r.next.Create(ctx, it); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

// Update delega e invalida.
func (r *ItemRepository) Update(ctx context.Context, it *entity.Item) error {
	if err := r.next.Update(ctx, it); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

// List y Count no se cachean (pantallas de administración).
func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	return r.next.List(ctx, limit, offset)
}

func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

// GetByID resuelve un ítem usando GetByIDs.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	items, err := r.GetByIDs(ctx, []int64{id})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// GetByIDs lee de Redis los ítems cacheados y carga los faltantes en una sola consulta.
// Cargas concurrentes del mismo conjunto de faltantes se colapsan con singleflight.
func (r *ItemRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Item, error) {
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	if r.client == nil {
		return r.next.GetByIDs(ctx, ids)
	}

	version, err := r.version(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("redis no disponible, lectura directa del catálogo")
		return r.next.GetByIDs(ctx, ids)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = itemKey(version, id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		r.log.Warn().Err(err).Msg("redis MGET falló, lectura directa del catálogo")
		return r.next.GetByIDs(ctx, ids)
	}

	found := make([]*entity.Item, 0, len(ids))
	var missing []int64
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var ci cachedItem
		if err := json.Unmarshal([]byte(raw), &ci); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		found = append(found, ci.toEntity())
	}
	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := r.load(ctx, version, missing)
	if err != nil {
		return nil, err
	}
	found = append(found, loaded...)
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	r.log.Debug().Int("hits", len(ids)-len(missing)).Int("misses", len(missing)).Msg("catálogo")
	return found, nil
}

// Invalidate incrementa la versión del catálogo. Los errores se registran y no se propagan:
// las claves viejas expiran por TTL.
func (r *ItemRepository) Invalidate(ctx context.Context) {
	if r.client == nil {
		return
	}
	if err := r.client.Incr(ctx, itemVersionKey).Err(); err != nil {
		r.log.Warn().Err(err).Msg("no se pudo invalidar la caché del catálogo")
	}
}

func (r *ItemRepository) load(ctx context.Context, version int64, ids []int64) ([]*entity.Item, error) {
	key := fmt.Sprintf("%d:%s", version, joinIDs(ids))
	ch := r.group.DoChan(key, func() (interface{}, error) {
		// La carga es compartida entre callers; no hereda la cancelación del primero.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		items, err := r.next.GetByIDs(loadCtx, ids)
		if err != nil {
			return nil, err
		}
		r.store(loadCtx, version, items)
		return items, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*entity.Item), nil
	}
}

func (r *ItemRepository) store(ctx context.Context, version int64, items []*entity.Item) {
	if len(items) == 0 {
		return
	}
	pipe := r.client.Pipeline()
	for _, it := range items {
		raw, err := json.Marshal(fromEntity(it))
		if err != nil {
			continue
		}
		pipe.Set(ctx, itemKey(version, it.ID), raw, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warn().Err(err).Msg("no se pudo poblar la caché del catálogo")
	}
}

func (r *ItemRepository) version(ctx context.Context) (int64, error) {
	v, err := r.client.Get(ctx, itemVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func itemKey(version, id int64) string {
	return fmt.Sprintf("%s:%d:%d", itemKeyPrefix, version, id)
}

func uniqueSorted(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// cachedItem forma serializada de entity.Item en Redis.
type cachedItem struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Rate          decimal.Decimal `json:"rate"`
	IncomeAccount *cachedAccount  `json:"income_account,omitempty"`
	AssetAccount  *cachedAccount  `json:"asset_account,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type cachedAccount struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func fromEntity(it *entity.Item) cachedItem {
	return cachedItem{
		ID:            it.ID,
		Code:          it.Code,
		Name:          it.Name,
		Type:          it.Type.String(),
		Rate:          it.Rate,
		IncomeAccount: fromAccount(it.IncomeAccount),
		AssetAccount:  fromAccount(it.AssetAccount),
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func fromAccount(a *entity.Account) *cachedAccount {
	if a == nil {
		return nil
	}
	return &cachedAccount{ID: a.ID, Code: a.Code, Name: a.Name, Type: a.Type}
}

func (c cachedItem) toEntity() *entity.Item {
	return &entity.Item{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Type:          entity.ParseItemType(c.Type),
		Rate:          c.Rate,
		IncomeAccount: c.IncomeAccount.toEntity(),
		AssetAccount:  c.AssetAccount.toEntity(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (c *cachedAccount) toEntity() *entity.Account {
	if c == nil {
		return nil
	}
	return &entity.Account{ID: c.ID, Code: c.Code, Name: c.Name, Type: c.Type}
}
