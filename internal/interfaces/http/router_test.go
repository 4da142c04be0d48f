package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	domainledger "github.com/jhoicas/Contabilidad-api/internal/domain/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Contabilidad-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type accountStore struct {
	byID map[int64]*entity.Account
	next int64
}

func (s *accountStore) Create(_ context.Context, a *entity.Account) error {
	for _, e := range s.byID {
		if e.Code == a.Code {
			return domain.ErrDuplicate
		}
	}
	s.next++
	a.ID = s.next
	s.byID[a.ID] = a
	return nil
}
func (s *accountStore) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	return s.byID[id], nil
}
func (s *accountStore) GetByCode(_ context.Context, code string) (*entity.Account, error) {
	for _, e := range s.byID {
		if e.Code == code {
			return e, nil
		}
	}
	return nil, nil
}
func (s *accountStore) List(context.Context, int, int) ([]*entity.Account, error) {
	var out []*entity.Account
	for id := int64(1); id <= s.next; id++ {
		if a, ok := s.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
func (s *accountStore) Count(context.Context) (int64, error) { return int64(len(s.byID)), nil }

type itemStore struct {
	byID map[int64]*entity.Item
	next int64
}

func (s *itemStore) Create(_ context.Context, it *entity.Item) error {
	s.next++
	it.ID = s.next
	s.byID[it.ID] = it
	return nil
}
func (s *itemStore) Update(_ context.Context, it *entity.Item) error {
	s.byID[it.ID] = it
	return nil
}
func (s *itemStore) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	return s.byID[id], nil
}
func (s *itemStore) GetByIDs(_ context.Context, ids []int64) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, id := range ids {
		if it, ok := s.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}
func (s *itemStore) List(context.Context, int, int) ([]*entity.Item, error) { return nil, nil }
func (s *itemStore) Count(context.Context) (int64, error)                   { return int64(len(s.byID)), nil }

type storeTx struct {
	accounts *accountStore
	items    *itemStore
}

func (tx storeTx) RunCatalog(_ context.Context, fn func(repository.AccountRepository, repository.ItemRepository) error) error {
	return fn(tx.accounts, tx.items)
}

type userStore struct{ byEmail map[string]*entity.User }

func (s *userStore) Create(_ context.Context, u *entity.User) error {
	s.byEmail[u.Email] = u
	return nil
}
func (s *userStore) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }
func (s *userStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.byEmail[email], nil
}

// buildApp arma el router completo con un plan de cuentas y catálogo sembrados.
func buildApp(t *testing.T) *fiber.App {
	t.Helper()
	accounts := &accountStore{byID: map[int64]*entity.Account{}}
	items := &itemStore{byID: map[int64]*entity.Item{}}
	ctx := context.Background()

	ar := &entity.Account{Code: "1305", Name: "Clientes", Type: entity.AccountTypeAsset}
	income := &entity.Account{Code: "4155", Name: "Arrendamientos", Type: entity.AccountTypeIncome}
	discounts := &entity.Account{Code: "5305", Name: "Descuentos", Type: entity.AccountTypeIncome}
	for _, a := range []*entity.Account{ar, income, discounts} {
		require.NoError(t, accounts.Create(ctx, a))
	}
	require.NoError(t, items.Create(ctx, &entity.Item{Code: "ARR", Name: "Arriendo", Type: entity.ItemTypeService, Rate: decimal.NewFromInt(100), IncomeAccount: income}))
	require.NoError(t, items.Create(ctx, &entity.Item{Code: "DTO", Name: "Descuento", Type: entity.ItemTypeDiscount, IncomeAccount: discounts}))
	require.NoError(t, items.Create(ctx, &entity.Item{Code: "SIN", Name: "Servicio sin cuenta", Type: entity.ItemTypeService}))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:   "contabilidad-api-test",
		AuthUC:    auth.NewAuthUseCase(&userStore{byEmail: map[string]*entity.User{}}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		PreviewUC: ledger.NewPreviewUseCase(accounts, items, domainledger.PrimaryOnly, nil),
		AccountUC: usecase.NewAccountUseCase(accounts),
		ItemUC:    usecase.NewItemUseCase(items, storeTx{accounts: accounts, items: items}, nil),
		JWTSecret: testJWTSecret,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, authHeader string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// ──────────────────────────────────────────────────────────────────────────────
// Vista previa
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	resp, body := send(t, buildApp(t), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestPreview_RequiereToken(t *testing.T) {
	resp, _ := send(t, buildApp(t), http.MethodPost, "/api/splits/preview", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPreview_Descuento(t *testing.T) {
	app := buildApp(t)
	body := `{"line_items":[{"item_id":1,"total":100},{"item_id":2,"total":-20}],"target_account_id":1,"people_id":9,"unit_id":null}`
	resp, raw := send(t, app, http.MethodPost, "/api/splits/preview", tokenForRole(t, "consulta"), body)

	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{
		"splits": [
			{"account_id": 1, "account_name": "Clientes", "people_id": 9, "unit_id": null, "debit": 80, "credit": null},
			{"account_id": 3, "account_name": "Descuentos", "people_id": null, "unit_id": null, "debit": 20, "credit": null},
			{"account_id": 2, "account_name": "Arrendamientos", "people_id": null, "unit_id": null, "debit": null, "credit": 100}
		],
		"total_debit": 100,
		"total_credit": 100,
		"is_balanced": true
	}`, string(raw))
}

func TestPreview_NoListo(t *testing.T) {
	app := buildApp(t)
	resp, raw := send(t, app, http.MethodPost, "/api/splits/preview", tokenForRole(t, "contador"), `{"line_items":[{"item_id":1,"total":100}]}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"splits": [], "total_debit": 0, "total_credit": 0, "is_balanced": true}`, string(raw))
}

func TestPreview_EstrictoDescuadrado(t *testing.T) {
	app := buildApp(t)
	body := `{"line_items":[{"item_id":3,"total":100}],"target_account_id":1}`

	resp, raw := send(t, app, http.MethodPost, "/api/splits/preview", tokenForRole(t, "contador"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"is_balanced":false`)

	resp, raw = send(t, app, http.MethodPost, "/api/splits/preview?strict=true", tokenForRole(t, "contador"), body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), `"is_balanced":false`)
	assert.Contains(t, string(raw), `"total_debit":100`)
}

func TestPreview_CuerpoInvalido(t *testing.T) {
	resp, raw := send(t, buildApp(t), http.MethodPost, "/api/splits/preview", tokenForRole(t, "admin"), `{"line_items":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_BODY")
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestAccounts_Permisos(t *testing.T) {
	app := buildApp(t)
	in := map[string]any{"code": "1110", "name": "Bancos", "type": "asset"}

	resp, _ := send(t, app, http.MethodPost, "/api/accounts", tokenForRole(t, "consulta"), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := send(t, app, http.MethodPost, "/api/accounts", tokenForRole(t, "contador"), in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"code":"1110"`)

	resp, raw = send(t, app, http.MethodPost, "/api/accounts", tokenForRole(t, "admin"), in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "DUPLICATE")

	resp, _ = send(t, app, http.MethodGet, "/api/accounts", tokenForRole(t, "consulta"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAccounts_Validacion(t *testing.T) {
	app := buildApp(t)
	resp, raw := send(t, app, http.MethodPost, "/api/accounts", tokenForRole(t, "admin"), map[string]any{"code": "1", "name": "X", "type": "gasto"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "VALIDATION")

	resp, raw = send(t, app, http.MethodGet, "/api/accounts/abc", tokenForRole(t, "admin"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_ID")

	resp, raw = send(t, app, http.MethodGet, "/api/accounts/99", tokenForRole(t, "admin"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(raw), "NOT_FOUND")
}

func TestItems_CrearYLeer(t *testing.T) {
	app := buildApp(t)
	in := map[string]any{"code": "ADM", "name": "Administración", "type": "service", "rate": 250.5, "income_account_id": 2}

	resp, raw := send(t, app, http.MethodPost, "/api/items", tokenForRole(t, "contador"), in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created struct {
		ID            int64 `json:"id"`
		IncomeAccount struct {
			Name string `json:"name"`
		} `json:"income_account"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "Arrendamientos", created.IncomeAccount.Name)

	resp, raw = send(t, app, http.MethodGet, "/api/items/4", tokenForRole(t, "consulta"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"rate":250.5`)

	resp, raw = send(t, app, http.MethodPost, "/api/items", tokenForRole(t, "contador"),
		map[string]any{"code": "X", "name": "X", "type": "service", "income_account_id": 77})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_INPUT")
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroSoloAdminYLogin(t *testing.T) {
	app := buildApp(t)
	in := map[string]any{"email": "ana@example.com", "password": "clave-segura", "role": "contador"}

	resp, _ := send(t, app, http.MethodPost, "/api/auth/register", tokenForRole(t, "contador"), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := send(t, app, http.MethodPost, "/api/auth/register", tokenForRole(t, "admin"), in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = send(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "clave-segura"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))

	resp, _ = send(t, app, http.MethodPost, "/api/splits/preview", "Bearer "+login.Token, `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = send(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
