package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	domainledger "github.com/jhoicas/Contabilidad-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAccounts struct {
	accounts map[int64]*entity.Account
	err      error
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts[id], nil
}

type fakeItems struct {
	items map[int64]*entity.Item
	err   error
	calls [][]int64
}

func (f *fakeItems) GetByIDs(_ context.Context, ids []int64) ([]*entity.Item, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Item
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

var (
	ar      = &entity.Account{ID: 1100, Code: "1305", Name: "Clientes"}
	rent    = &entity.Account{ID: 4100, Code: "4155", Name: "Arrendamientos"}
	discAcc = &entity.Account{ID: 4900, Code: "5305", Name: "Descuentos"}
	bank    = &entity.Account{ID: 1110, Code: "1110", Name: "Bancos"}
)

func newUseCase(policy domainledger.DimensionPolicy) (*ledger.PreviewUseCase, *fakeAccounts, *fakeItems) {
	accounts := &fakeAccounts{accounts: map[int64]*entity.Account{ar.ID: ar}}
	items := &fakeItems{items: map[int64]*entity.Item{
		1: {ID: 1, Name: "Arriendo", Type: entity.ItemTypeService, Rate: decimal.NewFromInt(40), IncomeAccount: rent},
		2: {ID: 2, Name: "Descuento", Type: entity.ItemTypeDiscount, IncomeAccount: discAcc},
		3: {ID: 3, Name: "Abono", Type: entity.ItemTypePayment, AssetAccount: bank},
		4: {ID: 4, Name: "Servicio sin cuenta", Type: entity.ItemTypeService},
	}}
	return ledger.NewPreviewUseCase(accounts, items, policy, nil), accounts, items
}

func decodeRequest(t *testing.T, body string) dto.PreviewRequest {
	t.Helper()
	var req dto.PreviewRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func amount(t *testing.T, d *decimal.Decimal) string {
	t.Helper()
	require.NotNil(t, d)
	return d.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPreview_Descuento(t *testing.T) {
	uc, _, items := newUseCase(domainledger.PrimaryOnly)
	req := decodeRequest(t, `{"line_items":[{"item_id":1,"total":100},{"item_id":2,"total":-20}],"target_account_id":1100,"people_id":7}`)

	resp, err := uc.Preview(context.Background(), req, false)
	require.NoError(t, err)

	require.Len(t, resp.Splits, 3)
	assert.Equal(t, ar.ID, resp.Splits[0].AccountID)
	assert.Equal(t, "Clientes", resp.Splits[0].AccountName)
	assert.Equal(t, "80", amount(t, resp.Splits[0].Debit))
	require.NotNil(t, resp.Splits[0].PeopleID)
	assert.Equal(t, int64(7), *resp.Splits[0].PeopleID)
	assert.Equal(t, "20", amount(t, resp.Splits[1].Debit))
	assert.Nil(t, resp.Splits[1].PeopleID)
	assert.Equal(t, "100", amount(t, resp.Splits[2].Credit))
	assert.True(t, resp.IsBalanced)

	require.Len(t, items.calls, 1, "una sola carga del catálogo")
	assert.ElementsMatch(t, []int64{1, 2}, items.calls[0])
}

func TestPreview_CantidadPorTarifa(t *testing.T) {
	uc, _, _ := newUseCase(domainledger.PrimaryOnly)
	req := decodeRequest(t, `{"line_items":[
		{"item_id":1,"quantity":3},
		{"item_id":1,"quantity":"2","rate":"5.5"},
		{"item_id":1,"quantity":1,"rate":1000,"total":7}
	],"target_account_id":1100}`)

	resp, err := uc.Preview(context.Background(), req, false)
	require.NoError(t, err)

	// 3 × 40 (tarifa del ítem) + 2 × 5.5 + 7 (manual) = 138
	require.Len(t, resp.Splits, 2)
	assert.Equal(t, "138", amount(t, resp.Splits[0].Debit))
	assert.Equal(t, "138", amount(t, resp.Splits[1].Credit))
}

func TestPreview_ValoresInvalidosCuentanComoCero(t *testing.T) {
	uc, _, _ := newUseCase(domainledger.PrimaryOnly)
	req := decodeRequest(t, `{"line_items":[{"item_id":1,"total":"abc"},{"item_id":1,"total":50},{"item_id":1}],"target_account_id":1100}`)

	resp, err := uc.Preview(context.Background(), req, false)
	require.NoError(t, err)
	require.Len(t, resp.Splits, 2)
	assert.Equal(t, "50", amount(t, resp.Splits[0].Debit))
}

func TestPreview_MontoFueraDeRangoCuentaComoCero(t *testing.T) {
	uc, _, _ := newUseCase(domainledger.PrimaryOnly)
	req := decodeRequest(t, `{"line_items":[
		{"item_id":1,"total":"1e30000000"},
		{"item_id":1,"quantity":"1e-30000000","rate":3},
		{"item_id":1,"total":1}
	],"target_account_id":1100}`)

	resp, err := uc.Preview(context.Background(), req, false)
	require.NoError(t, err)
	require.Len(t, resp.Splits, 2)
	assert.Equal(t, "1", amount(t, resp.Splits[0].Debit))
	assert.Equal(t, "1", resp.TotalDebit.String())
}

func TestPreview_NoListo(t *testing.T) {
	cases := map[string]string{
		"sin cuenta":        `{"line_items":[{"item_id":1,"total":100}]}`,
		"cuenta inexistente": `{"line_items":[{"item_id":1,"total":100}],"target_account_id":999}`,
		"sin líneas":        `{"line_items":[],"target_account_id":1100}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			uc, _, items := newUseCase(domainledger.PrimaryOnly)
			resp, err := uc.Preview(context.Background(), decodeRequest(t, body), true)
			require.NoError(t, err)
			assert.NotNil(t, resp.Splits)
			assert.Empty(t, resp.Splits)
			assert.True(t, resp.TotalDebit.IsZero())
			assert.True(t, resp.TotalCredit.IsZero())
			assert.True(t, resp.IsBalanced)
			assert.Empty(t, items.calls)
		})
	}
}

func TestPreview_Descuadrado(t *testing.T) {
	body := `{"line_items":[{"item_id":4,"total":100}],"target_account_id":1100}`

	t.Run("normal", func(t *testing.T) {
		uc, _, _ := newUseCase(domainledger.PrimaryOnly)
		resp, err := uc.Preview(context.Background(), decodeRequest(t, body), false)
		require.NoError(t, err)
		assert.False(t, resp.IsBalanced)
	})

	t.Run("estricto", func(t *testing.T) {
		uc, _, _ := newUseCase(domainledger.PrimaryOnly)
		resp, err := uc.Preview(context.Background(), decodeRequest(t, body), true)
		assert.ErrorIs(t, err, domain.ErrUnbalanced)
		require.NotNil(t, resp)
		assert.False(t, resp.IsBalanced)
		assert.Equal(t, "100", resp.TotalDebit.String())
		assert.Equal(t, "0", resp.TotalCredit.String())
	})
}

func TestPreview_PoliticaTodasLasPartidas(t *testing.T) {
	uc, _, _ := newUseCase(domainledger.AllSplits)
	req := decodeRequest(t, `{"line_items":[{"item_id":1,"total":50},{"item_id":3,"total":-50}],"target_account_id":1100,"people_id":"7","unit_id":3}`)

	resp, err := uc.Preview(context.Background(), req, false)
	require.NoError(t, err)
	require.Len(t, resp.Splits, 2)
	for _, s := range resp.Splits {
		require.NotNil(t, s.PeopleID)
		require.NotNil(t, s.UnitID)
		assert.Equal(t, int64(7), *s.PeopleID)
		assert.Equal(t, int64(3), *s.UnitID)
	}
	assert.Equal(t, bank.ID, resp.Splits[0].AccountID)
}

func TestPreview_ErroresDeRepositorio(t *testing.T) {
	boom := errors.New("conexión perdida")
	req := `{"line_items":[{"item_id":1,"total":100}],"target_account_id":1100}`

	t.Run("cuentas", func(t *testing.T) {
		uc, accounts, _ := newUseCase(domainledger.PrimaryOnly)
		accounts.err = boom
		_, err := uc.Preview(context.Background(), decodeRequest(t, req), false)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("ítems", func(t *testing.T) {
		uc, _, items := newUseCase(domainledger.PrimaryOnly)
		items.err = boom
		_, err := uc.Preview(context.Background(), decodeRequest(t, req), false)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPreview_ItemsDesconocidosYDuplicados(t *testing.T) {
	uc, _, items := newUseCase(domainledger.PrimaryOnly)
	req := decodeRequest(t, `{"line_items":[{"item_id":1,"total":10},{"item_id":1,"total":5},{"item_id":77,"total":500},{"item_id":0,"total":1}],"target_account_id":1100}`)

	resp, err := uc.Preview(context.Background(), req, false)
	require.NoError(t, err)
	require.Len(t, items.calls, 1)
	assert.ElementsMatch(t, []int64{1, 77}, items.calls[0])
	assert.Equal(t, "15", resp.TotalDebit.String())
	assert.True(t, resp.IsBalanced)
}
