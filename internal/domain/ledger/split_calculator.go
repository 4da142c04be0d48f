package ledger

import (
	"strings"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Catalog indexa los ítems del catálogo por ID (datos de referencia ya cargados por el caller).
type Catalog map[int64]*entity.Item

// DimensionPolicy define en qué partidas se propagan tercero (people) y unidad.
type DimensionPolicy int

const (
	// PrimaryOnly propaga people/unit solo en la partida de la cuenta principal.
	PrimaryOnly DimensionPolicy = iota
	// AllSplits propaga people/unit en todas las partidas sintetizadas.
	AllSplits
)

// ParseDimensionPolicy interpreta "all" como AllSplits; cualquier otro valor es PrimaryOnly.
func ParseDimensionPolicy(s string) DimensionPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return AllSplits
	}
	return PrimaryOnly
}

// SplitContext selecciones del formulario que viajan sin validarse.
type SplitContext struct {
	PeopleID *int64
	UnitID   *int64
	Policy   DimensionPolicy
}

// ComputeSplits deriva las partidas débito/crédito que se registrarían en el libro mayor
// para las líneas dadas contra la cuenta principal (CxC, caja, bancos...).
//
// Es una función pura: no hace I/O ni muta sus entradas, y dos llamadas con las mismas
// entradas devuelven resultados iguales. Nunca falla; las anomalías quedan en el resultado.
// Sin cuenta principal o sin líneas devuelve el resultado vacío (cuadrado).
//
// Orden de emisión: principal, descuento, pago, créditos de servicio, débitos de servicio.
func ComputeSplits(lines []entity.LineItem, target *entity.Account, catalog Catalog, sctx SplitContext) entity.PreviewResult {
	if target == nil || len(lines) == 0 {
		return emptyResult()
	}

	var (
		discountTotal   = decimal.Zero
		paymentTotal    = decimal.Zero
		serviceTotal    = decimal.Zero
		discountAccount *entity.Account // último visto gana
		paymentAccount  *entity.Account // último visto gana
		serviceCredits  buckets
		serviceDebits   buckets
	)

	for _, line := range lines {
		if line.ItemID == 0 {
			continue
		}
		item, ok := catalog[line.ItemID]
		if !ok || item == nil {
			continue
		}
		switch item.Type {
		case entity.ItemTypeDiscount:
			discountTotal = discountTotal.Add(line.Total.Abs())
			discountAccount = item.IncomeAccount
		case entity.ItemTypePayment:
			paymentTotal = paymentTotal.Add(line.Total.Abs())
			paymentAccount = item.AssetAccount
		case entity.ItemTypeService:
			serviceTotal = serviceTotal.Add(line.Total)
			if item.IncomeAccount == nil {
				continue
			}
			// Sin neteo: créditos y débitos de la misma cuenta quedan en partidas separadas.
			switch line.Total.Sign() {
			case 1:
				serviceCredits.add(item.IncomeAccount, line.Total)
			case -1:
				serviceDebits.add(item.IncomeAccount, line.Total.Abs())
			}
		}
	}

	b := splitBuilder{ctx: sctx, splits: []entity.Split{}}

	primary := serviceTotal.Sub(discountTotal).Sub(paymentTotal)
	switch primary.Sign() {
	case 1:
		b.debit(target, primary, true)
	case -1:
		b.credit(target, primary.Abs(), true)
	}
	if discountTotal.IsPositive() && discountAccount != nil {
		b.debit(discountAccount, discountTotal, false)
	}
	if paymentTotal.IsPositive() && paymentAccount != nil {
		b.debit(paymentAccount, paymentTotal, false)
	}
	for _, e := range serviceCredits.entries {
		if e.sum.IsPositive() {
			b.credit(e.account, e.sum, false)
		}
	}
	for _, e := range serviceDebits.entries {
		if e.sum.IsPositive() {
			b.debit(e.account, e.sum, false)
		}
	}

	totalDebit, totalCredit := sumSplits(b.splits)
	totalCredit = balance(b.splits, totalDebit, totalCredit)

	return entity.PreviewResult{
		Splits:      b.splits,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		IsBalanced:  totalDebit.Equal(totalCredit),
	}
}

// Validate devuelve domain.ErrUnbalanced si el resultado no cuadra. Debe bloquear un registro real.
func Validate(res entity.PreviewResult) error {
	if !res.IsBalanced {
		return domain.ErrUnbalanced
	}
	return nil
}

// balance ajusta el crédito de la primera partida solo-crédito para forzar débitos == créditos.
// Devuelve el total de créditos ajustado. Si no hay partida elegible la diferencia se conserva.
func balance(splits []entity.Split, totalDebit, totalCredit decimal.Decimal) decimal.Decimal {
	if len(splits) == 0 || totalDebit.Equal(totalCredit) {
		return totalCredit
	}
	for i := range splits {
		if splits[i].Credit == nil || splits[i].Debit != nil {
			continue
		}
		delta := totalDebit.Sub(totalCredit)
		adjusted := splits[i].Credit.Add(delta)
		splits[i].Credit = &adjusted
		return totalCredit.Add(delta)
	}
	return totalCredit
}

func sumSplits(splits []entity.Split) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, s := range splits {
		if s.Debit != nil {
			debit = debit.Add(*s.Debit)
		}
		if s.Credit != nil {
			credit = credit.Add(*s.Credit)
		}
	}
	return debit, credit
}

func emptyResult() entity.PreviewResult {
	return entity.PreviewResult{
		Splits:      []entity.Split{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		IsBalanced:  true,
	}
}

// buckets acumula montos por cuenta conservando el orden de primera aparición.
type buckets struct {
	index   map[int64]int
	entries []bucket
}

type bucket struct {
	account *entity.Account
	sum     decimal.Decimal
}

func (b *buckets) add(acc *entity.Account, amount decimal.Decimal) {
	if b.index == nil {
		b.index = make(map[int64]int)
	}
	if i, ok := b.index[acc.ID]; ok {
		b.entries[i].sum = b.entries[i].sum.Add(amount)
		return
	}
	b.index[acc.ID] = len(b.entries)
	b.entries = append(b.entries, bucket{account: acc, sum: amount})
}

// splitBuilder lista de partidas de solo-agregar.
type splitBuilder struct {
	ctx    SplitContext
	splits []entity.Split
}

func (b *splitBuilder) debit(acc *entity.Account, amount decimal.Decimal, primary bool) {
	s := b.newSplit(acc, primary)
	s.Debit = &amount
	b.splits = append(b.splits, s)
}

func (b *splitBuilder) credit(acc *entity.Account, amount decimal.Decimal, primary bool) {
	s := b.newSplit(acc, primary)
	s.Credit = &amount
	b.splits = append(b.splits, s)
}

func (b *splitBuilder) newSplit(acc *entity.Account, primary bool) entity.Split {
	s := entity.Split{AccountID: acc.ID, AccountName: acc.Name}
	if primary || b.ctx.Policy == AllSplits {
		s.PeopleID = copyID(b.ctx.PeopleID)
		s.UnitID = copyID(b.ctx.UnitID)
	}
	return s
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
