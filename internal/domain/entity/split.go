package entity

import "github.com/shopspring/decimal"

// LineItem es una línea de la transacción en edición (factura, recibo de venta).
// Total ya viene neto de cantidad × tarifa o de un valor manual.
type LineItem struct {
	ItemID int64
	Total  decimal.Decimal
}

// Split es una partida contable sintetizada por el cálculo de vista previa.
// Exactamente uno de Debit o Credit es distinto de nil.
type Split struct {
	AccountID   int64
	AccountName string
	PeopleID    *int64
	UnitID      *int64
	Debit       *decimal.Decimal
	Credit      *decimal.Decimal
}

// PreviewResult resultado del cálculo: partidas en orden de emisión y totales.
type PreviewResult struct {
	Splits      []Split
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	IsBalanced  bool
}
