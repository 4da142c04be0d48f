package dto

import "github.com/shopspring/decimal"

// PreviewLineRequest línea de la transacción en edición.
// Si Total viene, es el valor manual; si no, se calcula quantity × rate (rate por defecto: tarifa del ítem).
type PreviewLineRequest struct {
	ItemID   ID      `json:"item_id"`
	Total    *Amount `json:"total,omitempty"`
	Quantity *Amount `json:"quantity,omitempty"`
	Rate     *Amount `json:"rate,omitempty"`
}

// PreviewRequest cuerpo de POST /api/splits/preview.
type PreviewRequest struct {
	LineItems       []PreviewLineRequest `json:"line_items"`
	TargetAccountID ID                   `json:"target_account_id"`
	PeopleID        *ID                  `json:"people_id"`
	UnitID          *ID                  `json:"unit_id"`
}

// SplitResponse partida sintetizada; exactamente uno de debit/credit es no nulo.
type SplitResponse struct {
	AccountID   int64            `json:"account_id"`
	AccountName string           `json:"account_name"`
	PeopleID    *int64           `json:"people_id"`
	UnitID      *int64           `json:"unit_id"`
	Debit       *decimal.Decimal `json:"debit"`
	Credit      *decimal.Decimal `json:"credit"`
}

// PreviewResponse partidas en orden de emisión y totales.
type PreviewResponse struct {
	Splits      []SplitResponse `json:"splits"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	IsBalanced  bool            `json:"is_balanced"`
}
