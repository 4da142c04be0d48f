package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem del catálogo.
type CreateItemRequest struct {
	Code            string          `json:"code" validate:"required,min=1,max=32"`
	Name            string          `json:"name" validate:"required,min=1,max=255"`
	Type            string          `json:"type" validate:"required,oneof=service discount payment"`
	Rate            decimal.Decimal `json:"rate"`
	IncomeAccountID *int64          `json:"income_account_id" validate:"omitempty,gt=0"`
	AssetAccountID  *int64          `json:"asset_account_id" validate:"omitempty,gt=0"`
}

// UpdateItemRequest entrada para actualizar un ítem; solo se aplican los campos presentes.
// Un account_id en 0 desvincula la cuenta.
type UpdateItemRequest struct {
	Code            *string          `json:"code" validate:"omitempty,min=1,max=32"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Type            *string          `json:"type" validate:"omitempty,oneof=service discount payment"`
	Rate            *decimal.Decimal `json:"rate"`
	IncomeAccountID *int64           `json:"income_account_id" validate:"omitempty,gte=0"`
	AssetAccountID  *int64           `json:"asset_account_id" validate:"omitempty,gte=0"`
}

// ItemResponse salida de un ítem con sus cuentas.
type ItemResponse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Rate          decimal.Decimal `json:"rate"`
	IncomeAccount *AccountRef     `json:"income_account"`
	AssetAccount  *AccountRef     `json:"asset_account"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
