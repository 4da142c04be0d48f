package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemType clasifica un ítem del catálogo para el cálculo de partidas.
type ItemType int

const (
	ItemTypeUnknown ItemType = iota
	ItemTypeService
	ItemTypeDiscount
	ItemTypePayment
)

// ParseItemType convierte el texto almacenado en ItemType. Cualquier valor no reconocido es Unknown.
func ParseItemType(s string) ItemType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "service":
		return ItemTypeService
	case "discount":
		return ItemTypeDiscount
	case "payment":
		return ItemTypePayment
	default:
		return ItemTypeUnknown
	}
}

// String devuelve el valor persistido ("service", "discount", "payment" o "unknown").
func (t ItemType) String() string {
	switch t {
	case ItemTypeService:
		return "service"
	case ItemTypeDiscount:
		return "discount"
	case ItemTypePayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Item representa un ítem del catálogo (servicio, descuento o pago).
// IncomeAccount aplica a servicios y descuentos; AssetAccount a pagos.
type Item struct {
	ID            int64
	Code          string // código único del catálogo (seed idempotente)
	Name          string
	Type          ItemType
	Rate          decimal.Decimal // tarifa por defecto (cantidad × tarifa)
	IncomeAccount *Account
	AssetAccount  *Account
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
