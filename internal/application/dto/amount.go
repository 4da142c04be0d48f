package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Límites de un monto aceptado. Fuera de ellos el valor se trata como inválido (0).
const (
	maxAmountDigits   = 28
	maxAmountExponent = 30
	maxAmountLen      = 64
)

// Amount monto decimal tolerante: acepta número o string numérico; vacío, inválido o fuera de rango cuenta como 0.
type Amount struct {
	decimal.Decimal
}

// NewAmount envuelve un decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// UnmarshalJSON nunca falla.
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Decimal = decimal.Zero
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = []byte(strings.TrimSpace(s))
	}
	if len(raw) > maxAmountLen {
		return nil
	}
	if d, err := decimal.NewFromString(string(raw)); err == nil && inAmountRange(d) {
		a.Decimal = d
	}
	return nil
}

// inAmountRange acota dígitos significativos y exponente.
func inAmountRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return d.NumDigits() <= maxAmountDigits && exp >= -maxAmountExponent && exp <= maxAmountExponent
}

// ID identificador tolerante: acepta número o string numérico; inválido cuenta como 0 (sin referencia).
type ID int64

// UnmarshalJSON nunca falla.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = 0
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = []byte(strings.TrimSpace(s))
	}
	if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil && n > 0 {
		*id = ID(n)
	}
	return nil
}

// Ptr devuelve nil para un ID nil o 0.
func (id *ID) Ptr() *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	v := int64(*id)
	return &v
}
