package entity

import "time"

// Tipos de cuenta contable (plan de cuentas).
const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeIncome    = "income"
	AccountTypeExpense   = "expense"
)

// Account representa una cuenta del plan de cuentas (caja, bancos, CxC, CxP, ingresos...).
type Account struct {
	ID        int64
	Code      string // código único del plan de cuentas
	Name      string
	Type      string // ver constantes AccountType*
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidAccountType indica si t es uno de los tipos de cuenta soportados.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}
