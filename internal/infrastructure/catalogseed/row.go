// Package catalogseed lee exportaciones del plan de cuentas y del catálogo de ítems
// (XLSX, CSV o YAML) y genera el SQL de seed idempotente.
package catalogseed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// Tipos de fila.
const (
	KindAccount = "account"
	KindItem    = "item"
)

// Columnas reconocidas en el encabezado de XLSX/CSV (sin distinguir mayúsculas).
var columns = []string{"kind", "code", "name", "type", "rate", "income_account", "asset_account"}

// Row fila normalizada de la exportación. Las cuentas de un ítem se referencian por código.
type Row struct {
	Kind          string `yaml:"kind"`
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Rate          string `yaml:"rate"`
	IncomeAccount string `yaml:"income_account"`
	AssetAccount  string `yaml:"asset_account"`
}

// Catalog resultado de la lectura: cuentas e ítems en orden de aparición.
// Un código repetido reemplaza la fila anterior en su posición original (gana la última).
type Catalog struct {
	Accounts   []Row
	Items      []Row
	Skipped    int // filas con kind desconocido
	Duplicates int // filas que reemplazaron a otra con el mismo código

	accountIdx map[string]int
	itemIdx    map[string]int
}

// put agrega r a rows o reemplaza la fila con el mismo código.
func (c *Catalog) put(rows *[]Row, idx *map[string]int, r Row) {
	if *idx == nil {
		*idx = make(map[string]int)
	}
	if i, ok := (*idx)[r.Code]; ok {
		(*rows)[i] = r
		c.Duplicates++
		return
	}
	(*idx)[r.Code] = len(*rows)
	*rows = append(*rows, r)
}

func (r Row) normalize() Row {
	return Row{
		Kind:          strings.ToLower(strings.TrimSpace(r.Kind)),
		Code:          strings.TrimSpace(r.Code),
		Name:          strings.TrimSpace(r.Name),
		Type:          strings.ToLower(strings.TrimSpace(r.Type)),
		Rate:          strings.TrimSpace(r.Rate),
		IncomeAccount: strings.TrimSpace(r.IncomeAccount),
		AssetAccount:  strings.TrimSpace(r.AssetAccount),
	}
}

// add valida la fila y la agrega según su kind. line es la posición en el archivo (1-based).
func (c *Catalog) add(r Row, line int) error {
	r = r.normalize()
	switch r.Kind {
	case KindAccount:
		if r.Code == "" || r.Name == "" {
			return fmt.Errorf("fila %d: cuenta sin código o nombre", line)
		}
		if !entity.ValidAccountType(r.Type) {
			return fmt.Errorf("fila %d: tipo de cuenta %q inválido", line, r.Type)
		}
		c.put(&c.Accounts, &c.accountIdx, r)
	case KindItem:
		if r.Code == "" || r.Name == "" {
			return fmt.Errorf("fila %d: ítem sin código o nombre", line)
		}
		if entity.ParseItemType(r.Type) == entity.ItemTypeUnknown {
			return fmt.Errorf("fila %d: tipo de ítem %q inválido", line, r.Type)
		}
		if r.Rate == "" {
			r.Rate = "0"
		}
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return fmt.Errorf("fila %d: tarifa %q inválida", line, r.Rate)
		}
		r.Rate = rate.String()
		c.put(&c.Items, &c.itemIdx, r)
	default:
		c.Skipped++
	}
	return nil
}
