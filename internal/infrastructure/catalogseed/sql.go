package catalogseed

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteSQL escribe el seed: primero las cuentas (un INSERT multi-fila) y luego un INSERT por ítem
// que resuelve sus cuentas por código. Re-ejecutarlo actualiza las filas existentes.
func WriteSQL(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("-- Plan de cuentas y catálogo de ítems\n")
	bw.WriteString("-- Generado por seed_catalog\n\n")

	if len(c.Accounts) > 0 {
		bw.WriteString("-- 1. Cuentas\n")
		bw.WriteString("INSERT INTO accounts (code, name, type) VALUES\n")
		for i, a := range c.Accounts {
			sep := ","
			if i == len(c.Accounts)-1 {
				sep = ""
			}
			fmt.Fprintf(bw, "  (%s, %s, %s)%s\n", quote(a.Code), quote(a.Name), quote(a.Type), sep)
		}
		bw.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, updated_at = now();\n\n")
	}

	if len(c.Items) > 0 {
		bw.WriteString("-- 2. Ítems (cuentas por código)\n")
		for _, it := range c.Items {
			bw.WriteString("INSERT INTO items (code, name, type, rate, income_account_id, asset_account_id)\n")
			fmt.Fprintf(bw, "VALUES (%s, %s, %s, %s, %s, %s)\n",
				quote(it.Code), quote(it.Name), quote(it.Type), it.Rate,
				accountRef(it.IncomeAccount), accountRef(it.AssetAccount))
			bw.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, rate = EXCLUDED.rate,\n")
			bw.WriteString("  income_account_id = EXCLUDED.income_account_id, asset_account_id = EXCLUDED.asset_account_id, updated_at = now();\n")
		}
	}

	return bw.Flush()
}

func accountRef(code string) string {
	if code == "" {
		return "NULL"
	}
	return fmt.Sprintf("(SELECT id FROM accounts WHERE code = %s)", quote(code))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
