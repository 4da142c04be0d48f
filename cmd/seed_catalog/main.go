// seed_catalog genera el script SQL que siembra el plan de cuentas y el catálogo de ítems
// a partir de una exportación en XLSX, CSV (UTF-8 o Latin-1) o YAML.
//
// Uso: go run ./cmd/seed_catalog generate --input catalogo.xlsx [--encoding latin1] [--out ruta.sql]
// Por defecto escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/catalogseed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed_catalog",
		Short:         "Genera seeds SQL del plan de cuentas y catálogo de ítems",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var input, encoding, out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Convierte la exportación en un INSERT ... ON CONFLICT idempotente",
		Long: `Columnas esperadas (XLSX/CSV, primera fila como encabezado):
  kind (account|item), code, name, type, rate, income_account, asset_account

En YAML las filas van en las listas "accounts" e "items".
Las filas con kind desconocido se omiten y se reportan al final.
Si un código se repite, gana la última fila.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := catalogseed.ReadFile(input, encoding)
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("crear archivo: %w", err)
			}
			defer f.Close()

			if err := catalogseed.WriteSQL(f, catalog); err != nil {
				return fmt.Errorf("escribir SQL: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generado %s: %d cuentas, %d ítems, %d filas omitidas, %d códigos repetidos\n",
				out, len(catalog.Accounts), len(catalog.Items), catalog.Skipped, catalog.Duplicates)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "archivo de entrada (.xlsx, .csv, .yaml)")
	cmd.Flags().StringVar(&encoding, "encoding", catalogseed.EncodingUTF8, "encoding del CSV: utf8 o latin1")
	cmd.Flags().StringVarP(&out, "out", "o", "", "ruta del SQL generado")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
