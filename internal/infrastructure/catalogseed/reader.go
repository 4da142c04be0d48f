package catalogseed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Encodings soportados para CSV.
const (
	EncodingUTF8   = "utf8"
	EncodingLatin1 = "latin1"
)

// ReadFile elige el lector según la extensión (.xlsx, .csv, .yaml/.yml).
// encoding solo aplica a CSV.
func ReadFile(path, encoding string) (*Catalog, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return ReadXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	switch ext {
	case ".csv":
		return ReadCSV(f, encoding)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("extensión %q no soportada (xlsx, csv, yaml)", ext)
	}
}

// ReadXLSX lee la primera hoja del libro; la primera fila es el encabezado.
func ReadXLSX(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("xlsx sin hojas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	return fromRecords(rows)
}

// ReadCSV lee un CSV con encabezado. Con encoding latin1 el contenido se decodifica desde ISO-8859-1.
func ReadCSV(r io.Reader, encoding string) (*Catalog, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf-8":
	case EncodingLatin1, "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("encoding %q no soportado", encoding)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return fromRecords(records)
}

// yamlCatalog documento YAML: cuentas e ítems en listas separadas.
type yamlCatalog struct {
	Accounts []Row `yaml:"accounts"`
	Items    []Row `yaml:"items"`
}

// ReadYAML lee un documento con listas accounts e items; el kind de cada fila lo da la lista.
func ReadYAML(r io.Reader) (*Catalog, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("leer yaml: %w", err)
	}
	c := &Catalog{}
	for i, row := range doc.Accounts {
		row.Kind = KindAccount
		if err := c.add(row, i+1); err != nil {
			return nil, fmt.Errorf("accounts: %w", err)
		}
	}
	for i, row := range doc.Items {
		row.Kind = KindItem
		if err := c.add(row, i+1); err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
	}
	return c, nil
}

// fromRecords mapea filas tabulares usando el encabezado; columnas faltantes quedan vacías.
func fromRecords(records [][]string) (*Catalog, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	idx := make(map[string]int, len(columns))
	for i, h := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"kind", "code", "name", "type"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("encabezado sin columna %q", required)
		}
	}

	c := &Catalog{}
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		row := Row{
			Kind:          get("kind"),
			Code:          get("code"),
			Name:          get("name"),
			Type:          get("type"),
			Rate:          get("rate"),
			IncomeAccount: get("income_account"),
			AssetAccount:  get("asset_account"),
		}
		if err := c.add(row, n+2); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
