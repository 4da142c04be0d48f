package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "catalogo.csv")
	out := filepath.Join(dir, "seed.sql")
	require.NoError(t, os.WriteFile(in, []byte("kind,code,name,type\naccount,1305,Clientes,asset\nitem,S,Servicio,service\nnota,,,\n"), 0o600))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"generate", "--input", in, "--out", out})
	require.NoError(t, cmd.Execute())

	sql, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(sql), "INSERT INTO accounts")
	assert.Contains(t, stdout.String(), "1 cuentas, 1 ítems, 1 filas omitidas")
}

func TestGenerate_SinInput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"generate"})
	assert.Error(t, cmd.Execute())
}
