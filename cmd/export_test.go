package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rj.csv")

	err := writeExportFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "id;cidade\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id;cidade\n", string(data))
}

func TestWriteExportFile_FailedWriteRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rj.xlsx")
	boom := eris.New("disk full")

	err := writeExportFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial export should be removed")
}

func TestWriteExportFile_CreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "rj.csv")

	err := writeExportFile(path, func(io.Writer) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create")
}
