package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cartloom/exporter/internal/domain/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCSVWriter_Write(t *testing.T) {
	t.Run("writes header and data rows", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "orders-01-02-2026.csv")
		w := NewCSVWriter(zaptest.NewLogger(t))

		res, err := w.Write(
			[]export.Record{{"order_id": "123"}},
			[]export.FieldMapping{{Enabled: true, DataSource: "order_id", ColumnName: "Order ID"}},
			path,
		)

		require.NoError(t, err)
		require.True(t, res.Produced)
		assert.Equal(t, 1, res.Records)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Order ID\n123\n", string(content))
	})

	t.Run("column order follows mapping order", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")
		w := NewCSVWriter(zaptest.NewLogger(t))

		_, err := w.Write(
			[]export.Record{{"a": "1", "b": "2", "c": "3"}},
			[]export.FieldMapping{
				{Enabled: true, DataSource: "c", ColumnName: "C"},
				{Enabled: true, DataSource: "a", ColumnName: "A"},
				{Enabled: true, DataSource: "b", ColumnName: "B"},
			},
			path,
		)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "C,A,B\n3,1,2\n", string(content))
	})

	t.Run("missing key yields empty cell", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")
		w := NewCSVWriter(zaptest.NewLogger(t))

		_, err := w.Write(
			[]export.Record{{"order_id": "123"}},
			[]export.FieldMapping{
				{Enabled: true, DataSource: "order_id", ColumnName: "Order ID"},
				{Enabled: true, DataSource: "nonexistent", ColumnName: "Missing"},
			},
			path,
		)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Order ID,Missing\n123,\n", string(content))
	})

	t.Run("zero records produce no file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")
		w := NewCSVWriter(zaptest.NewLogger(t))

		res, err := w.Write(nil, []export.FieldMapping{{Enabled: true, DataSource: "a", ColumnName: "A"}}, path)

		require.NoError(t, err)
		assert.False(t, res.Produced)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("zero mappings produce no file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")
		w := NewCSVWriter(zaptest.NewLogger(t))

		res, err := w.Write([]export.Record{{"a": "1"}}, nil, path)

		require.NoError(t, err)
		assert.False(t, res.Produced)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("overwrites existing file in place", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")
		require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o644))
		w := NewCSVWriter(zaptest.NewLogger(t))

		_, err := w.Write(
			[]export.Record{{"a": "1"}},
			[]export.FieldMapping{{Enabled: true, DataSource: "a", ColumnName: "A"}},
			path,
		)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "A\n1\n", string(content))
	})

	t.Run("cells with commas are quoted", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.csv")
		w := NewCSVWriter(zaptest.NewLogger(t))

		_, err := w.Write(
			[]export.Record{{"items": "name:Widget|qty:2,name:Gadget|qty:1"}},
			[]export.FieldMapping{{Enabled: true, DataSource: "items", ColumnName: "Items"}},
			path,
		)

		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Items\n\"name:Widget|qty:2,name:Gadget|qty:1\"\n", string(content))
	})
}

func TestValidateFileIntegrity(t *testing.T) {
	t.Run("missing file fails", func(t *testing.T) {
		assert.Error(t, ValidateFileIntegrity(filepath.Join(t.TempDir(), "nope.csv")))
	})

	t.Run("empty file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		assert.Error(t, ValidateFileIntegrity(path))
	})

	t.Run("header without delimiter fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "one.csv")
		require.NoError(t, os.WriteFile(path, []byte("header\nvalue\n"), 0o644))
		assert.Error(t, ValidateFileIntegrity(path))
	})

	t.Run("delimited header passes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ok.csv")
		require.NoError(t, os.WriteFile(path, []byte("Order ID,Total\n123,10.00\n"), 0o644))
		assert.NoError(t, ValidateFileIntegrity(path))
	})
}
