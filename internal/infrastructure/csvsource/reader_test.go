package csvsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jhoicas/dashboard-bi-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataDir crea un directorio de datos completo; files permite
// sobreescribir el contenido de archivos puntuales.
func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	defaults := map[string]string{
		"customers.csv":   "1,2024-01-05,CO,web\n2,2024-02-10 08:30:00,CO,\n",
		"stores.csv":      "1,Tienda Norte,Bogotá\n",
		"products.csv":    "1,Tecnología,Acme\n",
		"orders.csv":      "1,1,2024-03-01,1,paid,100.00,10.00,5.00\n",
		"order_items.csv": "1,1,1,2,50.00,30.00\n",
		"returns.csv":     "1,1,2024-03-10,20.00,dañado\n",
	}
	for name, content := range files {
		defaults[name] = content
	}
	for name, content := range defaults {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestReadDataset_Complete(t *testing.T) {
	dir := writeDataDir(t, nil)
	r := NewReader(dir, "utf-8")

	ds, err := r.ReadDataset()
	require.NoError(t, err)

	require.Len(t, ds.Customers, 2)
	assert.Equal(t, int64(1), ds.Customers[0].ID)
	require.NotNil(t, ds.Customers[0].Channel)
	assert.Equal(t, "web", *ds.Customers[0].Channel)
	// Canal vacío queda nil.
	assert.Nil(t, ds.Customers[1].Channel)

	require.Len(t, ds.Orders, 1)
	o := ds.Orders[0]
	assert.Equal(t, "paid", o.Status)
	assert.Equal(t, "2024-03-01", o.OrderDate.Format("2006-01-02"))
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, o.DiscountAmount.Equal(decimal.RequireFromString("10.00")))

	require.Len(t, ds.Items, 1)
	assert.Equal(t, int64(2), ds.Items[0].Qty)

	require.Len(t, ds.Returns, 1)
	require.NotNil(t, ds.Returns[0].Reason)
	assert.Equal(t, "dañado", *ds.Returns[0].Reason)
}

func TestReadDataset_MissingFile(t *testing.T) {
	dir := writeDataDir(t, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, "returns.csv")))
	r := NewReader(dir, "utf-8")

	_, err := r.ReadDataset()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingData)
}

func TestReadDataset_DuplicatesFirstWins(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"stores.csv": "1,Tienda Norte,Bogotá\n1,Tienda Repetida,Cali\n2,Tienda Sur,Medellín\n",
	})
	r := NewReader(dir, "utf-8")

	ds, err := r.ReadDataset()
	require.NoError(t, err)

	require.Len(t, ds.Stores, 2)
	assert.Equal(t, "Tienda Norte", ds.Stores[0].Name)
	assert.Equal(t, "Medellín", ds.Stores[1].City)
}

func TestReadDataset_ExtraAndMissingColumns(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		// Columna extra al final y fila corta (canal ausente).
		"customers.csv": "1,2024-01-05,CO,web,columna-extra\n2,2024-02-10,CO\n",
	})
	r := NewReader(dir, "utf-8")

	ds, err := r.ReadDataset()
	require.NoError(t, err)

	require.Len(t, ds.Customers, 2)
	require.NotNil(t, ds.Customers[0].Channel)
	assert.Equal(t, "web", *ds.Customers[0].Channel)
	assert.Nil(t, ds.Customers[1].Channel)
}

func TestReadDataset_Latin1(t *testing.T) {
	// "Bogotá" en ISO-8859-1: la á es el byte 0xE1.
	dir := writeDataDir(t, map[string]string{
		"stores.csv": "1,Tienda Centro,Bogot\xe1\n",
	})
	r := NewReader(dir, "latin1")

	ds, err := r.ReadDataset()
	require.NoError(t, err)
	require.Len(t, ds.Stores, 1)
	assert.Equal(t, "Bogotá", ds.Stores[0].City)
}

func TestReadDataset_BadRowAborts(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"orders.csv": "no-es-numero,1,2024-03-01,1,paid,100.00,0,0\n",
	})
	r := NewReader(dir, "utf-8")

	_, err := r.ReadDataset()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders.csv")
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-01-15",
		"2024-01-15 10:30:00",
		"2024-01-15 10:30:00.500",
		"2024-01-15T10:30:00",
	} {
		got, err := parseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, "2024-01-15", got.Format("2006-01-02"), s)
	}

	_, err := parseDate("15/01/2024")
	assert.Error(t, err)
}

func TestParseAmount_EmptyIsZero(t *testing.T) {
	got, err := parseAmount("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseAmount(" 12.50 ")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("12.50")))

	_, err = parseAmount("abc")
	assert.Error(t, err)
}
