// Package csvsource lee los seis flat files exportados del sistema origen.
// Los archivos vienen sin cabecera, con el orden de columnas de SELECT *,
// posiblemente con columnas extra al final y filas duplicadas por ID
// (gana la primera aparición). Algunos exports de sqlcmd llegan en ISO-8859-1.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/dashboard-bi-api/internal/domain"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/entity"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Reader parsea el directorio de datos a un Dataset listo para cargar.
type Reader struct {
	dir      string
	encoding string // utf-8 | latin1
}

// NewReader construye el lector. encoding acepta "utf-8" (default) o "latin1".
func NewReader(dir, encoding string) *Reader {
	return &Reader{dir: dir, encoding: encoding}
}

// ReadDataset lee y parsea los seis archivos. Cualquier archivo ausente o
// fila mal formada aborta la lectura: una carga parcial deja FKs rotas.
func (r *Reader) ReadDataset() (*repository.Dataset, error) {
	ds := &repository.Dataset{}

	if err := r.readTable("customers.csv", 4, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		createdAt, err := parseDate(rec[1])
		if err != nil {
			return err
		}
		ds.Customers = append(ds.Customers, entity.Customer{
			ID:        id,
			CreatedAt: createdAt,
			Country:   rec[2],
			Channel:   nullable(rec[3]),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.readTable("stores.csv", 3, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		ds.Stores = append(ds.Stores, entity.Store{ID: id, Name: rec[1], City: rec[2]})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.readTable("products.csv", 3, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		ds.Products = append(ds.Products, entity.Product{ID: id, Category: rec[1], Brand: rec[2]})
		return nil
	}); err != nil {
		return nil, err
	}

	// Orden real del export: order_id, customer_id, order_date, store_id, ...
	if err := r.readTable("orders.csv", 8, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		customerID, err := parseID(rec[1])
		if err != nil {
			return err
		}
		orderDate, err := parseDate(rec[2])
		if err != nil {
			return err
		}
		storeID, err := parseID(rec[3])
		if err != nil {
			return err
		}
		total, err := parseAmount(rec[5])
		if err != nil {
			return err
		}
		discount, err := parseAmount(rec[6])
		if err != nil {
			return err
		}
		shipping, err := parseAmount(rec[7])
		if err != nil {
			return err
		}
		ds.Orders = append(ds.Orders, entity.Order{
			ID:             id,
			CustomerID:     customerID,
			StoreID:        storeID,
			OrderDate:      orderDate,
			Status:         rec[4],
			TotalAmount:    total,
			DiscountAmount: discount,
			ShippingAmount: shipping,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.readTable("order_items.csv", 6, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		orderID, err := parseID(rec[1])
		if err != nil {
			return err
		}
		productID, err := parseID(rec[2])
		if err != nil {
			return err
		}
		qty, err := parseID(rec[3])
		if err != nil {
			return err
		}
		price, err := parseAmount(rec[4])
		if err != nil {
			return err
		}
		cost, err := parseAmount(rec[5])
		if err != nil {
			return err
		}
		ds.Items = append(ds.Items, entity.OrderItem{
			ID:        id,
			OrderID:   orderID,
			ProductID: productID,
			Qty:       qty,
			UnitPrice: price,
			UnitCost:  cost,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.readTable("returns.csv", 5, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		orderID, err := parseID(rec[1])
		if err != nil {
			return err
		}
		returnDate, err := parseDate(rec[2])
		if err != nil {
			return err
		}
		amount, err := parseAmount(rec[3])
		if err != nil {
			return err
		}
		ds.Returns = append(ds.Returns, entity.Return{
			ID:             id,
			OrderID:        orderID,
			ReturnDate:     returnDate,
			AmountReturned: amount,
			Reason:         nullable(rec[4]),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return ds, nil
}

// readTable lee un archivo, deduplica por la primera columna (gana la primera
// aparición), recorta cada fila a cols columnas y rellena con vacío si vienen
// menos, y entrega cada registro al callback.
func (r *Reader) readTable(name string, cols int, handle func(rec []string) error) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingData, path)
	}
	defer f.Close()

	var src io.Reader = f
	if r.encoding == "latin1" {
		src = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // los exports traen columnas extra en algunas tablas

	seen := make(map[string]struct{})
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("leer %s: %w", name, err)
		}
		line++

		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if _, dup := seen[rec[0]]; dup {
			continue
		}
		seen[rec[0]] = struct{}{}

		// Recortar columnas extra; rellenar faltantes con vacío
		if len(rec) > cols {
			rec = rec[:cols]
		}
		for len(rec) < cols {
			rec = append(rec, "")
		}

		if err := handle(rec); err != nil {
			return fmt.Errorf("%s línea %d: %w", name, line, err)
		}
	}
	return nil
}

// dateLayouts formatos aceptados para fechas del export (sqlcmd incluye hora
// y a veces milisegundos).
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha no reconocida: %q", s)
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("entero inválido: %q", s)
	}
	return n, nil
}

// parseAmount parsea un monto decimal; vacío cuenta como cero (los exports
// dejan celdas vacías en lugar de 0.00).
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido: %q", s)
	}
	return d, nil
}

// nullable convierte vacío o el literal NULL del export a nil.
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}
