package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/dashboard-bi-api/internal/domain/entity"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
)

// whereFilter construye el predicado conjuntivo del filtro con placeholders
// posicionales, numerados a continuación de los argumentos ya acumulados en
// args. Los valores van siempre como parámetros ligados; el texto SQL generado
// solo contiene nombres de columna fijos.
//
// Asume los alias o (orders), s (stores) y c (customers) en la consulta que lo
// recibe. Incluye siempre el predicado base o.status = 'paid'.
func whereFilter(f repository.ReportFilter, args *[]any) string {
	conds := []string{"o.status = '" + entity.StatusPaid + "'"}

	add := func(format string, v any) {
		*args = append(*args, v)
		conds = append(conds, fmt.Sprintf(format, len(*args)))
	}

	if f.StartDate != nil {
		add("o.order_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("o.order_date <= $%d", *f.EndDate)
	}
	if f.City != nil {
		add("s.city = $%d", *f.City)
	}
	if f.Channel != nil {
		add("c.channel = $%d", *f.Channel)
	}

	return strings.Join(conds, " AND ")
}
