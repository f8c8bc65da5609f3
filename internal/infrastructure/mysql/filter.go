package mysql

import (
	"strings"

	"github.com/jhoicas/dashboard-bi-api/internal/domain/entity"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
)

// whereFilter construye el predicado conjuntivo del filtro con placeholders ?
// en orden de aparición, acumulando los valores en args. Los valores van
// siempre como parámetros ligados.
//
// Asume los alias o (orders), s (stores) y c (customers). Incluye siempre el
// predicado base o.status = 'paid'.
func whereFilter(f repository.ReportFilter, args *[]any) string {
	conds := []string{"o.status = '" + entity.StatusPaid + "'"}

	if f.StartDate != nil {
		conds = append(conds, "o.order_date >= ?")
		*args = append(*args, *f.StartDate)
	}
	if f.EndDate != nil {
		conds = append(conds, "o.order_date <= ?")
		*args = append(*args, *f.EndDate)
	}
	if f.City != nil {
		conds = append(conds, "s.city = ?")
		*args = append(*args, *f.City)
	}
	if f.Channel != nil {
		conds = append(conds, "c.channel = ?")
		*args = append(*args, *f.Channel)
	}

	return strings.Join(conds, " AND ")
}
