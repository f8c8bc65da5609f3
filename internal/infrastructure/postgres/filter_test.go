package postgres

import (
	"testing"
	"time"

	"github.com/jhoicas/dashboard-bi-api/internal/domain/entity"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestWhereFilter_Empty(t *testing.T) {
	var args []any
	where := whereFilter(repository.ReportFilter{}, &args)

	assert.Equal(t, "o.status = '"+entity.StatusPaid+"'", where)
	assert.Empty(t, args)
}

func TestWhereFilter_AllFields(t *testing.T) {
	var args []any
	f := repository.ReportFilter{
		StartDate: datePtr("2024-01-01"),
		EndDate:   datePtr("2024-06-30"),
		City:      strPtr("Bogotá"),
		Channel:   strPtr("web"),
	}
	where := whereFilter(f, &args)

	assert.Equal(t,
		"o.status = 'paid' AND o.order_date >= $1 AND o.order_date <= $2 AND s.city = $3 AND c.channel = $4",
		where)
	require.Len(t, args, 4)
	assert.Equal(t, *f.StartDate, args[0])
	assert.Equal(t, *f.EndDate, args[1])
	assert.Equal(t, "Bogotá", args[2])
	assert.Equal(t, "web", args[3])
}

// La numeración de placeholders continúa desde los argumentos ya acumulados,
// para consultas con varias CTEs que comparten el slice de args.
func TestWhereFilter_ContinuesNumbering(t *testing.T) {
	args := []any{"previo"}
	f := repository.ReportFilter{City: strPtr("Cali")}
	where := whereFilter(f, &args)

	assert.Equal(t, "o.status = 'paid' AND s.city = $2", where)
	require.Len(t, args, 2)
	assert.Equal(t, "Cali", args[1])
}

// Los valores del filtro jamás aparecen en el texto SQL, solo como parámetros.
func TestWhereFilter_ValuesNeverInlined(t *testing.T) {
	var args []any
	f := repository.ReportFilter{City: strPtr("'; DROP TABLE orders; --")}
	where := whereFilter(f, &args)

	assert.NotContains(t, where, "DROP TABLE")
	assert.Equal(t, "o.status = 'paid' AND s.city = $1", where)
	require.Len(t, args, 1)
	assert.Equal(t, "'; DROP TABLE orders; --", args[0])
}
