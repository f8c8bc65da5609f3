package mysql

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
		City:      strPtr("Medellín"),
		Channel:   strPtr("tienda"),
	}
	where := whereFilter(f, &args)

	assert.Equal(t,
		"o.status = 'paid' AND o.order_date >= ? AND o.order_date <= ? AND s.city = ? AND c.channel = ?",
		where)
	require.Len(t, args, 4)
	assert.Equal(t, *f.StartDate, args[0])
	assert.Equal(t, *f.EndDate, args[1])
	assert.Equal(t, "Medellín", args[2])
	assert.Equal(t, "tienda", args[3])
}

// Los valores del filtro jamás aparecen en el texto SQL, solo como parámetros.
func TestWhereFilter_ValuesNeverInlined(t *testing.T) {
	var args []any
	f := repository.ReportFilter{Channel: strPtr("web' OR '1'='1")}
	where := whereFilter(f, &args)

	assert.NotContains(t, where, "OR '1'='1")
	assert.Equal(t, "o.status = 'paid' AND c.channel = ?", where)
	require.Len(t, args, 1)
}
