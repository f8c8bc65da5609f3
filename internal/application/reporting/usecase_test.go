package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/dashboard-bi-api/internal/application/dto"
	"github.com/jhoicas/dashboard-bi-api/internal/domain"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeRepo implementación en memoria para los tests del caso de uso.
// Registra el último filtro recibido para verificar la anulación de
// city/channel en los desgloses.
type fakeRepo struct {
	monthly    []repository.MonthlyKPIRow
	returns    decimal.Decimal
	trend      []repository.TrendRow
	cities     []repository.CitySalesRow
	channels   []repository.ChannelSalesRow
	categories []repository.CategorySalesRow
	products   []repository.ProductMarginRow
	cohorts    []repository.CohortRow
	options    repository.FilterOptions

	err        error
	lastFilter repository.ReportFilter
	lastLimit  int
}

var _ repository.ReportingRepository = (*fakeRepo)(nil)

func (f *fakeRepo) MonthlyKPIs(_ context.Context, flt repository.ReportFilter) ([]repository.MonthlyKPIRow, error) {
	f.lastFilter = flt
	return f.monthly, f.err
}

func (f *fakeRepo) TotalReturns(_ context.Context, flt repository.ReportFilter) (decimal.Decimal, error) {
	return f.returns, f.err
}

func (f *fakeRepo) MonthlyTrend(_ context.Context, flt repository.ReportFilter) ([]repository.TrendRow, error) {
	f.lastFilter = flt
	return f.trend, f.err
}

func (f *fakeRepo) SalesByCity(_ context.Context, flt repository.ReportFilter) ([]repository.CitySalesRow, error) {
	f.lastFilter = flt
	return f.cities, f.err
}

func (f *fakeRepo) SalesByChannel(_ context.Context, flt repository.ReportFilter) ([]repository.ChannelSalesRow, error) {
	f.lastFilter = flt
	return f.channels, f.err
}

func (f *fakeRepo) SalesByCategory(_ context.Context, flt repository.ReportFilter) ([]repository.CategorySalesRow, error) {
	f.lastFilter = flt
	return f.categories, f.err
}

func (f *fakeRepo) TopProducts(_ context.Context, flt repository.ReportFilter, limit int) ([]repository.ProductMarginRow, error) {
	f.lastFilter = flt
	f.lastLimit = limit
	return f.products, f.err
}

func (f *fakeRepo) NewVsReturning(_ context.Context, flt repository.ReportFilter) ([]repository.CohortRow, error) {
	f.lastFilter = flt
	return f.cohorts, f.err
}

func (f *fakeRepo) FilterOptions(_ context.Context) (*repository.FilterOptions, error) {
	return &f.options, f.err
}

func TestGetKPIs_DerivedMetrics(t *testing.T) {
	repo := &fakeRepo{
		monthly: []repository.MonthlyKPIRow{
			{Month: "2024-01", GrossSales: dec("1000"), NetSales: dec("900"), COGS: dec("500"), Units: 10, Orders: 5},
			{Month: "2024-02", GrossSales: dec("2000"), NetSales: dec("1800"), COGS: dec("1000"), Units: 20, Orders: 10},
		},
		returns: dec("200"),
	}
	uc := NewUseCase(repo)

	kpis, err := uc.GetKPIs(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)

	// MTD = neto del último mes; YTD = Σ neto − devoluciones.
	assert.True(t, kpis.NetSalesMTD.Equal(dec("1800")), "MTD: %s", kpis.NetSalesMTD)
	assert.True(t, kpis.NetSalesYTD.Equal(dec("2500")), "YTD: %s", kpis.NetSalesYTD)
	// Margen = Σ neto − Σ COGS (sin restar devoluciones).
	assert.True(t, kpis.GrossMargin.Equal(dec("1200")), "margen: %s", kpis.GrossMargin)
	// 1200 / 2500 × 100 = 48
	assert.True(t, kpis.GrossMarginPct.Equal(dec("48")), "%%margen: %s", kpis.GrossMarginPct)
	assert.Equal(t, int64(15), kpis.TotalOrders)
	assert.Equal(t, int64(30), kpis.TotalUnits)
	// AOV = netYTD / órdenes = 2500/15 = 166.67
	assert.True(t, kpis.AOV.Equal(dec("166.67")), "AOV: %s", kpis.AOV)
	// Tasa de devolución sobre bruto: 200/3000 × 100 = 6.67
	assert.True(t, kpis.ReturnRate.Equal(dec("6.67")), "tasa: %s", kpis.ReturnRate)
	assert.True(t, kpis.TotalReturns.Equal(dec("200")))
}

func TestGetKPIs_EmptyWindow(t *testing.T) {
	uc := NewUseCase(&fakeRepo{})

	kpis, err := uc.GetKPIs(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)

	// Sin datos todo queda en cero; ninguna división por cero.
	assert.True(t, kpis.NetSalesMTD.IsZero())
	assert.True(t, kpis.NetSalesYTD.IsZero())
	assert.True(t, kpis.AOV.IsZero())
	assert.True(t, kpis.GrossMarginPct.IsZero())
	assert.True(t, kpis.ReturnRate.IsZero())
	assert.Equal(t, int64(0), kpis.TotalOrders)
}

func TestGetKPIs_InvalidDate(t *testing.T) {
	uc := NewUseCase(&fakeRepo{})

	_, err := uc.GetKPIs(context.Background(), dto.ReportQuery{StartDate: "03/01/2024"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = uc.GetKPIs(context.Background(), dto.ReportQuery{EndDate: "2024-13-45"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestGetKPIs_FilterParsing(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUseCase(repo)

	_, err := uc.GetKPIs(context.Background(), dto.ReportQuery{
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
		City:      "Bogotá",
		Channel:   "web",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Equal(t, "2024-01-01", repo.lastFilter.StartDate.Format("2006-01-02"))
	require.NotNil(t, repo.lastFilter.EndDate)
	assert.Equal(t, "2024-06-30", repo.lastFilter.EndDate.Format("2006-01-02"))
	require.NotNil(t, repo.lastFilter.City)
	assert.Equal(t, "Bogotá", *repo.lastFilter.City)
	require.NotNil(t, repo.lastFilter.Channel)
	assert.Equal(t, "web", *repo.lastFilter.Channel)
}

func TestGetMonthlyTrend_PctChange(t *testing.T) {
	repo := &fakeRepo{
		trend: []repository.TrendRow{
			{Month: "2024-01", GrossSales: dec("120"), Discounts: dec("10"), Returns: dec("10")},
			{Month: "2024-02", GrossSales: dec("160"), Discounts: dec("5"), Returns: dec("5")},
			{Month: "2024-03", GrossSales: dec("75"), Discounts: dec("0"), Returns: dec("0")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetMonthlyTrend(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// netos: 100, 150, 75
	assert.True(t, rows[0].NetSales.Equal(dec("100")))
	assert.True(t, rows[1].NetSales.Equal(dec("150")))
	assert.True(t, rows[2].NetSales.Equal(dec("75")))

	// Primera fila sin base de comparación.
	assert.True(t, rows[0].PctChange.IsZero())
	// (150−100)/100 × 100 = 50
	assert.True(t, rows[1].PctChange.Equal(dec("50")), "pct: %s", rows[1].PctChange)
	// (75−150)/150 × 100 = −50
	assert.True(t, rows[2].PctChange.Equal(dec("-50")), "pct: %s", rows[2].PctChange)
}

func TestGetMonthlyTrend_FlatMonthsYieldZero(t *testing.T) {
	repo := &fakeRepo{
		trend: []repository.TrendRow{
			{Month: "2024-01", GrossSales: dec("100"), Discounts: dec("0"), Returns: dec("0")},
			{Month: "2024-02", GrossSales: dec("100"), Discounts: dec("0"), Returns: dec("0")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetMonthlyTrend(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].PctChange.IsZero())
	assert.True(t, rows[1].PctChange.IsZero())
}

func TestGetMonthlyTrend_NonPositivePreviousMonth(t *testing.T) {
	repo := &fakeRepo{
		trend: []repository.TrendRow{
			// Mes con más devoluciones que ventas: neto negativo.
			{Month: "2024-01", GrossSales: dec("50"), Discounts: dec("0"), Returns: dec("80")},
			{Month: "2024-02", GrossSales: dec("200"), Discounts: dec("0"), Returns: dec("0")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetMonthlyTrend(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].NetSales.Equal(dec("-30")))
	// Base no positiva: el delta queda en 0 en lugar de un porcentaje absurdo.
	assert.True(t, rows[1].PctChange.IsZero())
}

func TestGetSalesByCity_IgnoresCityFilter(t *testing.T) {
	repo := &fakeRepo{
		cities: []repository.CitySalesRow{
			{City: "Bogotá", NetSales: dec("500")},
			{City: "Medellín", NetSales: dec("300")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetSalesByCity(context.Background(), dto.ReportQuery{City: "Bogotá", Channel: "web"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// El desglose por ciudad ignora city pero respeta channel.
	assert.Nil(t, repo.lastFilter.City)
	require.NotNil(t, repo.lastFilter.Channel)
	assert.Equal(t, "web", *repo.lastFilter.Channel)
}

func TestGetSalesByChannel_IgnoresChannelFilter(t *testing.T) {
	repo := &fakeRepo{
		channels: []repository.ChannelSalesRow{
			{Channel: "web", GrossSales: dec("800"), Orders: 4},
			{Channel: "unknown", GrossSales: dec("100"), Orders: 1},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetSalesByChannel(context.Background(), dto.ReportQuery{Channel: "web", City: "Cali"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, repo.lastFilter.Channel)
	require.NotNil(t, repo.lastFilter.City)
	assert.Equal(t, "Cali", *repo.lastFilter.City)

	assert.Equal(t, "unknown", rows[1].Channel)
	assert.Equal(t, int64(4), rows[0].Orders)
}

func TestGetSalesByCategory_PctMix(t *testing.T) {
	repo := &fakeRepo{
		categories: []repository.CategorySalesRow{
			{Category: "Hogar", GrossSales: dec("600")},
			{Category: "Ropa", GrossSales: dec("300")},
			{Category: "Tecnología", GrossSales: dec("100")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetSalesByCategory(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].PctMix.Equal(dec("60")))
	assert.True(t, rows[1].PctMix.Equal(dec("30")))
	assert.True(t, rows[2].PctMix.Equal(dec("10")))

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.PctMix)
	}
	assert.True(t, total.Equal(dec("100")), "mezcla total: %s", total)
}

func TestGetSalesByCategory_ZeroTotal(t *testing.T) {
	repo := &fakeRepo{
		categories: []repository.CategorySalesRow{
			{Category: "Hogar", GrossSales: dec("0")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetSalesByCategory(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PctMix.IsZero())
}

func TestGetTopProducts_MarginAndLabel(t *testing.T) {
	repo := &fakeRepo{
		products: []repository.ProductMarginRow{
			{Category: "Tecnología", Brand: "Acme", Revenue: dec("100"), COGS: dec("60")},
			{Category: "Hogar", Brand: "Norte", Revenue: dec("0"), COGS: dec("0")},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetTopProducts(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, topProductsLimit, repo.lastLimit)

	assert.Equal(t, "Tecnología - Acme", rows[0].ProductName)
	assert.True(t, rows[0].GrossMargin.Equal(dec("40")))
	assert.True(t, rows[0].GrossMarginPct.Equal(dec("40")))

	// Ingresos cero: %margen con guarda.
	assert.True(t, rows[1].GrossMarginPct.IsZero())
}

func TestGetNewVsReturning(t *testing.T) {
	repo := &fakeRepo{
		cohorts: []repository.CohortRow{
			{Month: "2024-01", NewCustomers: 8, ReturningCustomers: 0},
			{Month: "2024-02", NewCustomers: 3, ReturningCustomers: 5},
		},
	}
	uc := NewUseCase(repo)

	rows, err := uc.GetNewVsReturning(context.Background(), dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(8), rows[0].NewCustomers)
	assert.Equal(t, int64(5), rows[1].ReturningCustomers)
}

func TestGetFilters_EmptyListsNotNil(t *testing.T) {
	uc := NewUseCase(&fakeRepo{})

	filters, err := uc.GetFilters(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, filters.Cities)
	assert.NotNil(t, filters.Channels)
	assert.NotNil(t, filters.Categories)
	assert.NotNil(t, filters.Months)
	assert.Empty(t, filters.MinOrderDate)
	assert.Empty(t, filters.MaxOrderDate)
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	boom := errors.New("conexión perdida")
	uc := NewUseCase(&fakeRepo{err: boom})

	_, err := uc.GetKPIs(context.Background(), dto.ReportQuery{})
	assert.ErrorIs(t, err, boom)

	_, err = uc.GetMonthlyTrend(context.Background(), dto.ReportQuery{})
	assert.ErrorIs(t, err, boom)

	_, err = uc.GetTopProducts(context.Background(), dto.ReportQuery{})
	assert.ErrorIs(t, err, boom)
}
