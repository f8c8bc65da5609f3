// Package reporting contiene los casos de uso de los reportes del dashboard
// BI: parseo de filtros, orquestación de consultas y métricas derivadas
// (porcentajes, tasas y deltas sobre los agregados crudos).
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/dashboard-bi-api/internal/application/dto"
	"github.com/jhoicas/dashboard-bi-api/internal/domain"
	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// topProductsLimit grupos (categoría, marca) del top por margen.
const topProductsLimit = 10

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// UseCase orquesta las consultas de reporte y calcula las métricas derivadas.
// Todo el redondeo a 2 decimales ocurre aquí, al construir los DTOs; la
// acumulación intermedia se hace sin redondear.
type UseCase struct {
	repo repository.ReportingRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ReportingRepository) *UseCase {
	return &UseCase{repo: repo}
}

// parseFilter valida y convierte los query params en el filtro del dominio.
// Fechas mal formadas devuelven domain.ErrInvalidDate (error del cliente).
func parseFilter(q dto.ReportQuery) (repository.ReportFilter, error) {
	var f repository.ReportFilter

	if q.StartDate != "" {
		t, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return f, fmt.Errorf("%w: start_date=%q", domain.ErrInvalidDate, q.StartDate)
		}
		f.StartDate = &t
	}
	if q.EndDate != "" {
		t, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return f, fmt.Errorf("%w: end_date=%q", domain.ErrInvalidDate, q.EndDate)
		}
		f.EndDate = &t
	}
	if q.City != "" {
		f.City = &q.City
	}
	if q.Channel != "" {
		f.Channel = &q.Channel
	}
	return f, nil
}

// GetFilters valores disponibles para los selectores del dashboard.
func (uc *UseCase) GetFilters(ctx context.Context) (*dto.FiltersDTO, error) {
	opts, err := uc.repo.FilterOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporting: filtros: %w", err)
	}

	out := &dto.FiltersDTO{
		Cities:     emptyIfNil(opts.Cities),
		Channels:   emptyIfNil(opts.Channels),
		Categories: emptyIfNil(opts.Categories),
		Months:     emptyIfNil(opts.Months),
	}
	if opts.MinOrderDate != nil {
		out.MinOrderDate = opts.MinOrderDate.Format(dateLayout)
	}
	if opts.MaxOrderDate != nil {
		out.MaxOrderDate = opts.MaxOrderDate.Format(dateLayout)
	}
	return out, nil
}

// GetKPIs resumen ejecutivo.
//
// Dos consultas independientes en paralelo:
//  1. MonthlyKPIs  → rollup mensual (bruto, neto prorrateado, COGS, unidades, órdenes)
//  2. TotalReturns → devoluciones cuya orden padre cumple el filtro
//
// Derivadas: MTD = neto del último mes con datos; YTD = neto acumulado del
// período menos devoluciones; margen = neto − COGS; AOV, %margen y tasa de
// devolución con guardas de división por cero (ventana vacía → todo en cero).
func (uc *UseCase) GetKPIs(ctx context.Context, q dto.ReportQuery) (*dto.KPIsDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	type monthlyResult struct {
		rows []repository.MonthlyKPIRow
		err  error
	}
	type returnsResult struct {
		total decimal.Decimal
		err   error
	}

	monthlyCh := make(chan monthlyResult, 1)
	returnsCh := make(chan returnsResult, 1)

	go func() {
		rows, err := uc.repo.MonthlyKPIs(ctx, f)
		monthlyCh <- monthlyResult{rows, err}
	}()
	go func() {
		total, err := uc.repo.TotalReturns(ctx, f)
		returnsCh <- returnsResult{total, err}
	}()

	monthly := <-monthlyCh
	returns := <-returnsCh

	if monthly.err != nil {
		return nil, fmt.Errorf("reporting: KPIs mensuales: %w", monthly.err)
	}
	if returns.err != nil {
		return nil, fmt.Errorf("reporting: devoluciones: %w", returns.err)
	}

	var grossSales, netPeriod, cogs decimal.Decimal
	var units, orders int64
	for _, row := range monthly.rows {
		grossSales = grossSales.Add(row.GrossSales)
		netPeriod = netPeriod.Add(row.NetSales)
		cogs = cogs.Add(row.COGS)
		units += row.Units
		orders += row.Orders
	}

	// El rollup viene ordenado ascendente: MTD es la última fila.
	mtd := decimal.Zero
	if len(monthly.rows) > 0 {
		mtd = monthly.rows[len(monthly.rows)-1].NetSales
	}

	totalReturns := returns.total
	netYTD := netPeriod.Sub(totalReturns)
	grossMargin := netPeriod.Sub(cogs)

	aov := decimal.Zero
	if orders > 0 {
		aov = netYTD.Div(decimal.NewFromInt(orders))
	}
	grossMarginPct := decimal.Zero
	if netYTD.IsPositive() {
		grossMarginPct = grossMargin.Div(netYTD).Mul(hundred)
	}
	returnRate := decimal.Zero
	if grossSales.IsPositive() {
		returnRate = totalReturns.Div(grossSales).Mul(hundred)
	}

	return &dto.KPIsDTO{
		NetSalesMTD:    mtd.Round(2),
		NetSalesYTD:    netYTD.Round(2),
		GrossMargin:    grossMargin.Round(2),
		GrossMarginPct: grossMarginPct.Round(2),
		TotalOrders:    orders,
		TotalUnits:     units,
		AOV:            aov.Round(2),
		ReturnRate:     returnRate.Round(2),
		TotalReturns:   totalReturns.Round(2),
	}, nil
}

// GetMonthlyTrend tendencia mensual con delta porcentual contra el mes
// presente anterior en la secuencia (si falta un mes en los datos, la base de
// comparación es el último mes con datos, no el mes calendario anterior).
func (uc *UseCase) GetMonthlyTrend(ctx context.Context, q dto.ReportQuery) ([]dto.MonthlyTrendDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.MonthlyTrend(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporting: tendencia mensual: %w", err)
	}

	out := make([]dto.MonthlyTrendDTO, 0, len(rows))
	prevNet := decimal.Zero
	for i, row := range rows {
		net := row.GrossSales.Sub(row.Discounts).Sub(row.Returns)

		// Primera fila y meses cuyo anterior tuvo neto ≤ 0 quedan en 0.
		pct := decimal.Zero
		if i > 0 && prevNet.IsPositive() {
			pct = net.Sub(prevNet).Div(prevNet).Mul(hundred)
		}

		out = append(out, dto.MonthlyTrendDTO{
			Month:      row.Month,
			GrossSales: row.GrossSales.Round(2),
			Discounts:  row.Discounts.Round(2),
			Returns:    row.Returns.Round(2),
			NetSales:   net.Round(2),
			PctChange:  pct.Round(2),
		})
		prevNet = net
	}
	return out, nil
}

// GetSalesByCity desglose por ciudad. El filtro de ciudad se anula: el
// propósito del reporte es el desglose completo.
func (uc *UseCase) GetSalesByCity(ctx context.Context, q dto.ReportQuery) ([]dto.CitySalesDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	f.City = nil

	rows, err := uc.repo.SalesByCity(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporting: ventas por ciudad: %w", err)
	}

	out := make([]dto.CitySalesDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.CitySalesDTO{
			City:     row.City,
			NetSales: row.NetSales.Round(2),
		})
	}
	return out, nil
}

// GetSalesByChannel desglose por canal del cliente. El filtro de canal se
// anula por la misma razón que el de ciudad.
func (uc *UseCase) GetSalesByChannel(ctx context.Context, q dto.ReportQuery) ([]dto.ChannelSalesDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	f.Channel = nil

	rows, err := uc.repo.SalesByChannel(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporting: ventas por canal: %w", err)
	}

	out := make([]dto.ChannelSalesDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ChannelSalesDTO{
			Channel:  row.Channel,
			NetSales: row.GrossSales.Round(2),
			Orders:   row.Orders,
		})
	}
	return out, nil
}

// GetSalesByCategory ventas por categoría con participación sobre el total
// del resultado (las PctMix devueltas suman 100, salvo redondeo).
func (uc *UseCase) GetSalesByCategory(ctx context.Context, q dto.ReportQuery) ([]dto.CategorySalesDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.SalesByCategory(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporting: ventas por categoría: %w", err)
	}

	var total decimal.Decimal
	for _, row := range rows {
		total = total.Add(row.GrossSales)
	}

	out := make([]dto.CategorySalesDTO, 0, len(rows))
	for _, row := range rows {
		pctMix := decimal.Zero
		if total.IsPositive() {
			pctMix = row.GrossSales.Div(total).Mul(hundred)
		}
		out = append(out, dto.CategorySalesDTO{
			Category: row.Category,
			NetSales: row.GrossSales.Round(2),
			PctMix:   pctMix.Round(2),
		})
	}
	return out, nil
}

// GetTopProducts top 10 grupos (categoría, marca) por margen bruto. La
// etiqueta visible es "categoría - marca"; %margen con guarda de división
// por cero.
func (uc *UseCase) GetTopProducts(ctx context.Context, q dto.ReportQuery) ([]dto.TopProductDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.TopProducts(ctx, f, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("reporting: top productos: %w", err)
	}

	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, row := range rows {
		margin := row.Revenue.Sub(row.COGS)
		marginPct := decimal.Zero
		if row.Revenue.IsPositive() {
			marginPct = margin.Div(row.Revenue).Mul(hundred)
		}
		out = append(out, dto.TopProductDTO{
			ProductName:    row.Category + " - " + row.Brand,
			Revenue:        row.Revenue.Round(2),
			COGS:           row.COGS.Round(2),
			GrossMargin:    margin.Round(2),
			GrossMarginPct: marginPct.Round(2),
		})
	}
	return out, nil
}

// GetNewVsReturning clientes nuevos vs recurrentes por mes de la ventana
// filtrada. La asignación de cohorte es independiente del filtro (la calcula
// el repositorio sobre todas las órdenes pagadas).
func (uc *UseCase) GetNewVsReturning(ctx context.Context, q dto.ReportQuery) ([]dto.NewVsReturningDTO, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.NewVsReturning(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporting: nuevos vs recurrentes: %w", err)
	}

	out := make([]dto.NewVsReturningDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.NewVsReturningDTO{
			Month:              row.Month,
			NewCustomers:       row.NewCustomers,
			ReturningCustomers: row.ReturningCustomers,
		})
	}
	return out, nil
}

// emptyIfNil evita null en el JSON de listas vacías.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
