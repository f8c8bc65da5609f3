package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/dashboard-bi-api/internal/domain/repository"
	"github.com/jhoicas/dashboard-bi-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ds  *repository.Dataset
	err error
}

func (f *fakeSource) ReadDataset() (*repository.Dataset, error) { return f.ds, f.err }

type fakeLoader struct {
	counts  []repository.TableCount
	metrics repository.LoadMetrics

	initErr   error
	loadErr   error
	verifyErr error

	initCalled bool
	loadCalled bool
}

func (f *fakeLoader) InitSchema(context.Context) error {
	f.initCalled = true
	return f.initErr
}

func (f *fakeLoader) Load(context.Context, *repository.Dataset) ([]repository.TableCount, error) {
	f.loadCalled = true
	return f.counts, f.loadErr
}

func (f *fakeLoader) Verify(context.Context) (*repository.LoadMetrics, error) {
	return &f.metrics, f.verifyErr
}

type fakeStatus struct {
	counts []repository.TableStatus
	err    error
}

func (f *fakeStatus) TableCounts(context.Context) ([]repository.TableStatus, error) {
	return f.counts, f.err
}

func TestLoadAll_FullPipeline(t *testing.T) {
	loader := &fakeLoader{
		counts: []repository.TableCount{
			{Table: "customers", Rows: 2},
			{Table: "orders", Rows: 5},
		},
		metrics: repository.LoadMetrics{
			GrossSales:     decimal.RequireFromString("500.00"),
			TotalDiscounts: decimal.RequireFromString("25.00"),
			TotalOrders:    5,
		},
	}
	uc := NewUseCase(&fakeSource{ds: &repository.Dataset{}}, loader, &fakeStatus{}, logger.Nop())

	report, err := uc.LoadAll(context.Background())
	require.NoError(t, err)

	assert.True(t, loader.initCalled)
	assert.True(t, loader.loadCalled)
	assert.Equal(t, "ok", report.Status)
	require.Len(t, report.Tables, 2)
	require.NotNil(t, report.Metrics)
	assert.Equal(t, int64(5), report.Metrics.TotalOrders)
}

func TestLoadAll_SourceFailureSkipsSchema(t *testing.T) {
	boom := errors.New("archivo ausente")
	loader := &fakeLoader{}
	uc := NewUseCase(&fakeSource{err: boom}, loader, &fakeStatus{}, logger.Nop())

	_, err := uc.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// Si la lectura falla no se toca el esquema existente.
	assert.False(t, loader.initCalled)
	assert.False(t, loader.loadCalled)
}

func TestLoadAll_LoadFailure(t *testing.T) {
	boom := errors.New("deadlock")
	loader := &fakeLoader{loadErr: boom}
	uc := NewUseCase(&fakeSource{ds: &repository.Dataset{}}, loader, &fakeStatus{}, logger.Nop())

	_, err := uc.LoadAll(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDatabaseStatus(t *testing.T) {
	status := &fakeStatus{
		counts: []repository.TableStatus{
			{Table: "customers", Rows: 10},
			{Table: "orders", Rows: 20},
		},
	}
	uc := NewUseCase(&fakeSource{}, &fakeLoader{}, status, logger.Nop())

	st, err := uc.DatabaseStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", st.Status)
	require.Len(t, st.Counts, 2)
}

func TestDatabaseStatus_MissingTable(t *testing.T) {
	status := &fakeStatus{
		counts: []repository.TableStatus{
			{Table: "customers", Rows: 10},
			{Table: "returns", Err: "tabla no existe"},
		},
	}
	uc := NewUseCase(&fakeSource{}, &fakeLoader{}, status, logger.Nop())

	st, err := uc.DatabaseStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "incompleto", st.Status)
}
