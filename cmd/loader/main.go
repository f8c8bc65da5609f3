// Comando loader: carga masiva del dataset CSV sin levantar el servidor.
// Lee los seis archivos del directorio DATA_DIR, recrea el esquema del motor
// configurado (DB_ENGINE) e inserta todo, reportando conteos y métricas de
// verificación al final.
//
// Uso:
//
//	DATA_DIR=./data DB_ENGINE=postgres DATABASE_URL=... go run ./cmd/loader
package main

import (
	"context"
	"time"

	"github.com/jhoicas/dashboard-bi-api/internal/application/ingest"
	"github.com/jhoicas/dashboard-bi-api/internal/infrastructure/csvsource"
	"github.com/jhoicas/dashboard-bi-api/internal/infrastructure/datastore"
	"github.com/jhoicas/dashboard-bi-api/pkg/config"
	"github.com/jhoicas/dashboard-bi-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("engine", cfg.DB.Engine).
		Str("data_dir", cfg.Loader.DataDir).
		Str("encoding", cfg.Loader.Encoding).
		Msg("iniciando carga masiva")

	ctx := context.Background()
	store, err := datastore.New(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer store.Close()

	csvReader := csvsource.NewReader(cfg.Loader.DataDir, cfg.Loader.Encoding)
	uc := ingest.NewUseCase(csvReader, store.Loader, store.Status, log)

	start := time.Now()
	report, err := uc.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("carga masiva fallida")
	}

	var total int64
	for _, tc := range report.Tables {
		total += tc.Rows
	}
	log.Info().
		Int64("filas_totales", total).
		Dur("duración", time.Since(start)).
		Msg("carga masiva completada")
}
