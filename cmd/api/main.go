package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/dashboard-bi-api/internal/application/ingest"
	"github.com/jhoicas/dashboard-bi-api/internal/application/reporting"
	"github.com/jhoicas/dashboard-bi-api/internal/infrastructure/csvsource"
	"github.com/jhoicas/dashboard-bi-api/internal/infrastructure/datastore"
	httpRouter "github.com/jhoicas/dashboard-bi-api/internal/interfaces/http"
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
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("engine", cfg.DB.Engine).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := datastore.New(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer store.Close()

	reportingUC := reporting.NewUseCase(store.Reporting)
	csvReader := csvsource.NewReader(cfg.Loader.DataDir, cfg.Loader.Encoding)
	ingestUC := ingest.NewUseCase(csvReader, store.Loader, store.Status, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	// El dashboard vive en otro origen; API pública de solo lectura.
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportingUC: reportingUC,
		IngestUC:    ingestUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
