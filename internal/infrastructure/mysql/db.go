package mysql

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jhoicas/dashboard-bi-api/pkg/config"
	"github.com/jmoiron/sqlx"
)

// NewDB abre la conexión MySQL con sqlx. El DSN debe llevar parseTime=true
// para escanear DATE/DATETIME a time.Time (config.DSN ya lo agrega).
func NewDB(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("abrir mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
