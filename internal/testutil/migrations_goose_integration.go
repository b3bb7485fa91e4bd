//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"

	pgrepo "github.com/Gunvolt24/mq_consumer_bench/internal/repo/postgres"
)

// ApplyMigrationsGoose — встроенные миграции (migrations.FS) на свежую БД контейнера.
func ApplyMigrationsGoose(dsn string) error {
	goose.SetLogger(log.New(os.Stdout, "[goose] ", 0))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return pgrepo.MigrateDB(ctx, db)
}
