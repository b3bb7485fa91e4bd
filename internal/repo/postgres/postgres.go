package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "mq-consumer-bench"

// NewPool — пул к Postgres для отчётов прогонов. Нагрузка — единичные записи
// после прогона и чтение из HTTP, поэтому пул маленький; maxConns > 0 переопределяет размер.
// Ping в конце: недоступная БД видна сразу, до старта воркеров.
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 5 * time.Minute
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if connErr := pool.Ping(pingCtx); connErr != nil {
		pool.Close()
		return nil, connErr
	}

	return pool, nil
}
