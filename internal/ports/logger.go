package ports

import "context"

// Logger — контракт логгера для всех слоёв. Реализация сама берёт
// run_id, worker_id и request_id из ctx (pkg/ctxmeta).
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
