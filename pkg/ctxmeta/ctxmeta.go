// Пакет ctxmeta — нейтральный слой для работы с метаданными,
// которые прокидываются через context.Context (run_id, worker_id, request_id, trace_id).
// Идея: воркеры, HTTP-слой и логгер зависят от небольшого общего пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемые типы — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyRunID     ctxKey = "run_id"
	KeyWorkerID  ctxKey = "worker_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithRunID кладёт идентификатор прогона харнесса.
func WithRunID(ctx context.Context, runID string) context.Context {
	return withString(ctx, KeyRunID, runID)
}

func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRunID)
}

// WithWorkerID кладёт имя воркера (consumer-N).
func WithWorkerID(ctx context.Context, workerID string) context.Context {
	return withString(ctx, KeyWorkerID, workerID)
}

func WorkerIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyWorkerID)
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
