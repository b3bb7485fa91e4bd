// Пакет retry — экспоненциальный backoff с equal-jitter для повторных подключений к брокеру.
package retry

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Backoff — состояние повторов: начальная/максимальная задержка и источник случайности.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration

	mu      sync.Mutex
	rnd     *rand.Rand
	current time.Duration
}

// NewBackoff — конструктор; нулевые значения заменяются дефолтами (1s / 30s).
func NewBackoff(initial, maxDelay time.Duration, seed int64) *Backoff {
	if initial <= 0 {
		initial = 1 * time.Second
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	if maxDelay < initial {
		maxDelay = initial
	}
	return &Backoff{
		Initial: initial,
		Max:     maxDelay,
		rnd:     rand.New(rand.NewSource(seed)),
		current: initial,
	}
}

// Next — задержка перед следующей попыткой (с джиттером) и удвоение базы до Max.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.withJitterEqual(b.current)
	b.current *= 2
	if b.current > b.Max {
		b.current = b.Max
	}
	return d
}

// Reset — вернуть задержку к начальной после успешной попытки.
func (b *Backoff) Reset() {
	b.mu.Lock()
	b.current = b.Initial
	b.mu.Unlock()
}

// withJitterEqual — умеренная случайность: половина задержки фиксирована,
// вторая половина — случайная.
func (b *Backoff) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(b.rnd.Int63n(int64(d-half) + 1))
	return half + jitter
}

// Sleep ждёт d или останавливается по контексту; false — контекст отменён.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Do — выполнить fn до attempts раз с паузами Next() между неудачами.
// Возвращает последнюю ошибку fn или ошибку контекста.
func Do(ctx context.Context, b *Backoff, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			b.Reset()
			return nil
		}
		if i == attempts-1 {
			break
		}
		if !Sleep(ctx, b.Next()) {
			return ctx.Err()
		}
	}
	return err
}
