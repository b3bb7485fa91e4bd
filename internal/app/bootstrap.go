package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/config"
	iamqp "github.com/Gunvolt24/mq_consumer_bench/internal/amqp"
	cachemem "github.com/Gunvolt24/mq_consumer_bench/internal/cache/memory"
	"github.com/Gunvolt24/mq_consumer_bench/internal/consumer"
	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/kafka"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/internal/repo/postgres"
	rest "github.com/Gunvolt24/mq_consumer_bench/internal/transport/http"
	"github.com/Gunvolt24/mq_consumer_bench/internal/usecase"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/logger"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/metrics"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/telemetry"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/validate"
	"github.com/gin-gonic/gin"
)

// Runner — то, что App запускает один раз: прогон пула воркеров.
type Runner interface {
	Run(ctx context.Context, p usecase.RunParams) (*domain.RunReport, error)
}

// App — собранное приложение: прогон и (опционально) HTTP-сервер статуса.
type App struct {
	Logger          ports.Logger      // логгер
	Runner          Runner            // сервис прогона
	Params          usecase.RunParams // параметры прогона
	HTTPServer      *http.Server      // nil — сервер статуса выключен
	gracefulTimeout time.Duration     // время ожидания завершения HTTP-сервера
	linger          time.Duration     // сколько держать сервер после прогона
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → release и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "release":
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.ReleaseMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to release", mode)
	}
}

// RunParams — параметры прогона из секции Consumer; ошибка — validate.ErrInvalidConfig.
func RunParams(c config.Consumer) (usecase.RunParams, error) {
	kind, err := domain.ParseDestinationKind(c.DestinationKind)
	if err != nil {
		return usecase.RunParams{}, fmt.Errorf("%w: %v", validate.ErrInvalidConfig, err)
	}
	dest, err := domain.ParseDestination(c.Destination, kind)
	if err != nil {
		return usecase.RunParams{}, fmt.Errorf("%w: %v", validate.ErrInvalidConfig, err)
	}
	if c.RunTimeout < 0 {
		return usecase.RunParams{}, fmt.Errorf("%w: run timeout must be non-negative, got %s", validate.ErrInvalidConfig, c.RunTimeout)
	}

	return usecase.RunParams{
		Worker: domain.WorkerConfig{
			Destination:            dest,
			MessageCount:           c.MessageCount,
			Sleep:                  c.Sleep,
			TransactionBatchSize:   c.TransactionBatchSize,
			BreakOnNull:            c.BreakOnNull,
			ReceiveTimeout:         c.ReceiveTimeout,
			CommitPartialOnFailure: c.CommitPartialOnFailure,
		},
		Workers: c.ParallelThreads,
		Timeout: c.RunTimeout,
	}, nil
}

// newSessionFactory — адаптер брокера по Broker.Kind. Kafka подключается лениво, AMQP — сразу (с повторами).
func newSessionFactory(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.SessionFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Broker.Kind)) {
	case "", "kafka":
		log.Infof(ctx, "connecting to kafka brokers=%s group=%s", strings.Join(cfg.Kafka.Brokers, ","), cfg.Kafka.GroupID)
		return kafka.NewSessionFactory(kafka.Config{
			Brokers:     cfg.Kafka.Brokers,
			GroupID:     cfg.Kafka.GroupID,
			StartOffset: cfg.Kafka.StartOffset,
			MaxWait:     cfg.Kafka.MaxWait,
		}, log), nil
	case "amqp":
		prefetch := cfg.AMQP.Prefetch
		// окно Qos меньше батча: неподтверждённые в транзакции сообщения его не освобождают
		if batch := cfg.Consumer.TransactionBatchSize; prefetch > 0 && prefetch < batch {
			log.Warnf(ctx, "amqp prefetch %d is below transaction batch size %d, raising", prefetch, batch)
			prefetch = batch
		}
		amqpCfg := iamqp.Config{
			URL:          cfg.AMQP.URL,
			User:         cfg.AMQP.User,
			Password:     cfg.AMQP.Password,
			Prefetch:     prefetch,
			Heartbeat:    cfg.AMQP.Heartbeat,
			DialTimeout:  cfg.AMQP.DialTimeout,
			DialAttempts: cfg.AMQP.DialAttempts,
			RetryInitial: cfg.AMQP.RetryInitial,
			RetryMax:     cfg.AMQP.RetryMax,
		}
		log.Infof(ctx, "connecting to amqp url=%s", amqpCfg.Redacted())
		return iamqp.Dial(ctx, amqpCfg, log)
	default:
		return nil, fmt.Errorf("%w: unknown broker kind %q", validate.ErrInvalidConfig, cfg.Broker.Kind)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	params, err := RunParams(cfg.Consumer)
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}
	stopTrace := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
	}

	// Подключение к брокеру.
	factory, err := newSessionFactory(ctx, cfg, logg)
	if err != nil {
		stopTrace()
		closeLogger()
		return nil, func() {}, err
	}

	logg.Infof(ctx, "consuming from %s, sleep between receives %s, %d parallel thread(s), transaction batch size %d",
		params.Worker.Destination, params.Worker.Sleep, params.Workers, params.Worker.TransactionBatchSize)

	// Хранилище отчётов (только при заданном DSN).
	var (
		repo   ports.RunReportRepository
		pgPool interface{ Close() }
	)
	if cfg.Postgres.DSN != "" {
		pool, pErr := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if pErr == nil && cfg.Postgres.Migrate {
			if pErr = postgres.Migrate(ctx, pool); pErr != nil {
				pool.Close()
			}
		}
		if pErr != nil {
			logg.Warnf(ctx, "postgres unavailable, run reports will not be saved: %v", pErr)
		} else {
			repo = postgres.NewRunReportRepository(pool)
			pgPool = pool
		}
	}

	reportCache := cachemem.NewReportCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	runService := usecase.NewRunService(consumer.NewPool(factory, logg), repo, reportCache, logg)

	app := &App{
		Logger:          logg,
		Runner:          runService,
		Params:          params,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
		linger:          cfg.HTTP.Linger,
	}

	// Сервер статуса.
	if cfg.HTTP.Enabled {
		applyGinMode(ctx, cfg.HTTP.GinMode, logg)
		handler := rest.NewHandler(runService, runService, logg, cfg.HTTP.HandlerTimeout)
		app.HTTPServer = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           rest.NewRouter(handler, ""),
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		}
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if err := factory.Close(); err != nil {
			logg.Warnf(ctx, "broker connection close error: %v", err)
		}
		if pgPool != nil {
			pgPool.Close()
		}
		stopTrace()
		closeLogger()
	}

	return app, cleanup, nil
}

// Run — поднимает сервер статуса (если есть), выполняет прогон, затем
// держит сервер linger (или до отмены ctx) и останавливает его.
// Возвращает отчёт и ошибку прогона.
func (a *App) Run(ctx context.Context) (*domain.RunReport, error) {
	errCh := make(chan error, 1)

	if a.HTTPServer != nil {
		go func() {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
			if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	report, runErr := a.Runner.Run(ctx, a.Params)

	if a.HTTPServer == nil {
		return report, runErr
	}

	if a.linger > 0 {
		a.Logger.Infof(ctx, "run finished, status server stays up for %s", a.linger)
		t := time.NewTimer(a.linger)
		select {
		case <-ctx.Done():
		case <-t.C:
		case err := <-errCh:
			a.Logger.Warnf(ctx, "http server error: %v", err)
		}
		t.Stop()
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	return report, runErr
}
