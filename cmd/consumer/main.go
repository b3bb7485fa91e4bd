package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/mq_consumer_bench/config"
	"github.com/Gunvolt24/mq_consumer_bench/internal/app"
	"github.com/Gunvolt24/mq_consumer_bench/internal/consumer"
)

// Коды выхода.
const (
	exitOK      = 0
	exitFailure = 1 // конфигурация, подключение, общий сеанс
	exitPartial = 2 // часть воркеров упала
)

// CLI харнесса: читает конфигурацию, запускает N консьюмеров и печатает итог прогона.
func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return exitFailure
	}
	if err := parseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "flags: %v\n", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		return exitFailure
	}
	defer cleanup()

	report, err := a.Run(ctx)
	if report != nil {
		fmt.Fprintf(os.Stdout, "run %s: received=%d commits=%d failed_workers=%d took=%s throughput=%.1f msg/s\n",
			report.RunID, report.TotalReceived, report.TotalCommits, report.FailedWorkers,
			report.Duration(), report.Throughput())
		for _, w := range report.Results {
			fmt.Fprintf(os.Stdout, "  %s: received=%d commits=%d reason=%s %s\n",
				w.WorkerID, w.Received, w.Commits, w.Reason, w.Error)
		}
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, consumer.ErrPartialCompletion):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitPartial
	default:
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return exitFailure
	}
}

// parseFlags — флаги исходной консольной команды поверх конфигурации из окружения.
func parseFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("consumer", flag.ContinueOnError)

	brokerURL := fs.String("brokerUrl", "", "kafka: comma-separated brokers; amqp: amqp://host:port/vhost")
	fs.StringVar(&cfg.Broker.Kind, "broker", cfg.Broker.Kind, "broker kind: kafka|amqp")
	fs.StringVar(&cfg.AMQP.User, "user", cfg.AMQP.User, "broker user (amqp)")
	fs.StringVar(&cfg.AMQP.Password, "password", cfg.AMQP.Password, "broker password (amqp)")

	c := &cfg.Consumer
	fs.StringVar(&c.Destination, "destination", c.Destination, "queue://NAME, topic://NAME or NAME")
	fs.IntVar(&c.MessageCount, "messageCount", c.MessageCount, "messages per worker, 0 — unlimited")
	fs.DurationVar(&c.Sleep, "sleep", c.Sleep, "pause between receives")
	fs.IntVar(&c.TransactionBatchSize, "transactionBatchSize", c.TransactionBatchSize, "commit every N messages, 0 — no transactions")
	fs.IntVar(&c.ParallelThreads, "parallelThreads", c.ParallelThreads, "number of parallel consumers")
	fs.BoolVar(&c.BreakOnNull, "breakOnNull", c.BreakOnNull, "stop a worker on the first empty receive")
	fs.DurationVar(&c.ReceiveTimeout, "receiveTimeout", c.ReceiveTimeout, "receive timeout, 0 — block")
	fs.DurationVar(&c.RunTimeout, "runTimeout", c.RunTimeout, "overall run timeout, 0 — none")
	fs.BoolVar(&cfg.HTTP.Enabled, "http", cfg.HTTP.Enabled, "serve /status, /reports and /metrics during the run")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *brokerURL != "" {
		switch strings.ToLower(strings.TrimSpace(cfg.Broker.Kind)) {
		case "amqp":
			cfg.AMQP.URL = *brokerURL
		default:
			cfg.Kafka.Brokers = strings.Split(*brokerURL, ",")
		}
	}
	return nil
}
