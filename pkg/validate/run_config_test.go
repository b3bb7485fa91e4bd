package validate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/validate"
)

func validRunConfig() validate.RunConfig {
	return validate.RunConfig{
		Worker: domain.WorkerConfig{
			Destination:  domain.Destination{Name: "TEST", Kind: domain.DestinationQueue},
			MessageCount: 1000,
		},
		Workers:             1,
		SupportsTransaction: true,
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	rc := validRunConfig()
	rc.Worker.TransactionBatchSize = 25
	rc.Worker.CommitPartialOnFailure = true
	rc.Worker.Destination.Kind = domain.DestinationTopic
	if err := validate.Validate(rc); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(rc *validate.RunConfig)
	}{
		{"zero workers", func(rc *validate.RunConfig) { rc.Workers = 0 }},
		{"negative workers", func(rc *validate.RunConfig) { rc.Workers = -3 }},
		{"empty destination", func(rc *validate.RunConfig) { rc.Worker.Destination.Name = "" }},
		{"unknown kind", func(rc *validate.RunConfig) { rc.Worker.Destination.Kind = "exchange" }},
		{"negative count", func(rc *validate.RunConfig) { rc.Worker.MessageCount = -1 }},
		{"negative batch", func(rc *validate.RunConfig) { rc.Worker.TransactionBatchSize = -1 }},
		{"negative sleep", func(rc *validate.RunConfig) { rc.Worker.Sleep = -time.Millisecond }},
		{"batch without tx support", func(rc *validate.RunConfig) {
			rc.Worker.TransactionBatchSize = 10
			rc.SupportsTransaction = false
		}},
		{"commit on failure without batch", func(rc *validate.RunConfig) { rc.Worker.CommitPartialOnFailure = true }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rc := validRunConfig()
			tt.mutate(&rc)
			err := validate.Validate(rc)
			if !errors.Is(err, validate.ErrInvalidConfig) {
				t.Fatalf("want ErrInvalidConfig, got %v", err)
			}
		})
	}
}
