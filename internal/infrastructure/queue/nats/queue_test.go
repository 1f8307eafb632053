package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/infrastructure/resilience"
)

func TestSubmissionCodecRoundTrip(t *testing.T) {
	in := domain.BatchSubmission{
		BatchID:     "b-1",
		SubmittedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Files: []domain.SubmittedFile{
			{Name: "facture.pdf", MimeType: "application/pdf", Size: 10, StorageKey: "k1"},
			{Name: "rib.txt", MimeType: "text/plain", Size: 3, StorageKey: "k2"},
		},
	}
	data, err := encodeSubmission(in)
	if err != nil {
		t.Fatalf("encodeSubmission() error = %v", err)
	}
	out, err := decodeSubmission(data)
	if err != nil {
		t.Fatalf("decodeSubmission() error = %v", err)
	}
	if out.BatchID != in.BatchID || len(out.Files) != 2 || out.Files[1].StorageKey != "k2" {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}

func TestDecodeSubmissionRejectsLegacyPayload(t *testing.T) {
	if _, err := decodeSubmission([]byte("3f2a-document-id")); err == nil {
		t.Fatalf("expected error for non-json payload")
	}
	if _, err := decodeSubmission([]byte(`{"files":[]}`)); err == nil {
		t.Fatalf("expected error for missing batch id")
	}
}

func TestHandleMessage(t *testing.T) {
	var got []string
	handler := func(_ context.Context, b domain.BatchSubmission) error {
		got = append(got, b.BatchID)
		return errors.New("logged, not propagated")
	}

	handleMessage(context.Background(), []byte(`{"batch_id":"b-2","files":[]}`), handler)
	handleMessage(context.Background(), []byte(`garbage`), handler)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	handleMessage(canceled, []byte(`{"batch_id":"b-3","files":[]}`), handler)

	if len(got) != 1 || got[0] != "b-2" {
		t.Fatalf("unexpected handled batches: %v", got)
	}
}

func TestClassifyNATSError(t *testing.T) {
	if c := classifyNATSError(nats.ErrNoServers); !c.Retryable {
		t.Fatalf("no servers must be retryable")
	}
	if c := classifyNATSError(context.Canceled); c.Retryable || c.RecordFailure {
		t.Fatalf("cancellation must be ignored, got %+v", c)
	}
	if c := classifyNATSError(nats.ErrMaxPayload); c.Retryable {
		t.Fatalf("payload too large must not be retried")
	}
	if err := wrapTemporaryIfNeeded(nats.ErrTimeout); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if err := wrapTemporaryIfNeeded(errors.New("bad subject")); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("permanent error must stay permanent")
	}
	if !classifyNATSError(resilienceOpenErr()).Retryable {
		t.Fatalf("open breaker must be retryable")
	}
}

func resilienceOpenErr() error {
	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		BreakerEnabled:      true,
		BreakerMinRequests:  1,
		BreakerFailureRatio: 0.1,
		BreakerOpenTimeout:  time.Minute,
	})
	fail := func(context.Context) error { return nats.ErrNoServers }
	_ = exec.Execute(context.Background(), "nats.publish", fail, classifyNATSError)
	return exec.Execute(context.Background(), "nats.publish", fail, classifyNATSError)
}
