package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/dossier/internal/core/domain"
)

func TestProcedureLifecycle(t *testing.T) {
	uc := NewProcedureUseCase()
	ctx := context.Background()

	p := uc.StartRenewal(ctx)
	if p.ID != 1 || p.Status != domain.ProcedureInProgress {
		t.Fatalf("unexpected procedure: %+v", p)
	}

	done, err := uc.Complete(ctx, p.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if done.Status != domain.ProcedureCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if _, err := uc.Complete(ctx, p.ID); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input on second completion, got %v", err)
	}
	if _, err := uc.Complete(ctx, 99); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(uc.List(ctx)) != 1 {
		t.Fatalf("expected one procedure")
	}
}

func TestAccessRequestLifecycle(t *testing.T) {
	uc := NewAccessRequestUseCase(seededCollection())
	ctx := context.Background()

	if _, err := uc.Request(ctx, "", "1"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty requester, got %v", err)
	}
	if _, err := uc.Request(ctx, "Notaire", "404"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	req, err := uc.Request(ctx, "Notaire", "2")
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if req.DocumentName != "facture_edf_mars.pdf" || req.Status != domain.AccessPending {
		t.Fatalf("unexpected request: %+v", req)
	}

	approved, err := uc.Approve(ctx, req.ID)
	if err != nil || approved.Status != domain.AccessApproved {
		t.Fatalf("unexpected approve result: %+v %v", approved, err)
	}
	if _, err := uc.Reject(ctx, req.ID); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected decided request to be final, got %v", err)
	}
	if _, err := uc.Reject(ctx, 7); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSeedCollectionOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	seed := []domain.Document{{ID: "s1"}, {ID: "s2"}}

	empty := &collectionFake{}
	n, err := SeedCollection(ctx, empty, seed)
	if err != nil || n != 2 || len(empty.docs) != 2 {
		t.Fatalf("expected seeding, got n=%d err=%v", n, err)
	}

	n, err = SeedCollection(ctx, empty, seed)
	if err != nil || n != 0 || len(empty.docs) != 2 {
		t.Fatalf("expected no reseeding, got n=%d err=%v", n, err)
	}

	broken := &collectionFake{err: errors.New("down")}
	if _, err := SeedCollection(ctx, broken, seed); err == nil {
		t.Fatalf("expected list error")
	}
}
