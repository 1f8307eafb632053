package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
)

const (
	renewalProcedureType     = "Renouvellement de carte d'identité"
	renewalProcedureNextStep = "prendre rendez-vous en mairie"
)

type ProcedureUseCase struct {
	mu         sync.Mutex
	procedures []domain.Procedure
}

func NewProcedureUseCase() *ProcedureUseCase {
	return &ProcedureUseCase{}
}

func (uc *ProcedureUseCase) List(context.Context) []domain.Procedure {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.Procedure, len(uc.procedures))
	copy(out, uc.procedures)
	return out
}

func (uc *ProcedureUseCase) StartRenewal(context.Context) domain.Procedure {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	p := domain.Procedure{
		ID:       len(uc.procedures) + 1,
		Type:     renewalProcedureType,
		Status:   domain.ProcedureInProgress,
		NextStep: renewalProcedureNextStep,
	}
	uc.procedures = append(uc.procedures, p)
	return p
}

func (uc *ProcedureUseCase) Complete(_ context.Context, id int) (*domain.Procedure, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range uc.procedures {
		if uc.procedures[i].ID != id {
			continue
		}
		if uc.procedures[i].Status != domain.ProcedureInProgress {
			return nil, domain.WrapError(domain.ErrInvalidInput, "complete procedure", fmt.Errorf("procedure %d is %s", id, uc.procedures[i].Status))
		}
		uc.procedures[i].Status = domain.ProcedureCompleted
		uc.procedures[i].NextStep = ""
		p := uc.procedures[i]
		return &p, nil
	}
	return nil, domain.WrapError(domain.ErrNotFound, "complete procedure", fmt.Errorf("procedure id=%d", id))
}

type AccessRequestUseCase struct {
	documents ports.DocumentCollection
	now       func() time.Time

	mu       sync.Mutex
	requests []domain.AccessRequest
}

func NewAccessRequestUseCase(documents ports.DocumentCollection) *AccessRequestUseCase {
	return &AccessRequestUseCase{documents: documents, now: time.Now}
}

func (uc *AccessRequestUseCase) List(context.Context) []domain.AccessRequest {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.AccessRequest, len(uc.requests))
	copy(out, uc.requests)
	return out
}

func (uc *AccessRequestUseCase) Request(ctx context.Context, requester, documentID string) (*domain.AccessRequest, error) {
	requester = strings.TrimSpace(requester)
	if requester == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "request access", errors.New("requester is required"))
	}
	doc, err := uc.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("request access: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	req := domain.AccessRequest{
		ID:           len(uc.requests) + 1,
		Requester:    requester,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		RequestDate:  uc.now().Format(domain.DateLayoutFR),
		Status:       domain.AccessPending,
	}
	uc.requests = append(uc.requests, req)
	return &req, nil
}

func (uc *AccessRequestUseCase) Approve(_ context.Context, id int) (*domain.AccessRequest, error) {
	return uc.decide(id, domain.AccessApproved)
}

func (uc *AccessRequestUseCase) Reject(_ context.Context, id int) (*domain.AccessRequest, error) {
	return uc.decide(id, domain.AccessRejected)
}

func (uc *AccessRequestUseCase) decide(id int, status domain.AccessRequestStatus) (*domain.AccessRequest, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range uc.requests {
		if uc.requests[i].ID != id {
			continue
		}
		if uc.requests[i].Status != domain.AccessPending {
			return nil, domain.WrapError(domain.ErrInvalidInput, "decide access request", fmt.Errorf("request %d is already %s", id, uc.requests[i].Status))
		}
		uc.requests[i].Status = status
		req := uc.requests[i]
		return &req, nil
	}
	return nil, domain.WrapError(domain.ErrNotFound, "decide access request", fmt.Errorf("access request id=%d", id))
}

// SeedCollection appends seed documents when the collection is empty.
func SeedCollection(ctx context.Context, collection ports.DocumentCollection, docs []domain.Document) (int, error) {
	existing, err := collection.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents before seeding: %w", err)
	}
	if len(existing) > 0 || len(docs) == 0 {
		return 0, nil
	}
	if err := collection.AppendBatch(ctx, docs); err != nil {
		return 0, fmt.Errorf("append seed documents: %w", err)
	}
	return len(docs), nil
}
