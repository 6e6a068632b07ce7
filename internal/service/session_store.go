package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

// SessionStore adapts the contract service to the edit session's store
// port, binding the acting principal so the session does not carry one.
type SessionStore struct {
	Service   *ContractService
	Principal model.Principal
}

func (s SessionStore) Create(ctx context.Context, payload model.ContractPayload) (*model.Contract, error) {
	return s.Service.Create(ctx, s.Principal, payload)
}

func (s SessionStore) Update(ctx context.Context, id uuid.UUID, payload model.ContractPayload, staged model.StagedDeletions) (*model.Contract, error) {
	return s.Service.Update(ctx, s.Principal, id, payload, staged)
}
