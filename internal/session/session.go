// Package session implements the contract editor's edit session: a
// snapshot of the draft as loaded, staged deletions of persisted child
// rows, rollback on cancel, and a single-submit guard. The session talks
// to storage through the ContractStore port and to the user through
// injected Confirmer/Notifier capabilities, so it runs without any UI.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jojimjohn/pbm-contracts/internal/draft"
	"github.com/jojimjohn/pbm-contracts/internal/model"
)

var (
	ErrSessionClosed  = errors.New("edit session is not open")
	ErrSubmitInFlight = errors.New("a submit is already in flight")
)

// ValidationError carries the ordered blocker list from the draft
// validator. Error() joins the messages for direct display.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// ContractStore is the session's view of contract persistence.
type ContractStore interface {
	Create(ctx context.Context, payload model.ContractPayload) (*model.Contract, error)
	Update(ctx context.Context, id uuid.UUID, payload model.ContractPayload, staged model.StagedDeletions) (*model.Contract, error)
}

// Confirmer asks the user to approve a destructive local action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Notifier surfaces a non-blocking notice to the user.
type Notifier interface {
	Notify(message string)
}

type State int

const (
	StateClosed State = iota
	StateOpen
)

type Session struct {
	store        ContractStore
	confirm      Confirmer
	notify       Notifier
	fallbackUnit string

	state      State
	contractID uuid.UUID
	draft      draft.ContractDraft
	snapshot   draft.ContractDraft
	staged     model.StagedDeletions
	inFlight   bool
}

func New(store ContractStore, confirm Confirmer, notify Notifier, fallbackUnit string) *Session {
	return &Session{
		store:        store,
		confirm:      confirm,
		notify:       notify,
		fallbackUnit: fallbackUnit,
	}
}

// OpenNew starts a create session with an empty draft.
func (s *Session) OpenNew(contractNumber, currency string) {
	d := draft.New(contractNumber, currency)
	s.open(uuid.Nil, d)
}

// Open starts an edit session on a stored contract. The hydrated draft is
// deep-copied into the snapshot so cancel can restore it.
func (s *Session) Open(contract model.Contract) {
	d := draft.FromContract(contract, s.fallbackUnit)
	s.open(contract.ID, d)
}

func (s *Session) open(contractID uuid.UUID, d draft.ContractDraft) {
	s.state = StateOpen
	s.contractID = contractID
	s.draft = d
	s.snapshot = d.Clone()
	s.staged = model.StagedDeletions{}
	s.inFlight = false
}

func (s *Session) State() State { return s.state }

func (s *Session) IsEdit() bool { return s.contractID != uuid.Nil }

// Draft exposes the live draft for field edits. Structural mutations
// (locations, rate lines) should go through the session methods so
// deletions get staged.
func (s *Session) Draft() *draft.ContractDraft {
	return &s.draft
}

// Pending returns a copy of the staged deletions.
func (s *Session) Pending() model.StagedDeletions {
	out := model.StagedDeletions{}
	out.Locations = append(out.Locations, s.staged.Locations...)
	out.Materials = append(out.Materials, s.staged.Materials...)
	return out
}

// AddLocation adds a supplier location to the draft. A duplicate leaves
// the draft unchanged and notifies the user.
func (s *Session) AddLocation(ref model.SupplierLocation) bool {
	if s.state != StateOpen {
		return false
	}
	if err := s.draft.AddLocation(ref); err != nil {
		s.notify.Notify("This location is already added to the contract")
		return false
	}
	return true
}

// RemoveLocation removes a location; in edit mode the deletion of a
// persisted location is staged rather than dropped silently.
func (s *Session) RemoveLocation(index int) bool {
	if s.state != StateOpen {
		return false
	}
	removed, ok := s.draft.RemoveLocation(index)
	if !ok {
		return false
	}
	if s.IsEdit() && removed.Persisted {
		s.staged.Locations = append(s.staged.Locations, removed.ID)
	}
	return true
}

func (s *Session) AddRateLine(locIndex int) bool {
	if s.state != StateOpen {
		return false
	}
	_, ok := s.draft.AddRateLine(locIndex)
	return ok
}

// RemoveRateLine removes one rate row; a persisted row's material is
// staged for deletion in edit mode.
func (s *Session) RemoveRateLine(locIndex, rowIndex int) bool {
	if s.state != StateOpen {
		return false
	}
	removed, ok := s.draft.RemoveRateLine(locIndex, rowIndex)
	if !ok {
		return false
	}
	if s.IsEdit() && removed.Persisted && removed.MaterialID != uuid.Nil {
		s.staged.Materials = append(s.staged.Materials, removed.MaterialID)
	}
	return true
}

// Cancel closes the session. A clean draft closes immediately; a dirty
// one requires the user's confirmation, then rolls back to the snapshot
// and clears staged deletions. Returns false when the user keeps editing.
func (s *Session) Cancel() bool {
	if s.state != StateOpen {
		return true
	}
	if s.draft.Equal(s.snapshot) && s.staged.Empty() {
		s.close()
		return true
	}
	if !s.confirm.Confirm("Discard unsaved changes to this contract?") {
		return false
	}
	s.RestoreFromSnapshot()
	s.ClearPendingDeletions()
	s.close()
	return true
}

// RestoreFromSnapshot deep-copies the snapshot back into the live draft.
// Idempotent: calling it twice leaves the same draft as calling it once.
func (s *Session) RestoreFromSnapshot() {
	if s.state != StateOpen {
		return
	}
	s.draft = s.snapshot.Clone()
}

func (s *Session) ClearPendingDeletions() {
	s.staged = model.StagedDeletions{}
}

// Submit validates the draft and sends it to the store. Validation
// failures and store errors both leave the session open with the draft
// untouched so the user can fix or retry; only one submit may be in
// flight at a time.
func (s *Session) Submit(ctx context.Context) (*model.Contract, error) {
	if s.state != StateOpen {
		return nil, ErrSessionClosed
	}
	if s.inFlight {
		return nil, ErrSubmitInFlight
	}
	if errs := draft.Validate(s.draft); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	payload := draft.ToPayload(s.draft)
	s.inFlight = true
	defer func() { s.inFlight = false }()

	var (
		saved *model.Contract
		err   error
	)
	if s.IsEdit() {
		saved, err = s.store.Update(ctx, s.contractID, payload, s.Pending())
	} else {
		saved, err = s.store.Create(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	s.ClearPendingDeletions()
	s.close()
	return saved, nil
}

func (s *Session) close() {
	s.state = StateClosed
	s.contractID = uuid.Nil
	s.draft = draft.ContractDraft{}
	s.snapshot = draft.ContractDraft{}
	s.staged = model.StagedDeletions{}
}
