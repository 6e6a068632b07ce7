// Package draft holds the in-memory contract editing model: a contract
// draft with its per-location material rate lines, the operations the
// editor performs on it, and the submit validator. The package is pure;
// persistence and transport live elsewhere.
package draft

import (
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

var ErrLocationAlreadyAdded = errors.New("location already added to contract")

// RateLine is one material pricing row under a contract location.
// Persisted marks lines hydrated from a stored contract; removing one of
// those while editing must be staged so it can be rolled back.
type RateLine struct {
	ID                 uuid.UUID
	MaterialID         uuid.UUID
	Unit               string
	RateType           model.RateType
	ContractRate       float64
	DiscountPercentage float64
	MinimumPrice       float64
	PaymentDirection   model.PaymentDirection
	MinimumQuantity    float64
	MaximumQuantity    float64
	Description        string
	Persisted          bool
}

// NewRateLine returns a fresh row with editor defaults: fixed rate,
// zeroed numerics, payment flowing to us.
func NewRateLine() RateLine {
	return RateLine{
		ID:               uuid.New(),
		RateType:         model.RateTypeFixed,
		PaymentDirection: model.PaymentDirectionWeReceive,
	}
}

// SetRateType changes the pricing mode. A free rate type implies a zero
// price, overriding whatever the user typed.
func (l *RateLine) SetRateType(t model.RateType) {
	l.RateType = t
	if t == model.RateTypeFree {
		l.ContractRate = 0
	}
}

// IsComplete reports whether the line is usable on a submitted contract:
// a material and unit are picked, and the rate is positive unless the
// material is free.
func (l RateLine) IsComplete() bool {
	if l.MaterialID == uuid.Nil || l.Unit == "" {
		return false
	}
	return l.RateType == model.RateTypeFree || l.ContractRate > 0
}

type LocationEntry struct {
	ID            uuid.UUID
	LocationName  string
	LocationCode  string
	Address       string
	ContactPerson string
	ContactPhone  string
	RateLines     []RateLine
	Persisted     bool
}

type ContractDraft struct {
	ID             uuid.UUID
	ContractNumber string
	SupplierID     uuid.UUID
	Title          string
	StartDate      time.Time
	EndDate        time.Time
	Status         model.ContractStatus
	Terms          string
	Notes          string
	TotalValue     float64
	Currency       string
	Locations      []LocationEntry
}

// New returns an empty draft for the create flow.
func New(contractNumber, currency string) ContractDraft {
	return ContractDraft{
		ContractNumber: contractNumber,
		Status:         model.ContractStatusDraft,
		Currency:       currency,
	}
}

// SetSupplier switches the draft to another supplier. Existing locations
// belong to the previous supplier, so they are cleared. Setting the same
// supplier again is a no-op.
func (d *ContractDraft) SetSupplier(id uuid.UUID) {
	if id == d.SupplierID {
		return
	}
	d.SupplierID = id
	d.Locations = nil
}

// AddLocation appends a supplier location with one default rate line.
// A location already on the draft is rejected.
func (d *ContractDraft) AddLocation(ref model.SupplierLocation) error {
	for _, loc := range d.Locations {
		if loc.ID == ref.ID {
			return ErrLocationAlreadyAdded
		}
	}
	d.Locations = append(d.Locations, LocationEntry{
		ID:            ref.ID,
		LocationName:  ref.LocationName,
		LocationCode:  ref.LocationCode,
		Address:       ref.Address,
		ContactPerson: ref.ContactPerson,
		ContactPhone:  ref.ContactPhone,
		RateLines:     []RateLine{NewRateLine()},
	})
	return nil
}

// RemoveLocation removes the location at index and returns it so the
// caller can stage its deletion. The bool is false for an out-of-range
// index.
func (d *ContractDraft) RemoveLocation(index int) (LocationEntry, bool) {
	if index < 0 || index >= len(d.Locations) {
		return LocationEntry{}, false
	}
	removed := d.Locations[index]
	d.Locations = append(d.Locations[:index], d.Locations[index+1:]...)
	return removed, true
}

// AddRateLine appends a default row to the location at locIndex.
func (d *ContractDraft) AddRateLine(locIndex int) (RateLine, bool) {
	if locIndex < 0 || locIndex >= len(d.Locations) {
		return RateLine{}, false
	}
	line := NewRateLine()
	d.Locations[locIndex].RateLines = append(d.Locations[locIndex].RateLines, line)
	return line, true
}

// RemoveRateLine removes one row and returns it for deletion staging.
func (d *ContractDraft) RemoveRateLine(locIndex, rowIndex int) (RateLine, bool) {
	if locIndex < 0 || locIndex >= len(d.Locations) {
		return RateLine{}, false
	}
	lines := d.Locations[locIndex].RateLines
	if rowIndex < 0 || rowIndex >= len(lines) {
		return RateLine{}, false
	}
	removed := lines[rowIndex]
	d.Locations[locIndex].RateLines = append(lines[:rowIndex], lines[rowIndex+1:]...)
	return removed, true
}

// Clone returns a deep copy suitable for snapshotting.
func (d ContractDraft) Clone() ContractDraft {
	out := d
	if d.Locations != nil {
		out.Locations = make([]LocationEntry, len(d.Locations))
		for i, loc := range d.Locations {
			cloned := loc
			if loc.RateLines != nil {
				cloned.RateLines = make([]RateLine, len(loc.RateLines))
				copy(cloned.RateLines, loc.RateLines)
			}
			out.Locations[i] = cloned
		}
	}
	return out
}

// Equal is a structural comparison, used to decide whether cancelling
// needs a confirmation prompt.
func (d ContractDraft) Equal(other ContractDraft) bool {
	return reflect.DeepEqual(d, other)
}
