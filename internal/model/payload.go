package model

import "github.com/google/uuid"

// ContractPayload is the wire shape the contract editor submits on create
// and update. Dates travel as strings because the editor sends plain
// "2006-01-02" values; the service parses them.
type ContractPayload struct {
	ContractNumber string            `json:"contractNumber"`
	SupplierID     uuid.UUID         `json:"supplierId"`
	Title          string            `json:"title"`
	StartDate      string            `json:"startDate"`
	EndDate        string            `json:"endDate"`
	Status         string            `json:"status"`
	Terms          string            `json:"terms"`
	Notes          string            `json:"notes"`
	TotalValue     float64           `json:"totalValue"`
	Currency       string            `json:"currency"`
	Locations      []LocationPayload `json:"locations"`
}

type LocationPayload struct {
	ID            uuid.UUID     `json:"id"`
	LocationName  string        `json:"locationName"`
	LocationCode  string        `json:"locationCode"`
	Address       string        `json:"address"`
	ContactPerson string        `json:"contactPerson"`
	ContactPhone  string        `json:"contactPhone"`
	Materials     []RatePayload `json:"materials"`
}

type RatePayload struct {
	MaterialID         uuid.UUID        `json:"materialId"`
	RateType           RateType         `json:"rateType"`
	ContractRate       float64          `json:"contractRate"`
	DiscountPercentage float64          `json:"discountPercentage"`
	MinimumPrice       float64          `json:"minimumPrice"`
	PaymentDirection   PaymentDirection `json:"paymentDirection"`
	Unit               string           `json:"unit"`
	MinimumQuantity    float64          `json:"minimumQuantity"`
	MaximumQuantity    float64          `json:"maximumQuantity"`
	Description        string           `json:"description"`
}

// StagedDeletions lists child rows the editor removed while editing an
// existing contract. They are applied server-side in the same transaction
// as the update, and can be discarded wholesale if the user cancels.
type StagedDeletions struct {
	Locations []uuid.UUID `json:"locations"`
	Materials []uuid.UUID `json:"materials"`
}

func (s StagedDeletions) Empty() bool {
	return len(s.Locations) == 0 && len(s.Materials) == 0
}

// RateCard is a contract's rates regrouped by location, the shape the
// Excel and PDF exporters consume.
type RateCard struct {
	Contract  Contract
	Supplier  Supplier
	Locations []RateCardLocation
}

type RateCardLocation struct {
	LocationID   uuid.UUID
	LocationName string
	LocationCode string
	Rates        []ContractRate
}
