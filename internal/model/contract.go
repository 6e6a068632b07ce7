package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
	ContractStatusPending    ContractStatus = "pending"
)

type RateType string

const (
	RateTypeFixed                 RateType = "fixed_rate"
	RateTypeDiscountPercentage    RateType = "discount_percentage"
	RateTypeMinimumPriceGuarantee RateType = "minimum_price_guarantee"
	RateTypeFree                  RateType = "free"
	RateTypeWePay                 RateType = "we_pay"
)

// Valid reports whether the value is one of the known rate types. The
// database column is an enum, so unknown values must be rejected before
// they reach an insert.
func (t RateType) Valid() bool {
	switch t {
	case RateTypeFixed, RateTypeDiscountPercentage, RateTypeMinimumPriceGuarantee, RateTypeFree, RateTypeWePay:
		return true
	}
	return false
}

type PaymentDirection string

const (
	PaymentDirectionWeReceive PaymentDirection = "we_receive"
	PaymentDirectionWePay     PaymentDirection = "we_pay"
)

func (d PaymentDirection) Valid() bool {
	return d == PaymentDirectionWeReceive || d == PaymentDirectionWePay
}

type Contract struct {
	ID             uuid.UUID
	ContractNumber string
	SupplierID     uuid.UUID
	SupplierName   string
	Title          string
	StartDate      time.Time
	EndDate        time.Time
	Status         ContractStatus
	Terms          string
	Notes          string
	TotalValue     float64
	Currency       string
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Rates          []ContractRate
}

// ContractRate is one flat rate row as stored: the location columns are
// denormalized onto every row so a contract's rate card can be regrouped
// by location without extra lookups.
type ContractRate struct {
	ID                 uuid.UUID
	ContractID         uuid.UUID
	LocationID         uuid.UUID
	LocationName       string
	LocationCode       string
	Address            string
	ContactPerson      string
	ContactPhone       string
	MaterialID         uuid.UUID
	MaterialName       string
	RateType           RateType
	ContractRate       float64
	DiscountPercentage float64
	MinimumPrice       float64
	PaymentDirection   PaymentDirection
	Unit               string
	MinimumQuantity    float64
	MaximumQuantity    float64
	Description        string
}
