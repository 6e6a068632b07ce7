package http

import (
	"time"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

const dateLayout = "2006-01-02"

type contractResponse struct {
	ID             string         `json:"id"`
	ContractNumber string         `json:"contractNumber"`
	SupplierID     string         `json:"supplierId"`
	SupplierName   string         `json:"supplierName"`
	Title          string         `json:"title"`
	StartDate      string         `json:"startDate"`
	EndDate        string         `json:"endDate"`
	Status         string         `json:"status"`
	Terms          string         `json:"terms"`
	Notes          string         `json:"notes"`
	TotalValue     float64        `json:"totalValue"`
	Currency       string         `json:"currency"`
	CreatedBy      string         `json:"createdBy"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
	Rates          []rateResponse `json:"rates"`
}

type rateResponse struct {
	ID                 string  `json:"id"`
	LocationID         string  `json:"locationId"`
	LocationName       string  `json:"locationName"`
	LocationCode       string  `json:"locationCode"`
	Address            string  `json:"address"`
	ContactPerson      string  `json:"contactPerson"`
	ContactPhone       string  `json:"contactPhone"`
	MaterialID         string  `json:"materialId"`
	MaterialName       string  `json:"materialName"`
	RateType           string  `json:"rateType"`
	ContractRate       float64 `json:"contractRate"`
	DiscountPercentage float64 `json:"discountPercentage"`
	MinimumPrice       float64 `json:"minimumPrice"`
	PaymentDirection   string  `json:"paymentDirection"`
	Unit               string  `json:"unit"`
	MinimumQuantity    float64 `json:"minimumQuantity"`
	MaximumQuantity    float64 `json:"maximumQuantity"`
	Description        string  `json:"description"`
}

func toContractResponse(c model.Contract) contractResponse {
	out := contractResponse{
		ID:             c.ID.String(),
		ContractNumber: c.ContractNumber,
		SupplierID:     c.SupplierID.String(),
		SupplierName:   c.SupplierName,
		Title:          c.Title,
		StartDate:      c.StartDate.Format(dateLayout),
		EndDate:        c.EndDate.Format(dateLayout),
		Status:         string(c.Status),
		Terms:          c.Terms,
		Notes:          c.Notes,
		TotalValue:     c.TotalValue,
		Currency:       c.Currency,
		CreatedBy:      c.CreatedBy.String(),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
		Rates:          []rateResponse{},
	}
	for _, rate := range c.Rates {
		out.Rates = append(out.Rates, rateResponse{
			ID:                 rate.ID.String(),
			LocationID:         rate.LocationID.String(),
			LocationName:       rate.LocationName,
			LocationCode:       rate.LocationCode,
			Address:            rate.Address,
			ContactPerson:      rate.ContactPerson,
			ContactPhone:       rate.ContactPhone,
			MaterialID:         rate.MaterialID.String(),
			MaterialName:       rate.MaterialName,
			RateType:           string(rate.RateType),
			ContractRate:       rate.ContractRate,
			DiscountPercentage: rate.DiscountPercentage,
			MinimumPrice:       rate.MinimumPrice,
			PaymentDirection:   string(rate.PaymentDirection),
			Unit:               rate.Unit,
			MinimumQuantity:    rate.MinimumQuantity,
			MaximumQuantity:    rate.MaximumQuantity,
			Description:        rate.Description,
		})
	}
	return out
}

type supplierResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	BusinessType string `json:"businessType"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

func toSupplierResponse(s model.Supplier) supplierResponse {
	return supplierResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		Code:         s.Code,
		BusinessType: s.BusinessType,
		Email:        s.Email,
		Phone:        s.Phone,
		Address:      s.Address,
	}
}

type locationResponse struct {
	ID            string `json:"id"`
	SupplierID    string `json:"supplierId"`
	LocationName  string `json:"locationName"`
	LocationCode  string `json:"locationCode"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	ContactPhone  string `json:"contactPhone"`
}

func toLocationResponse(loc model.SupplierLocation) locationResponse {
	return locationResponse{
		ID:            loc.ID.String(),
		SupplierID:    loc.SupplierID.String(),
		LocationName:  loc.LocationName,
		LocationCode:  loc.LocationCode,
		Address:       loc.Address,
		ContactPerson: loc.ContactPerson,
		ContactPhone:  loc.ContactPhone,
	}
}

type materialResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	BusinessType string `json:"businessType"`
	DefaultUnit  string `json:"defaultUnit"`
}

func toMaterialResponse(m model.Material) materialResponse {
	return materialResponse{
		ID:           m.ID.String(),
		Name:         m.Name,
		Code:         m.Code,
		BusinessType: m.BusinessType,
		DefaultUnit:  m.DefaultUnit,
	}
}
