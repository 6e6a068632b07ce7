package model

import "github.com/google/uuid"

type Supplier struct {
	ID           uuid.UUID
	Name         string
	Code         string
	BusinessType string // "oil" or "scrap"
	Email        string
	Phone        string
	Address      string
	IsActive     bool
}

type SupplierLocation struct {
	ID            uuid.UUID
	SupplierID    uuid.UUID
	LocationName  string
	LocationCode  string
	Address       string
	ContactPerson string
	ContactPhone  string
	IsActive      bool
}
