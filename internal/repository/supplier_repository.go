package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

type supplierRow struct {
	ID           uuid.UUID
	Name         string
	Code         string
	BusinessType string
	Email        *string
	Phone        *string
	Address      *string
	IsActive     bool
}

func (r *SupplierRepository) List(ctx context.Context) ([]model.Supplier, error) {
	var rows []supplierRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, code, business_type, email, phone, address, is_active
		FROM suppliers
		WHERE is_active
		ORDER BY name ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}

	suppliers := make([]model.Supplier, 0, len(rows))
	for _, row := range rows {
		suppliers = append(suppliers, supplierFromRow(row))
	}
	return suppliers, nil
}

func (r *SupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var row supplierRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, code, business_type, email, phone, address, is_active
		FROM suppliers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	supplier := supplierFromRow(row)
	return &supplier, nil
}

func (r *SupplierRepository) ListLocations(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierLocation, error) {
	var rows []struct {
		ID            uuid.UUID
		SupplierID    uuid.UUID
		LocationName  string
		LocationCode  *string
		Address       *string
		ContactPerson *string
		ContactPhone  *string
		IsActive      bool
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, supplier_id, location_name, location_code, address, contact_person, contact_phone, is_active
		FROM supplier_locations
		WHERE supplier_id = ? AND is_active
		ORDER BY location_name ASC
	`, supplierID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	locations := make([]model.SupplierLocation, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, model.SupplierLocation{
			ID:            row.ID,
			SupplierID:    row.SupplierID,
			LocationName:  row.LocationName,
			LocationCode:  deref(row.LocationCode),
			Address:       deref(row.Address),
			ContactPerson: deref(row.ContactPerson),
			ContactPhone:  deref(row.ContactPhone),
			IsActive:      row.IsActive,
		})
	}
	return locations, nil
}

func supplierFromRow(row supplierRow) model.Supplier {
	return model.Supplier{
		ID:           row.ID,
		Name:         row.Name,
		Code:         row.Code,
		BusinessType: row.BusinessType,
		Email:        deref(row.Email),
		Phone:        deref(row.Phone),
		Address:      deref(row.Address),
		IsActive:     row.IsActive,
	}
}
