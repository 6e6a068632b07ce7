package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID             uuid.UUID
	ContractNumber string
	SupplierID     uuid.UUID
	SupplierName   string
	Title          string
	StartDate      time.Time
	EndDate        time.Time
	Status         string
	Terms          *string
	Notes          *string
	TotalValue     float64
	Currency       string
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (row contractRow) toModel() model.Contract {
	return model.Contract{
		ID:             row.ID,
		ContractNumber: row.ContractNumber,
		SupplierID:     row.SupplierID,
		SupplierName:   row.SupplierName,
		Title:          row.Title,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		Status:         model.ContractStatus(row.Status),
		Terms:          deref(row.Terms),
		Notes:          deref(row.Notes),
		TotalValue:     row.TotalValue,
		Currency:       row.Currency,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func (r *ContractRepository) List(ctx context.Context) ([]model.Contract, error) {
	var rows []contractRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id, c.contract_number, c.supplier_id, s.name AS supplier_name,
			c.title, c.start_date, c.end_date, c.status, c.terms, c.notes,
			c.total_value, c.currency, c.created_by, c.created_at, c.updated_at
		FROM contracts c
		JOIN suppliers s ON s.id = c.supplier_id
		ORDER BY c.created_at DESC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.toModel())
	}
	return contracts, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var row contractRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id, c.contract_number, c.supplier_id, s.name AS supplier_name,
			c.title, c.start_date, c.end_date, c.status, c.terms, c.notes,
			c.total_value, c.currency, c.created_by, c.created_at, c.updated_at
		FROM contracts c
		JOIN suppliers s ON s.id = c.supplier_id
		WHERE c.id = ?
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	contract := row.toModel()
	rates, err := r.listRates(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.Rates = rates
	return &contract, nil
}

func (r *ContractRepository) listRates(ctx context.Context, contractID uuid.UUID) ([]model.ContractRate, error) {
	var rows []struct {
		ID                 uuid.UUID
		ContractID         uuid.UUID
		LocationID         uuid.UUID
		LocationName       string
		LocationCode       *string
		Address            *string
		ContactPerson      *string
		ContactPhone       *string
		MaterialID         uuid.UUID
		MaterialName       string
		RateType           string
		ContractRate       float64
		DiscountPercentage float64
		MinimumPrice       float64
		PaymentDirection   string
		Unit               string
		MinimumQuantity    float64
		MaximumQuantity    float64
		Description        *string
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			cr.id, cr.contract_id, cr.location_id,
			cl.location_name, cl.location_code,
			sl.address, sl.contact_person, sl.contact_phone,
			cr.material_id, m.name AS material_name,
			cr.rate_type, cr.contract_rate, cr.discount_percentage, cr.minimum_price,
			cr.payment_direction, cr.unit, cr.minimum_quantity, cr.maximum_quantity,
			cr.description
		FROM contract_rates cr
		JOIN contract_locations cl ON cl.contract_id = cr.contract_id AND cl.location_id = cr.location_id
		JOIN supplier_locations sl ON sl.id = cr.location_id
		JOIN materials m ON m.id = cr.material_id
		WHERE cr.contract_id = ?
		ORDER BY cl.created_at ASC, cr.created_at ASC
	`, contractID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	rates := make([]model.ContractRate, 0, len(rows))
	for _, row := range rows {
		rates = append(rates, model.ContractRate{
			ID:                 row.ID,
			ContractID:         row.ContractID,
			LocationID:         row.LocationID,
			LocationName:       row.LocationName,
			LocationCode:       deref(row.LocationCode),
			Address:            deref(row.Address),
			ContactPerson:      deref(row.ContactPerson),
			ContactPhone:       deref(row.ContactPhone),
			MaterialID:         row.MaterialID,
			MaterialName:       row.MaterialName,
			RateType:           model.RateType(row.RateType),
			ContractRate:       row.ContractRate,
			DiscountPercentage: row.DiscountPercentage,
			MinimumPrice:       row.MinimumPrice,
			PaymentDirection:   model.PaymentDirection(row.PaymentDirection),
			Unit:               row.Unit,
			MinimumQuantity:    row.MinimumQuantity,
			MaximumQuantity:    row.MaximumQuantity,
			Description:        deref(row.Description),
		})
	}
	return rates, nil
}

// NextSequence returns the next free sequence number for contracts whose
// number matches the given prefix and year, e.g. CT-2026-%.
func (r *ContractRepository) NextSequence(ctx context.Context, prefix string, year int) (int, error) {
	var seq *int
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	if err := r.db.WithContext(ctx).Raw(`
		SELECT MAX(CAST(SPLIT_PART(contract_number, '-', 3) AS INT))
		FROM contracts
		WHERE contract_number LIKE ?
		  AND SPLIT_PART(contract_number, '-', 3) ~ '^[0-9]+$'
	`, pattern).Scan(&seq).Error; err != nil {
		return 0, err
	}
	if seq == nil {
		return 1, nil
	}
	return *seq + 1, nil
}

type ContractWrite struct {
	Payload   model.ContractPayload
	StartDate time.Time
	EndDate   time.Time
	CreatedBy uuid.UUID
}

// Create inserts the contract with its locations and rates in one
// transaction and returns the new id.
func (r *ContractRepository) Create(ctx context.Context, input ContractWrite) (uuid.UUID, error) {
	id := uuid.New()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO contracts (
				id, contract_number, supplier_id, title, start_date, end_date,
				status, terms, notes, total_value, currency, created_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, input.Payload.ContractNumber, input.Payload.SupplierID, input.Payload.Title,
			input.StartDate, input.EndDate, input.Payload.Status, input.Payload.Terms,
			input.Payload.Notes, input.Payload.TotalValue, input.Payload.Currency, input.CreatedBy,
		).Error; err != nil {
			return err
		}
		return writeLocations(tx, id, input.Payload.Locations)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Update rewrites the contract row, applies the editor's staged deletions
// and replaces the rate card of every location present in the payload.
// Locations neither staged for deletion nor present in the payload are
// left untouched.
func (r *ContractRepository) Update(ctx context.Context, id uuid.UUID, input ContractWrite, staged model.StagedDeletions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE contracts SET
				contract_number = ?, supplier_id = ?, title = ?, start_date = ?,
				end_date = ?, status = ?, terms = ?, notes = ?, total_value = ?,
				currency = ?, updated_at = NOW()
			WHERE id = ?
		`,
			input.Payload.ContractNumber, input.Payload.SupplierID, input.Payload.Title,
			input.StartDate, input.EndDate, input.Payload.Status, input.Payload.Terms,
			input.Payload.Notes, input.Payload.TotalValue, input.Payload.Currency, id,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(staged.Materials) > 0 {
			if err := tx.Exec(`
				DELETE FROM contract_rates WHERE contract_id = ? AND material_id IN ?
			`, id, staged.Materials).Error; err != nil {
				return err
			}
		}
		if len(staged.Locations) > 0 {
			if err := tx.Exec(`
				DELETE FROM contract_rates WHERE contract_id = ? AND location_id IN ?
			`, id, staged.Locations).Error; err != nil {
				return err
			}
			if err := tx.Exec(`
				DELETE FROM contract_locations WHERE contract_id = ? AND location_id IN ?
			`, id, staged.Locations).Error; err != nil {
				return err
			}
		}

		for _, loc := range input.Payload.Locations {
			if err := tx.Exec(`
				DELETE FROM contract_rates WHERE contract_id = ? AND location_id = ?
			`, id, loc.ID).Error; err != nil {
				return err
			}
			if err := tx.Exec(`
				DELETE FROM contract_locations WHERE contract_id = ? AND location_id = ?
			`, id, loc.ID).Error; err != nil {
				return err
			}
		}
		return writeLocations(tx, id, input.Payload.Locations)
	})
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM contracts WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func writeLocations(tx *gorm.DB, contractID uuid.UUID, locations []model.LocationPayload) error {
	for _, loc := range locations {
		if err := tx.Exec(`
			INSERT INTO contract_locations (contract_id, location_id, location_name, location_code)
			VALUES (?, ?, ?, ?)
		`, contractID, loc.ID, loc.LocationName, loc.LocationCode).Error; err != nil {
			return err
		}
		for _, rate := range loc.Materials {
			if err := tx.Exec(`
				INSERT INTO contract_rates (
					contract_id, location_id, material_id, rate_type, contract_rate,
					discount_percentage, minimum_price, payment_direction, unit,
					minimum_quantity, maximum_quantity, description
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				contractID, loc.ID, rate.MaterialID, rate.RateType, rate.ContractRate,
				rate.DiscountPercentage, rate.MinimumPrice, rate.PaymentDirection, rate.Unit,
				rate.MinimumQuantity, rate.MaximumQuantity, rate.Description,
			).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
