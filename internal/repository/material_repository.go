package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// List returns active materials, optionally narrowed to one business
// vertical ("oil" or "scrap").
func (r *MaterialRepository) List(ctx context.Context, businessType string) ([]model.Material, error) {
	var rows []struct {
		ID           uuid.UUID
		Name         string
		Code         string
		BusinessType string
		DefaultUnit  *string
		IsActive     bool
	}

	query := `
		SELECT id, name, code, business_type, default_unit, is_active
		FROM materials
		WHERE is_active
		ORDER BY name ASC
	`
	args := []interface{}{}
	if businessType != "" {
		query = `
			SELECT id, name, code, business_type, default_unit, is_active
			FROM materials
			WHERE is_active AND business_type = ?
			ORDER BY name ASC
		`
		args = append(args, businessType)
	}

	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	materials := make([]model.Material, 0, len(rows))
	for _, row := range rows {
		materials = append(materials, model.Material{
			ID:           row.ID,
			Name:         row.Name,
			Code:         row.Code,
			BusinessType: row.BusinessType,
			DefaultUnit:  deref(row.DefaultUnit),
			IsActive:     row.IsActive,
		})
	}
	return materials, nil
}
