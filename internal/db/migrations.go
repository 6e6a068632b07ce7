package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('draft', 'active', 'expired', 'terminated', 'pending');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'rate_type') THEN
			CREATE TYPE rate_type AS ENUM ('fixed_rate', 'discount_percentage', 'minimum_price_guarantee', 'free', 'we_pay');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_direction') THEN
			CREATE TYPE payment_direction AS ENUM ('we_receive', 'we_pay');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		code VARCHAR(64) NOT NULL,
		business_type VARCHAR(32) NOT NULL DEFAULT 'oil',
		email VARCHAR(255),
		phone VARCHAR(64),
		address TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_supplier_code ON suppliers (code);`,
	`CREATE TABLE IF NOT EXISTS supplier_locations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		supplier_id UUID NOT NULL REFERENCES suppliers(id),
		location_name VARCHAR(255) NOT NULL,
		location_code VARCHAR(64),
		address TEXT,
		contact_person VARCHAR(255),
		contact_phone VARCHAR(64),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_supplier_locations_supplier_id ON supplier_locations (supplier_id);`,
	`CREATE TABLE IF NOT EXISTS materials (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		code VARCHAR(64) NOT NULL,
		business_type VARCHAR(32) NOT NULL DEFAULT 'oil',
		default_unit VARCHAR(32),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_material_code ON materials (code);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_number VARCHAR(64) NOT NULL,
		supplier_id UUID NOT NULL REFERENCES suppliers(id),
		title VARCHAR(255) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status contract_status NOT NULL DEFAULT 'draft',
		terms TEXT,
		notes TEXT,
		total_value NUMERIC(18,3) NOT NULL DEFAULT 0,
		currency VARCHAR(8) NOT NULL,
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contract_number ON contracts (contract_number);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_supplier_id ON contracts (supplier_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE TABLE IF NOT EXISTS contract_locations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		location_id UUID NOT NULL REFERENCES supplier_locations(id),
		location_name VARCHAR(255) NOT NULL,
		location_code VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contract_location ON contract_locations (contract_id, location_id);`,
	`CREATE TABLE IF NOT EXISTS contract_rates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		location_id UUID NOT NULL REFERENCES supplier_locations(id),
		material_id UUID NOT NULL REFERENCES materials(id),
		rate_type rate_type NOT NULL DEFAULT 'fixed_rate',
		contract_rate NUMERIC(18,4) NOT NULL DEFAULT 0,
		discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
		minimum_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		payment_direction payment_direction NOT NULL DEFAULT 'we_receive',
		unit VARCHAR(32) NOT NULL,
		minimum_quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		maximum_quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_rates_contract_id ON contract_rates (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_rates_location_id ON contract_rates (location_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
