package draft

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

// Validate checks a draft before submit and returns human-readable
// blockers in a stable order: contract scalars first, then per-location
// and per-row problems, then a whole-draft summary. An empty slice means
// the draft is submittable.
func Validate(d ContractDraft) []string {
	var errs []string

	if d.SupplierID == uuid.Nil {
		errs = append(errs, "Supplier is required")
	}
	if d.StartDate.IsZero() {
		errs = append(errs, "Start date is required")
	}
	if d.EndDate.IsZero() {
		errs = append(errs, "End date is required")
	}
	if !d.StartDate.IsZero() && !d.EndDate.IsZero() && d.EndDate.Before(d.StartDate) {
		errs = append(errs, "End date must be on or after the start date")
	}

	if len(d.Locations) == 0 {
		errs = append(errs, "At least one contract location is required")
		return errs
	}

	for _, loc := range d.Locations {
		name := locationLabel(loc)
		if len(loc.RateLines) == 0 {
			errs = append(errs, fmt.Sprintf("Location %s must have at least one material rate", name))
			continue
		}
		for i, line := range loc.RateLines {
			row := i + 1
			if line.MaterialID == uuid.Nil {
				errs = append(errs, fmt.Sprintf("Material selection is required for %s row %d", name, row))
			}
			if strings.TrimSpace(line.Unit) == "" {
				errs = append(errs, fmt.Sprintf("Unit is required for %s row %d", name, row))
			}
			if line.RateType != model.RateTypeFree && line.ContractRate <= 0 {
				errs = append(errs, fmt.Sprintf("Contract rate must be greater than zero for %s row %d", name, row))
			}
			if line.MinimumQuantity > 0 && line.MaximumQuantity > 0 && line.MaximumQuantity < line.MinimumQuantity {
				errs = append(errs, fmt.Sprintf("Maximum quantity cannot be less than minimum quantity for %s row %d", name, row))
			}
		}
	}

	if !hasUsableRate(d) {
		errs = append(errs, "At least one complete material rate is required")
	}
	return errs
}

// IsValid is the submit-button gate; the same Validate call runs again on
// submit in case the gate went stale.
func IsValid(d ContractDraft) bool {
	return len(Validate(d)) == 0
}

func hasUsableRate(d ContractDraft) bool {
	for _, loc := range d.Locations {
		for _, line := range loc.RateLines {
			if line.IsComplete() {
				return true
			}
		}
	}
	return false
}

func locationLabel(loc LocationEntry) string {
	if loc.LocationName != "" {
		return loc.LocationName
	}
	if loc.LocationCode != "" {
		return loc.LocationCode
	}
	return loc.ID.String()
}
