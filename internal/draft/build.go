package draft

import (
	"time"

	"github.com/google/uuid"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

const dateLayout = "2006-01-02"

// FromContract hydrates a draft from a stored contract, folding the flat
// rate list into one LocationEntry per location id. Rows keep the order
// they arrive in; missing units fall back to fallbackUnit.
func FromContract(c model.Contract, fallbackUnit string) ContractDraft {
	d := ContractDraft{
		ID:             c.ID,
		ContractNumber: c.ContractNumber,
		SupplierID:     c.SupplierID,
		Title:          c.Title,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Status:         c.Status,
		Terms:          c.Terms,
		Notes:          c.Notes,
		TotalValue:     c.TotalValue,
		Currency:       c.Currency,
	}

	index := make(map[uuid.UUID]int, len(c.Rates))
	for _, rate := range c.Rates {
		pos, ok := index[rate.LocationID]
		if !ok {
			d.Locations = append(d.Locations, LocationEntry{
				ID:            rate.LocationID,
				LocationName:  rate.LocationName,
				LocationCode:  rate.LocationCode,
				Address:       rate.Address,
				ContactPerson: rate.ContactPerson,
				ContactPhone:  rate.ContactPhone,
				Persisted:     true,
			})
			pos = len(d.Locations) - 1
			index[rate.LocationID] = pos
		}
		line := hydrateLine(rate)
		line.Persisted = true
		if line.Unit == "" {
			line.Unit = fallbackUnit
		}
		d.Locations[pos].RateLines = append(d.Locations[pos].RateLines, line)
	}
	return d
}

func hydrateLine(rate model.ContractRate) RateLine {
	line := RateLine{
		ID:                 rate.ID,
		MaterialID:         rate.MaterialID,
		Unit:               rate.Unit,
		RateType:           rate.RateType,
		ContractRate:       rate.ContractRate,
		DiscountPercentage: rate.DiscountPercentage,
		MinimumPrice:       rate.MinimumPrice,
		PaymentDirection:   rate.PaymentDirection,
		MinimumQuantity:    rate.MinimumQuantity,
		MaximumQuantity:    rate.MaximumQuantity,
		Description:        rate.Description,
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	if line.RateType == "" {
		line.RateType = model.RateTypeFixed
	}
	if line.PaymentDirection == "" {
		line.PaymentDirection = model.PaymentDirectionWeReceive
	}
	return line
}

// FromPayload rebuilds a draft from the submitted wire shape, used by the
// server-side validation path. Unparseable dates are left zero and a blank
// unit stays blank so the validator reports them, rather than the server
// guessing values the client never chose.
func FromPayload(p model.ContractPayload) ContractDraft {
	d := ContractDraft{
		ContractNumber: p.ContractNumber,
		SupplierID:     p.SupplierID,
		Title:          p.Title,
		StartDate:      parseDate(p.StartDate),
		EndDate:        parseDate(p.EndDate),
		Status:         model.ContractStatus(p.Status),
		Terms:          p.Terms,
		Notes:          p.Notes,
		TotalValue:     p.TotalValue,
		Currency:       p.Currency,
	}
	for _, loc := range p.Locations {
		entry := LocationEntry{
			ID:            loc.ID,
			LocationName:  loc.LocationName,
			LocationCode:  loc.LocationCode,
			Address:       loc.Address,
			ContactPerson: loc.ContactPerson,
			ContactPhone:  loc.ContactPhone,
		}
		for _, m := range loc.Materials {
			entry.RateLines = append(entry.RateLines, hydrateLine(model.ContractRate{
				MaterialID:         m.MaterialID,
				RateType:           m.RateType,
				ContractRate:       m.ContractRate,
				DiscountPercentage: m.DiscountPercentage,
				MinimumPrice:       m.MinimumPrice,
				PaymentDirection:   m.PaymentDirection,
				Unit:               m.Unit,
				MinimumQuantity:    m.MinimumQuantity,
				MaximumQuantity:    m.MaximumQuantity,
				Description:        m.Description,
			}))
		}
		d.Locations = append(d.Locations, entry)
	}
	return d
}

// ToPayload flattens the draft back into the wire shape. The free-rate
// rule is re-applied here so a line that became free through hydration
// rather than the editor still submits a zero rate. A blank title falls
// back to "Contract <number>".
func ToPayload(d ContractDraft) model.ContractPayload {
	p := model.ContractPayload{
		ContractNumber: d.ContractNumber,
		SupplierID:     d.SupplierID,
		Title:          d.Title,
		StartDate:      formatDate(d.StartDate),
		EndDate:        formatDate(d.EndDate),
		Status:         string(d.Status),
		Terms:          d.Terms,
		Notes:          d.Notes,
		TotalValue:     d.TotalValue,
		Currency:       d.Currency,
	}
	if p.Title == "" {
		p.Title = "Contract " + d.ContractNumber
	}
	for _, loc := range d.Locations {
		lp := model.LocationPayload{
			ID:            loc.ID,
			LocationName:  loc.LocationName,
			LocationCode:  loc.LocationCode,
			Address:       loc.Address,
			ContactPerson: loc.ContactPerson,
			ContactPhone:  loc.ContactPhone,
		}
		for _, line := range loc.RateLines {
			rate := line.ContractRate
			if line.RateType == model.RateTypeFree {
				rate = 0
			}
			lp.Materials = append(lp.Materials, model.RatePayload{
				MaterialID:         line.MaterialID,
				RateType:           line.RateType,
				ContractRate:       rate,
				DiscountPercentage: line.DiscountPercentage,
				MinimumPrice:       line.MinimumPrice,
				PaymentDirection:   line.PaymentDirection,
				Unit:               line.Unit,
				MinimumQuantity:    line.MinimumQuantity,
				MaximumQuantity:    line.MaximumQuantity,
				Description:        line.Description,
			})
		}
		p.Locations = append(p.Locations, lp)
	}
	return p
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	layouts := []string{dateLayout, time.RFC3339, "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
