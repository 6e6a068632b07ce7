package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a contract rate card as a workbook: one summary sheet
// plus a detail sheet per location.
func (g *Generator) Generate(card model.RateCard) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, card); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, location := range card.Locations {
		sheetName := buildSheetName(location.LocationName, location.LocationID, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeLocation(file, sheetName, card, location); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, card model.RateCard) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contract number")
	set("B1", card.Contract.ContractNumber)
	set("A2", "Title")
	set("B2", card.Contract.Title)
	set("A3", "Supplier")
	set("B3", card.Supplier.Name)
	set("A4", "Valid from")
	set("B4", formatDate(card.Contract.StartDate))
	set("A5", "Valid until")
	set("B5", formatDate(card.Contract.EndDate))
	set("A6", "Status")
	set("B6", string(card.Contract.Status))
	set("A7", "Currency")
	set("B7", card.Contract.Currency)

	tableRow := 9
	set(fmt.Sprintf("A%d", tableRow), "Location")
	set(fmt.Sprintf("B%d", tableRow), "Code")
	set(fmt.Sprintf("C%d", tableRow), "Material rates")

	for i, location := range card.Locations {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), location.LocationName)
		set(fmt.Sprintf("B%d", row), location.LocationCode)
		set(fmt.Sprintf("C%d", row), len(location.Rates))
	}

	_ = file.SetColWidth(sheet, "A", "A", 35)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	_ = file.SetColWidth(sheet, "C", "C", 16)
	return nil
}

func (g *Generator) writeLocation(file *excelize.File, sheet string, card model.RateCard, location model.RateCardLocation) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Contract number")
	set("B1", card.Contract.ContractNumber)
	set("A2", "Location")
	set("B2", location.LocationName)
	set("A3", "Code")
	set("B3", location.LocationCode)

	headers := []string{"Material", "Rate type", "Rate", "Unit", "Discount %", "Min price", "Min qty", "Max qty", "Direction", "Notes"}
	headerRow := 5
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, rate := range location.Rates {
		row := headerRow + 1 + i
		values := []interface{}{
			rate.MaterialName,
			rateTypeLabel(rate.RateType),
			rate.ContractRate,
			rate.Unit,
			rate.DiscountPercentage,
			rate.MinimumPrice,
			rate.MinimumQuantity,
			rate.MaximumQuantity,
			directionLabel(rate.PaymentDirection),
			rate.Description,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 30)
	_ = file.SetColWidth(sheet, "B", "B", 22)
	_ = file.SetColWidth(sheet, "J", "J", 35)
	return nil
}

func buildSheetName(name string, id uuid.UUID, used map[string]struct{}) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = id.String()[:8]
	}
	// Excel sheet names max out at 31 chars and reject a few characters.
	replacer := strings.NewReplacer("/", "-", "\\", "-", "?", "-", "*", "-", "[", "(", "]", ")", ":", "-")
	base = replacer.Replace(base)
	if runes := []rune(base); len(runes) > 28 {
		base = string(runes[:28])
	}

	candidate := base
	for i := 2; ; i++ {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s %d", base, i)
	}
}

func rateTypeLabel(t model.RateType) string {
	switch t {
	case model.RateTypeFixed:
		return "Fixed rate"
	case model.RateTypeDiscountPercentage:
		return "Discount %"
	case model.RateTypeMinimumPriceGuarantee:
		return "Min price guarantee"
	case model.RateTypeFree:
		return "Free"
	case model.RateTypeWePay:
		return "We pay"
	default:
		return string(t)
	}
}

func directionLabel(d model.PaymentDirection) string {
	if d == model.PaymentDirectionWePay {
		return "We pay"
	}
	return "We receive"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
