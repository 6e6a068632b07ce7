package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/jojimjohn/pbm-contracts/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the contract rate card as a printable document:
// header, supplier block, one rate table per location, signature lines.
func (g *Generator) Generate(card model.RateCard) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Supplier Purchase Contract", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract %s - %s", card.Contract.ContractNumber, card.Contract.Title), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Valid %s to %s", formatDate(card.Contract.StartDate), formatDate(card.Contract.EndDate)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addSupplierBlock(pdf, g.fontName, card.Supplier)
	pdf.Ln(4)

	headers := []string{"Material", "Rate type", "Rate", "Unit", "Min qty", "Max qty", "Direction"}
	colWidths := []float64{70, 42, 28, 24, 28, 28, 30}

	for _, location := range card.Locations {
		pdf.SetFont(g.fontName, "B", 12)
		label := location.LocationName
		if location.LocationCode != "" {
			label = fmt.Sprintf("%s (%s)", location.LocationName, location.LocationCode)
		}
		pdf.CellFormat(0, 8, label, "", 1, "L", false, 0, "")

		drawTableRow(pdf, g.fontName, headers, colWidths, true)
		for _, rate := range location.Rates {
			row := []string{
				rate.MaterialName,
				strings.ReplaceAll(string(rate.RateType), "_", " "),
				formatAmount(rate.ContractRate, 3),
				rate.Unit,
				formatAmount(rate.MinimumQuantity, 2),
				formatAmount(rate.MaximumQuantity, 2),
				strings.ReplaceAll(string(rate.PaymentDirection), "_", " "),
			}
			drawTableRow(pdf, g.fontName, row, colWidths, false)
		}
		pdf.Ln(4)
	}

	if card.Contract.Terms != "" {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Terms", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, card.Contract.Terms, "", "L", false)
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Signatures", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	signatureLine(pdf, "Buyer")
	signatureLine(pdf, "Supplier")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addSupplierBlock(pdf *gofpdf.Fpdf, fontName string, supplier model.Supplier) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, "Supplier", "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		supplier.Name,
		fmt.Sprintf("Code: %s", safeValue(supplier.Code)),
		fmt.Sprintf("Address: %s", safeValue(supplier.Address)),
		fmt.Sprintf("Phone: %s", safeValue(supplier.Phone)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureLine(pdf *gofpdf.Fpdf, label string) {
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: ______________________ Date: ____________", label), "", 1, "L", false, 0, "")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
