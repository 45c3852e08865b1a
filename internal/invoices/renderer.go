package invoices

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/everbean/roastery-backend/pkg/config"
)

// Line is a single invoice row.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Document carries everything needed to render an invoice PDF.
type Document struct {
	OrderID       uint
	IssuedAt      time.Time
	CustomerName  string
	Street        string
	City          string
	PostalCode    string
	Country       string
	Lines         []Line
	DeliveryName  string
	DeliveryPrice decimal.Decimal
	Total         decimal.Decimal
}

// Renderer produces invoice PDFs fully in memory.
type Renderer struct {
	company string
}

// NewRenderer builds a renderer using the configured company name.
func NewRenderer(cfg config.InvoiceConfig) *Renderer {
	company := cfg.CompanyName
	if company == "" {
		company = "Everbean Roastery"
	}
	return &Renderer{company: company}
}

// Render lays out the invoice and returns the PDF bytes.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	if doc.OrderID == 0 {
		return nil, fmt.Errorf("order id is required")
	}
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("invoice has no lines")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice #%d", doc.OrderID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, r.company)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice #%d", doc.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+doc.IssuedAt.Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Bill to")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, doc.CustomerName)
	pdf.Ln(6)
	pdf.Cell(0, 6, doc.Street)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("%s %s, %s", doc.PostalCode, doc.City, doc.Country))
	pdf.Ln(10)

	colWidths := []float64{90, 20, 35, 35}
	headers := []string{"Item", "Qty", "Unit price", "Total"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 7, header, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(colWidths[0], 7, line.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%d", line.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, line.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, line.Total.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	if doc.DeliveryName != "" {
		pdf.CellFormat(colWidths[0], 7, doc.DeliveryName, "T", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, "", "T", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, "", "T", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, doc.DeliveryPrice.StringFixed(2), "T", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2], 8, "Grand total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, doc.Total.StringFixed(2), "T", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("rendered pdf is empty")
	}
	return buf.Bytes(), nil
}
