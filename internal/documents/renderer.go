package documents

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
)

// Renderer produces PDF documents for invoices and orders.
type Renderer struct {
	orgName  string
	orgLine  string
	currency string
}

func NewRenderer(cfg config.DocumentsConfig) *Renderer {
	return &Renderer{
		orgName:  cfg.OrgName,
		orgLine:  cfg.OrgLine,
		currency: cfg.Currency,
	}
}

func (r *Renderer) newPage(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, r.orgName)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 5, r.orgLine)
	pdf.Ln(10)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	return pdf
}

func (r *Renderer) metaRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (r *Renderer) tableHeader(pdf *fpdf.Fpdf, columns []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, column := range columns {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, column, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
}

func (r *Renderer) totalRow(pdf *fpdf.Fpdf, widths []float64, amount string) {
	labelWidth := 0.0
	for _, w := range widths[:len(widths)-1] {
		labelWidth += w
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[len(widths)-1], 7, fmt.Sprintf("%s %s", amount, r.currency), "1", 1, "R", false, 0, "")
}

// RenderInvoice produces the invoice PDF.
func (r *Renderer) RenderInvoice(invoice *models.Invoice) ([]byte, error) {
	pdf := r.newPage("Invoice " + invoice.InvoiceNumber)

	r.metaRow(pdf, "Invoice number", invoice.InvoiceNumber)
	r.metaRow(pdf, "Room", invoice.RoomNumber)
	r.metaRow(pdf, "Issued", invoice.CreatedAt.Format("2006-01-02"))
	r.metaRow(pdf, "Due date", invoice.DueDate.Format("2006-01-02"))
	r.metaRow(pdf, "Status", string(invoice.Status))
	if invoice.PaymentDate != nil {
		r.metaRow(pdf, "Paid on", invoice.PaymentDate.Format("2006-01-02"))
	}
	pdf.Ln(5)

	widths := []float64{100, 25, 25, 30}
	r.tableHeader(pdf, []string{"Description", "Qty", "Amount", "Line total"}, widths)
	for _, line := range invoice.Lines {
		pdf.CellFormat(widths[0], 7, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, line.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}
	r.totalRow(pdf, widths, invoice.Amount.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderOrder produces the order receipt PDF.
func (r *Renderer) RenderOrder(order *models.Order) ([]byte, error) {
	pdf := r.newPage("Order " + order.OrderNumber)

	r.metaRow(pdf, "Order number", order.OrderNumber)
	r.metaRow(pdf, "Room", order.RoomNumber)
	r.metaRow(pdf, "Placed", order.CreatedAt.Format("2006-01-02 15:04"))
	r.metaRow(pdf, "Status", string(order.Status))
	r.metaRow(pdf, "Payment", fmt.Sprintf("%s (%s)", order.PaymentMethod, order.PaymentStatus))
	if order.DeliveredAt != nil {
		r.metaRow(pdf, "Delivered", order.DeliveredAt.Format("2006-01-02 15:04"))
	}
	pdf.Ln(5)

	widths := []float64{100, 25, 25, 30}
	r.tableHeader(pdf, []string{"Item", "Qty", "Unit price", "Line total"}, widths)
	for _, line := range order.Lines {
		pdf.CellFormat(widths[0], 7, line.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, line.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}
	r.totalRow(pdf, widths, order.TotalAmount.StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render order pdf: %w", err)
	}
	return buf.Bytes(), nil
}
