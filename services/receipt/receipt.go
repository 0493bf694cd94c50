package receipt

import (
	"bytes"
	"fmt"

	"wheelstrust/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// Renderer produces A4 PDF receipts for bookings.
type Renderer struct {
	// Issuer is printed in the receipt header.
	Issuer string
}

func NewRenderer(issuer string) *Renderer {
	if issuer == "" {
		issuer = "WheelsTrust"
	}
	return &Renderer{Issuer: issuer}
}

// Render lays out the booking summary, its line items and a QR code of the booking id.
func (r *Renderer) Render(detail models.BookingDetail) ([]byte, error) {
	qrPNG, err := qrcode.Encode(detail.ID, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking "+detail.ID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, r.Issuer+" booking receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, label)
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, value)
		pdf.Ln(8)
	}
	line("Booking", detail.ID)
	line("Status", string(detail.Status))
	line("Date", models.FormatCalendarDate(detail.Date))
	line("Time", detail.Time)
	if detail.ProviderInfo != nil {
		line("Provider", detail.ProviderInfo.Name)
		if detail.ProviderInfo.Phone != "" {
			line("Phone", detail.ProviderInfo.Phone)
		}
	}
	if detail.UserInfo != nil {
		line("Customer", detail.UserInfo.Name)
		if detail.UserInfo.Email != "" {
			line("Email", detail.UserInfo.Email)
		}
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(100, 8, "Service", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Duration", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Price", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	for _, item := range detail.Services {
		pdf.CellFormat(100, 8, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, item.Duration, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, formatPrice(item.Price), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(140, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, formatPrice(detail.TotalPrice), "T", 1, "R", false, 0, "")

	if detail.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, detail.Notes, "", "L", false)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
