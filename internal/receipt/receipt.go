// Package receipt turns a confirmed order into display text. Nothing here
// mutates its input.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/caffeinecoffee/storefront/internal/domain"
)

const width = 48

var (
	printer = message.NewPrinter(language.Indonesian)

	weekdays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	months   = [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
)

// Line is one formatted receipt row
type Line struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

// View is the formatted receipt
type View struct {
	OrderNumber   string `json:"orderNumber"`
	Date          string `json:"date"`
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Lines         []Line `json:"lines"`
	Subtotal      string `json:"subtotal"`
	Shipping      string `json:"shipping"`
	Total         string `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
}

// PaymentMethodLabel maps a payment code to its display name,
// passing unknown codes through.
func PaymentMethodLabel(code string) string {
	return domain.PaymentMethod(code).Label()
}

// FormatRupiah formats minor units as "Rp. 65.000"
func FormatRupiah(amount int64) string {
	return "Rp. " + printer.Sprintf("%d", amount)
}

// FormatDate formats t as an Indonesian long date, e.g. "Jumat, 16 Oktober 2026"
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

// Build formats data for display
func Build(data domain.ReceiptData) View {
	lines := make([]Line, 0, len(data.Items))
	for _, item := range data.Items {
		lines = append(lines, Line{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: FormatRupiah(item.Price),
			LineTotal: FormatRupiah(item.LineTotal()),
		})
	}

	return View{
		OrderNumber:   data.OrderNumber,
		Date:          FormatDate(data.OrderDate),
		CustomerName:  data.CustomerName,
		Email:         data.Email,
		Phone:         data.Phone,
		Address:       data.Address,
		Lines:         lines,
		Subtotal:      FormatRupiah(data.Subtotal),
		Shipping:      FormatRupiah(data.Shipping),
		Total:         FormatRupiah(data.Total),
		PaymentMethod: PaymentMethodLabel(string(data.PaymentMethod)),
	}
}

// Text renders v as a plain-text receipt
func Text(v View) string {
	var lines []string

	lines = append(lines, strings.Repeat("=", width))
	lines = append(lines, center("CAFFEINE COFFEE"))
	lines = append(lines, strings.Repeat("=", width))
	lines = append(lines, "No. Pesanan: "+v.OrderNumber)
	lines = append(lines, "Tanggal: "+v.Date)
	lines = append(lines, strings.Repeat("-", width))
	lines = append(lines, "Nama: "+v.CustomerName)
	lines = append(lines, "Email: "+v.Email)
	lines = append(lines, "Telepon: "+v.Phone)
	lines = append(lines, "Alamat: "+v.Address)
	lines = append(lines, strings.Repeat("-", width))

	for _, l := range v.Lines {
		lines = append(lines, fmt.Sprintf("%d x %s @ %s = %s", l.Quantity, l.Name, l.UnitPrice, l.LineTotal))
	}

	lines = append(lines, strings.Repeat("-", width))
	lines = append(lines, "Subtotal: "+v.Subtotal)
	lines = append(lines, "Ongkos Kirim: "+v.Shipping)
	lines = append(lines, "Total: "+v.Total)
	lines = append(lines, "Metode Pembayaran: "+v.PaymentMethod)
	lines = append(lines, strings.Repeat("=", width))
	lines = append(lines, center("Terima kasih!"))
	lines = append(lines, strings.Repeat("=", width))

	return strings.Join(lines, "\n") + "\n"
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
