package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
)

const receiptWidth = 32

func (s *Service) BuildReceipt(ctx context.Context, saleID string) (*domain.Receipt, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipt := ReceiptFromSale(*sale)
	return &receipt, nil
}

// ReceiptFromSale flattens a sale into receipt lines. Product names and SKUs
// come from the joined sale items.
func ReceiptFromSale(sale domain.Sale) domain.Receipt {
	lines := make([]domain.ReceiptLineItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		lines = append(lines, domain.ReceiptLineItem{
			Name:      item.ProductName,
			SKU:       item.ProductSKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Total:     item.Total,
		})
	}
	return domain.Receipt{
		ReceiptNumber:  ledger.SaleNumber(sale.ID),
		SaleID:         sale.ID,
		Status:         sale.Status,
		Customer:       sale.Customer,
		Lines:          lines,
		Subtotal:       sale.Subtotal,
		Tax:            sale.Tax,
		Total:          sale.Total,
		PaymentMethod:  sale.PaymentMethod,
		ReceivedAmount: sale.ReceivedAmount,
		ChangeAmount:   sale.ChangeAmount,
		IssuedAt:       sale.CreatedAt,
	}
}

// RenderReceiptText lays the receipt out for a 32 column thermal printer.
func RenderReceiptText(r domain.Receipt) string {
	rule := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	lines := []string{
		center("tokopos"),
		rule,
		truncate("No: " + r.ReceiptNumber),
		truncate("Date: " + r.IssuedAt.Format("2006-01-02 15:04:05")),
		truncate("Customer: " + r.Customer.Name),
	}
	if r.Status != domain.SaleStatusCompleted {
		lines = append(lines, center("*** "+strings.ToUpper(string(r.Status))+" ***"))
	}
	lines = append(lines, thin)
	for _, line := range r.Lines {
		lines = append(lines, truncate(line.Name))
		lines = append(lines, columns(fmt.Sprintf("  %d x %s", line.Quantity, money(line.UnitPrice)), money(line.Total)))
	}
	lines = append(lines,
		thin,
		columns("Subtotal", money(r.Subtotal)),
		columns("Tax", money(r.Tax)),
		columns("Total", money(r.Total)),
		columns("Paid ("+r.PaymentMethod+")", money(r.ReceivedAmount)),
		columns("Change", money(r.ChangeAmount)),
		rule,
		center("Thank you"),
		"",
	)
	return strings.Join(lines, "\n")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// width is the printed column count of s.
func width(s string) int {
	return utf8.RuneCountInString(s)
}

func truncate(s string) string {
	if width(s) <= receiptWidth {
		return s
	}
	return string([]rune(s)[:receiptWidth])
}

func center(s string) string {
	s = truncate(s)
	return strings.Repeat(" ", (receiptWidth-width(s))/2) + s
}

// columns left-aligns label and right-aligns value on one line. A label too
// long for the line is cut so value stays in view.
func columns(label string, value string) string {
	room := receiptWidth - width(value) - 1
	if room < 0 {
		room = 0
	}
	if width(label) > room {
		label = string([]rune(label)[:room])
	}
	gap := max(receiptWidth-width(label)-width(value), 1)
	return label + strings.Repeat(" ", gap) + value
}
