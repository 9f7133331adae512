// Package whatsapp contains the pure formatting helpers that turn a
// committed order (or a cart preview) into a WhatsApp contact message
// and a shareable wa.me deep link.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// Line is one itemized row of the contact message
type Line struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// FormatPhone strips everything but digits and prefixes the Brazilian
// country code when the result looks like a local 10 or 11 digit number.
// This is a best-effort heuristic for Brazilian numbers, not E.164
// validation; anything else is returned as bare digits.
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 || len(digits) == 11 {
		return "55" + digits
	}
	return digits
}

// ComposeMessage renders the fixed order summary template. The output is
// deterministic for identical input: greeting, one row per line, a blank
// line, the total, and the order reference when one is supplied.
func ComposeMessage(customerName string, lines []Line, total float64, orderID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, meu nome é %s. Gostaria de fazer um pedido.\n\n", customerName)
	b.WriteString("Produtos:\n")
	for _, l := range lines {
		name := l.Name
		if name == "" {
			name = "Produto"
		}
		fmt.Fprintf(&b, "%dx %s - R$ %.2f\n", l.Quantity, name, l.UnitPrice)
	}
	fmt.Fprintf(&b, "\nTotal: R$ %.2f", total)
	if orderID != "" {
		fmt.Fprintf(&b, "\nPedido: %s", orderID)
	}
	return b.String()
}

// ComposeLink builds a wa.me deep link carrying the message as the text
// query parameter, form-urlencoded (spaces as +, UTF-8 percent escapes)
func ComposeLink(formattedPhone, message string) string {
	params := url.Values{}
	params.Set("text", message)
	return fmt.Sprintf("https://wa.me/%s?%s", formattedPhone, params.Encode())
}
