package billing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/innovatun/console/internal/records"
)

// DefaultPaymentMethod is shown when the source row names no method.
const DefaultPaymentMethod = "Credit Card"

const dateLayout = "2006-01-02"

// Record extends a normalized subscription with the display-ready billing
// fields.
type Record struct {
	records.SubscriptionRecord

	BillingPeriod string `json:"billing_period"`
	NextBilling   string `json:"next_billing_date"`
	TotalPaid     string `json:"total_paid"`
	PaymentMethod string `json:"payment_method"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
}

// Derive computes the billing row for one subscription.
func Derive(sub records.SubscriptionRecord) Record {
	end := ""
	if sub.EndDate != nil {
		end = *sub.EndDate
	}
	created := sub.CreatedAt
	if created == "" {
		created = sub.StartDate
	}

	return Record{
		SubscriptionRecord: sub,
		BillingPeriod:      sub.StartDate + " - " + end,
		NextBilling:        NextBillingDate(end),
		TotalPaid:          TotalPaid(sub.Amount, created, end),
		PaymentMethod:      DefaultPaymentMethod,
		InvoiceNumber:      DocumentNumber("INV", sub.SessionID),
		ReceiptNumber:      DocumentNumber("RCP", sub.SessionID),
	}
}

// DeriveAll maps a subscription collection into billing rows.
func DeriveAll(subs []records.SubscriptionRecord) []Record {
	out := make([]Record, 0, len(subs))
	for _, sub := range subs {
		out = append(out, Derive(sub))
	}
	return out
}

// NextBillingDate is the period end plus 24 hours. The fixed one-day offset
// stands in for real billing-cycle anchoring.
func NextBillingDate(periodEnd string) string {
	ts, ok := records.ParseTimestamp(periodEnd)
	if !ok {
		return ""
	}
	return ts.Add(24 * time.Hour).Format(dateLayout)
}

// TotalPaid approximates lifetime spend as amount times elapsed 30-day
// cycles between createdAt and periodEnd, floored at one cycle.
func TotalPaid(amount float64, createdAt, periodEnd string) string {
	cycles := 1.0
	start, okStart := records.ParseTimestamp(createdAt)
	end, okEnd := records.ParseTimestamp(periodEnd)
	if okStart && okEnd && end.After(start) {
		days := end.Sub(start).Hours() / 24
		cycles = math.Max(1, math.Ceil(days/30))
	}
	return "$" + FormatMoney(amount*cycles)
}

// DocumentNumber builds an invoice/receipt number from the first 8
// characters of the checkout session ID, upper-cased.
func DocumentNumber(prefix, sessionID string) string {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ""
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + "-" + strings.ToUpper(id)
}

// FormatMoney renders a float with thousands separators, keeping two
// decimals only when the value is fractional.
func FormatMoney(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	text := strconv.FormatFloat(value, 'f', 2, 64)
	whole, fraction, _ := strings.Cut(text, ".")
	if fraction == "00" {
		fraction = ""
	}

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if fraction != "" {
		out += "." + fraction
	}
	if negative {
		out = "-" + out
	}
	return out
}
