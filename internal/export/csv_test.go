package export

import (
	"strings"
	"testing"
	"time"

	"github.com/innovatun/console/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentsLineCount(t *testing.T) {
	rows := []records.PaymentRecord{
		{CustomerEmail: "a@example.com", CustomerName: "Alice", Amount: 100, Currency: "USD", Status: "paid", Date: "2024-06-01", Plan: "Pro"},
		{CustomerEmail: "b@example.com", CustomerName: "Bob", Amount: 49.5, Currency: "USD", Status: "pending", Date: "2024-06-02", Plan: "Starter"},
	}

	out := string(Payments(rows))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Customer Email,Customer Name,Amount,Currency,Status,Payment Method,Date,Plan,Transaction ID", lines[0])
	assert.Equal(t, "a@example.com,Alice,100,USD,paid,,2024-06-01,Pro,", lines[1])
	assert.Equal(t, "b@example.com,Bob,49.5,USD,pending,,2024-06-02,Starter,", lines[2])
}

func TestPaymentsEmpty(t *testing.T) {
	out := string(Payments(nil))
	assert.Len(t, strings.Split(out, "\n"), 1)
}

func TestPaymentsNoEscaping(t *testing.T) {
	rows := []records.PaymentRecord{
		{CustomerName: "Smith, Jane", CustomerEmail: "jane@example.com", Status: "paid"},
	}

	out := string(Payments(rows))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[1], `"`)
	assert.True(t, strings.HasPrefix(lines[1], "jane@example.com,Smith, Jane,"))
}

func TestCustomers(t *testing.T) {
	rows := []records.CustomerRecord{
		{Email: "c@example.com", Name: "Carol", Plan: "Enterprise", Status: "active", SignupDate: "2024-01-01", LastLogin: "2024-06-01", TotalSpent: 1200},
	}

	out := string(Customers(rows))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Email,Name,Plan,Status,Signup Date,Last Login,Total Spent", lines[0])
	assert.Equal(t, "c@example.com,Carol,Enterprise,active,2024-01-01,2024-06-01,1200", lines[1])
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "payments-2024-06-15.csv", Filename("payments", now))
}
