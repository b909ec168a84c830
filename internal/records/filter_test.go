package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayments() []PaymentRecord {
	return []PaymentRecord{
		{ID: "1", CustomerName: "Alice", CustomerEmail: "alice@example.com", Plan: "Pro", Status: "paid", Amount: 100, Date: "2024-06-15", TransactionID: "txn_alice"},
		{ID: "2", CustomerName: "Bob", CustomerEmail: "bob@example.com", Plan: "Starter", Status: "pending", Amount: 50, Date: "2024-06-10"},
		{ID: "3", CustomerName: "Carol", CustomerEmail: "carol@example.com", Plan: "Pro", Status: "failed", Amount: 75, Date: "2024-05-01"},
		{ID: "4", CustomerName: "Dave", CustomerEmail: "dave@example.com", Plan: "Enterprise", Status: "paid", Amount: 500, Date: "2024-04-01"},
		{ID: "5", CustomerName: "Erin", CustomerEmail: "erin@example.com", Plan: "Pro", Status: "paid", Amount: 25, Date: "2024-06-18"},
	}
}

func filterNow() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
}

func TestFilterPaymentsQuery(t *testing.T) {
	rows := FilterPayments(samplePayments(), PaymentFilter{Query: "ali"}, filterNow())
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID)

	rows = FilterPayments(samplePayments(), PaymentFilter{Query: "txn_alice"}, filterNow())
	require.Len(t, rows, 1)

	rows = FilterPayments(samplePayments(), PaymentFilter{Query: "pro"}, filterNow())
	assert.Len(t, rows, 3)
}

func TestFilterPaymentsConjunctive(t *testing.T) {
	rows := FilterPayments(samplePayments(), PaymentFilter{Query: "pro", Status: "failed"}, filterNow())
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].ID)

	rows = FilterPayments(samplePayments(), PaymentFilter{Query: "pro", Status: "pending"}, filterNow())
	assert.Empty(t, rows)
}

func TestFilterPaymentsStatusAll(t *testing.T) {
	rows := FilterPayments(samplePayments(), PaymentFilter{Status: "all"}, filterNow())
	assert.Len(t, rows, 5)
}

func TestFilterPaymentsDateRanges(t *testing.T) {
	cases := []struct {
		dateRange string
		wantIDs   []string
	}{
		// Row 5 is dated after now: only the unbounded ranges admit it.
		{dateRange: DateRangeToday, wantIDs: []string{"1"}},
		{dateRange: DateRangeWeek, wantIDs: []string{"1", "2"}},
		{dateRange: DateRangeMonth, wantIDs: []string{"1", "2"}},
		{dateRange: DateRangeAll, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{dateRange: "", wantIDs: []string{"1", "2", "3", "4", "5"}},
	}
	for _, tc := range cases {
		t.Run("range "+tc.dateRange, func(t *testing.T) {
			rows := FilterPayments(samplePayments(), PaymentFilter{DateRange: tc.dateRange}, filterNow())
			ids := make([]string, 0, len(rows))
			for _, row := range rows {
				ids = append(ids, row.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestFilterPaymentsCustomer(t *testing.T) {
	rows := FilterPayments(samplePayments(), PaymentFilter{Customer: "bob@"}, filterNow())
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID)
}

func TestFilterSubscriptions(t *testing.T) {
	subs := []SubscriptionRecord{
		{ID: "1", CustomerEmail: "a@example.com", Plan: "Pro", Status: "active"},
		{ID: "2", CustomerEmail: "b@example.com", Plan: "Starter", Status: "canceled"},
	}

	rows := FilterSubscriptions(subs, SubscriptionFilter{Status: "active"})
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID)

	rows = FilterSubscriptions(subs, SubscriptionFilter{Query: "starter"})
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID)
}

func TestFilterCustomers(t *testing.T) {
	customers := []CustomerRecord{
		{ID: "1", Email: "a@example.com", Name: "Alice", Plan: "Pro", Status: "active"},
		{ID: "2", Email: "b@example.com", Name: "Bob", Plan: "Starter", Status: "inactive"},
	}

	rows := FilterCustomers(customers, CustomerFilter{Plan: "Pro"})
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID)

	rows = FilterCustomers(customers, CustomerFilter{Query: "bob", Status: "inactive"})
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].ID)
}
