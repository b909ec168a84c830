package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarizePaymentsRevenueOnlyCountsPaid(t *testing.T) {
	stats := SummarizePayments(samplePayments())

	assert.Equal(t, 625.0, stats.TotalRevenue)
	assert.Equal(t, 3, stats.StatusCounts["paid"])
	assert.Equal(t, 1, stats.StatusCounts["pending"])
	assert.Equal(t, 1, stats.StatusCounts["failed"])
}

func TestSummarizePaymentsMatchesFilteredSum(t *testing.T) {
	filters := []PaymentFilter{
		{},
		{Status: "paid"},
		{Query: "pro"},
		{DateRange: DateRangeMonth},
		{Query: "example.com", DateRange: DateRangeWeek},
	}
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)

	for _, filter := range filters {
		rows := FilterPayments(samplePayments(), filter, now)
		stats := SummarizePayments(rows)

		var want float64
		for _, row := range rows {
			if row.Status == StatusPaid {
				want += row.Amount
			}
		}
		assert.Equal(t, want, stats.TotalRevenue)
	}
}

func TestSummarizePaymentsIdempotent(t *testing.T) {
	rows := samplePayments()
	first := SummarizePayments(rows)
	second := SummarizePayments(rows)
	assert.Equal(t, first, second)
}

func TestSummarizeSubscriptions(t *testing.T) {
	stats := SummarizeSubscriptions([]SubscriptionRecord{
		{Status: "active"},
		{Status: "active"},
		{Status: "trialing"},
		{Status: "canceled"},
		{Status: "past_due"},
	})

	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Trialing)
	assert.Equal(t, 1, stats.Canceled)
}
