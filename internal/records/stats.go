package records

// PaymentStats summarizes a payment collection. Recomputing over the same
// rows always yields the same totals regardless of order.
type PaymentStats struct {
	TotalRevenue float64        `json:"total_revenue"`
	StatusCounts map[string]int `json:"status_counts"`
}

// SummarizePayments folds rows into revenue and per-status counts. Revenue
// only counts rows whose status is exactly "paid".
func SummarizePayments(rows []PaymentRecord) PaymentStats {
	stats := PaymentStats{StatusCounts: make(map[string]int)}
	for _, row := range rows {
		stats.StatusCounts[row.Status]++
		if row.Status == StatusPaid {
			stats.TotalRevenue += row.Amount
		}
	}
	return stats
}

// SubscriptionStats counts subscriptions per lifecycle status.
type SubscriptionStats struct {
	Active   int `json:"active"`
	Trialing int `json:"trialing"`
	Canceled int `json:"canceled"`
}

func SummarizeSubscriptions(rows []SubscriptionRecord) SubscriptionStats {
	var stats SubscriptionStats
	for _, row := range rows {
		switch row.Status {
		case "active":
			stats.Active++
		case "trialing":
			stats.Trialing++
		case "canceled", "cancelled":
			stats.Canceled++
		}
	}
	return stats
}
