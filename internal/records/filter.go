package records

import (
	"strings"
	"time"
)

// DateRange names for FilterPayments.
const (
	DateRangeToday = "today"
	DateRangeWeek  = "week"
	DateRangeMonth = "month"
	DateRangeAll   = "all"
)

// PaymentFilter holds the admin payments table predicates. All active
// predicates are conjunctive.
type PaymentFilter struct {
	Query     string
	Customer  string
	Status    string
	DateRange string
}

// FilterPayments returns the rows matching every active predicate. The date
// range is evaluated against now in local wall-clock terms.
func FilterPayments(rows []PaymentRecord, f PaymentFilter, now time.Time) []PaymentRecord {
	out := make([]PaymentRecord, 0, len(rows))
	for _, row := range rows {
		if !matchesQuery(f.Query, row.CustomerName, row.CustomerEmail, row.Plan, row.TransactionID) {
			continue
		}
		if !matchesQuery(f.Customer, row.CustomerName, row.CustomerEmail) {
			continue
		}
		if !matchesStatus(f.Status, row.Status) {
			continue
		}
		if !matchesDateRange(f.DateRange, row.Date, now) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// SubscriptionFilter holds the admin subscriptions table predicates.
type SubscriptionFilter struct {
	Query  string
	Status string
}

func FilterSubscriptions(rows []SubscriptionRecord, f SubscriptionFilter) []SubscriptionRecord {
	out := make([]SubscriptionRecord, 0, len(rows))
	for _, row := range rows {
		if !matchesQuery(f.Query, row.CustomerName, row.CustomerEmail, row.Plan) {
			continue
		}
		if !matchesStatus(f.Status, row.Status) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// CustomerFilter holds the admin customers table predicates.
type CustomerFilter struct {
	Query  string
	Status string
	Plan   string
}

func FilterCustomers(rows []CustomerRecord, f CustomerFilter) []CustomerRecord {
	out := make([]CustomerRecord, 0, len(rows))
	for _, row := range rows {
		if !matchesQuery(f.Query, row.Name, row.Email) {
			continue
		}
		if !matchesStatus(f.Status, row.Status) {
			continue
		}
		if !matchesStatus(f.Plan, row.Plan) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesQuery(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesStatus(want, got string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" || want == "all" {
		return true
	}
	return strings.EqualFold(want, got)
}

func matchesDateRange(dateRange, date string, now time.Time) bool {
	switch strings.ToLower(strings.TrimSpace(dateRange)) {
	case "", DateRangeAll:
		return true
	case DateRangeToday:
		ts, ok := parseLocalDate(date)
		if !ok {
			return false
		}
		y1, m1, d1 := ts.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateRangeWeek:
		ts, ok := parseLocalDate(date)
		if !ok {
			return false
		}
		return !ts.Before(now.AddDate(0, 0, -7)) && !ts.After(now)
	case DateRangeMonth:
		ts, ok := parseLocalDate(date)
		if !ok {
			return false
		}
		return !ts.Before(now.AddDate(0, -1, 0)) && !ts.After(now)
	default:
		return true
	}
}

func parseLocalDate(date string) (time.Time, bool) {
	ts, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
