package records

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/innovatun/console/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusFailed  = "failed"
)

// DefaultCurrency is applied when the source row carries no currency field.
const DefaultCurrency = "USD"

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

// Normalizer maps raw upstream rows into the stable record shapes. It never
// mutates its input; every call produces fresh records.
type Normalizer struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewNormalizer(p Params) *Normalizer {
	return &Normalizer{
		log:   p.Log.Named("records.normalizer"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// NormalizeStatus lower-cases a raw status and maps "active" to "paid".
// Unrecognized values pass through verbatim.
func NormalizeStatus(raw string) string {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "active" {
		return StatusPaid
	}
	return status
}

// Payments flattens subscription-shaped rows into payment records. A row with
// an array-valued "payments" field yields one record per element, each
// inheriting the parent's customer, plan, currency and amount as defaults.
// Without the array the row itself becomes exactly one derived payment, but
// only when it carries a non-empty status.
func (n *Normalizer) Payments(raw []RawRecord) []PaymentRecord {
	out := make([]PaymentRecord, 0, len(raw))
	for _, row := range raw {
		out = append(out, n.paymentsFrom(row)...)
	}
	return out
}

func (n *Normalizer) paymentsFrom(row RawRecord) []PaymentRecord {
	name := row.First("customerName", "name", "fullName")
	email := row.First("customerEmail", "email", "userEmail")
	plan := row.First("plan", "planName", "product", "tier")
	currency := row.First("currency", "currencyCode")
	if currency == "" {
		currency = DefaultCurrency
	}
	amountValue, _ := row.FirstValue("amount", "price", "unitAmount")
	method := row.First("paymentMethod", "method")
	if method == "" && row.First("sessionId") != "" {
		method = "Stripe"
	}
	txn := row.First("transactionId", "latest_invoice", "subscriptionId", "sessionId")
	now := n.clock.Now()

	if nested := row.Records("payments"); len(nested) > 0 {
		out := make([]PaymentRecord, 0, len(nested))
		for _, p := range nested {
			status := NormalizeStatus(p.First("status", "payment_status"))
			if status == "" {
				status = StatusPaid
			}
			pAmount, ok := p.FirstValue("amount", "price", "unitAmount")
			if !ok {
				pAmount = amountValue
			}
			pMethod := p.First("paymentMethod", "method")
			if pMethod == "" {
				pMethod = method
			}
			pTxn := p.First("transactionId", "latest_invoice", "subscriptionId", "sessionId")
			if pTxn == "" {
				pTxn = txn
			}
			pCurrency := p.First("currency", "currencyCode")
			if pCurrency == "" {
				pCurrency = currency
			}
			date, _ := p.FirstValue("date", "createdAt")
			parentDate, _ := row.FirstValue("updatedAt", "createdAt")

			out = append(out, PaymentRecord{
				ID:            n.recordID(p),
				CustomerEmail: email,
				CustomerName:  name,
				Amount:        ParseAmount(pAmount),
				Currency:      pCurrency,
				Status:        status,
				PaymentMethod: pMethod,
				Date:          firstDate(now, date, parentDate),
				Plan:          plan,
				TransactionID: pTxn,
			})
		}
		return out
	}

	status := NormalizeStatus(row.First("status", "payment_status"))
	if status == "" {
		return nil
	}
	date, _ := row.FirstValue("date", "updatedAt", "createdAt")
	return []PaymentRecord{{
		ID:            n.recordID(row),
		CustomerEmail: email,
		CustomerName:  name,
		Amount:        ParseAmount(amountValue),
		Currency:      currency,
		Status:        status,
		PaymentMethod: method,
		Date:          firstDate(now, date),
		Plan:          plan,
		TransactionID: txn,
	}}
}

// Subscriptions normalizes subscription rows. EndDate and NextBillingDate
// stay nil when the source has no period end.
func (n *Normalizer) Subscriptions(raw []RawRecord) []SubscriptionRecord {
	now := n.clock.Now()
	out := make([]SubscriptionRecord, 0, len(raw))
	for _, row := range raw {
		currency := row.First("currency", "currencyCode")
		if currency == "" {
			currency = DefaultCurrency
		}
		amountValue, _ := row.FirstValue("amount", "price", "unitAmount")
		start, _ := row.FirstValue("currentPeriodStart", "createdAt")

		var endDate, nextBilling *string
		if endValue, ok := row.FirstValue("currentPeriodEnd"); ok {
			if date, ok := DateOnly(endValue); ok {
				endDate = &date
				nextBilling = &date
			}
		}

		created, _ := DateOnly(row.First("createdAt"))

		out = append(out, SubscriptionRecord{
			ID:              n.recordID(row),
			CustomerEmail:   row.First("customerEmail", "email", "userEmail"),
			CustomerName:    row.First("customerName", "name", "fullName"),
			Plan:            row.First("plan", "planName", "product", "tier"),
			Status:          strings.ToLower(row.First("status")),
			Amount:          ParseAmount(amountValue),
			Currency:        currency,
			StartDate:       firstDate(now, start),
			EndDate:         endDate,
			NextBillingDate: nextBilling,
			TrialDays:       int(ParseAmount(row.First("trialDays"))),
			CreatedAt:       created,
			SessionID:       row.First("sessionId"),
		})
	}
	return out
}

// Customers normalizes rows from the customers/users collection.
func (n *Normalizer) Customers(raw []RawRecord) []CustomerRecord {
	now := n.clock.Now()
	out := make([]CustomerRecord, 0, len(raw))
	for _, row := range raw {
		status := strings.ToLower(row.First("status"))
		if status == "" {
			status = "active"
		}
		spent, _ := row.FirstValue("totalSpent", "amount", "price")
		signup, _ := row.FirstValue("createdAt", "signupDate")
		login, _ := row.FirstValue("lastLogin", "updatedAt")

		out = append(out, CustomerRecord{
			ID:         n.recordID(row),
			Email:      row.First("customerEmail", "email", "userEmail"),
			Name:       row.First("customerName", "name", "fullName"),
			Plan:       row.First("plan", "planName", "product", "tier"),
			Status:     status,
			SignupDate: firstDate(now, signup),
			LastLogin:  firstDate(now, login),
			TotalSpent: ParseAmount(spent),
		})
	}
	return out
}

func (n *Normalizer) recordID(row RawRecord) string {
	if id := row.First("id", "_id", "transactionId"); id != "" {
		return id
	}
	return n.genID.Generate().String()
}
