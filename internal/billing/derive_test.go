package billing

import (
	"testing"

	"github.com/innovatun/console/internal/records"
	"github.com/stretchr/testify/assert"
)

func TestTotalPaid(t *testing.T) {
	cases := []struct {
		name      string
		amount    float64
		createdAt string
		periodEnd string
		want      string
	}{
		{name: "two elapsed cycles", amount: 100, createdAt: "2024-01-01", periodEnd: "2024-03-01", want: "$200"},
		{name: "single cycle floor", amount: 49, createdAt: "2024-06-01", periodEnd: "2024-06-10", want: "$49"},
		{name: "exactly thirty days", amount: 10, createdAt: "2024-01-01", periodEnd: "2024-01-31", want: "$10"},
		{name: "thirty one days rounds up", amount: 10, createdAt: "2024-01-01", periodEnd: "2024-02-01", want: "$20"},
		{name: "missing period end", amount: 75, createdAt: "2024-01-01", periodEnd: "", want: "$75"},
		{name: "thousands separator", amount: 4500, createdAt: "2024-01-01", periodEnd: "2024-01-15", want: "$4,500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TotalPaid(tc.amount, tc.createdAt, tc.periodEnd))
		})
	}
}

func TestNextBillingDate(t *testing.T) {
	assert.Equal(t, "2024-03-02", NextBillingDate("2024-03-01T00:00:00.000Z"))
	assert.Equal(t, "2024-03-01", NextBillingDate("2024-02-29"))
	assert.Equal(t, "", NextBillingDate(""))
}

func TestDocumentNumber(t *testing.T) {
	assert.Equal(t, "INV-CS_TEST_", DocumentNumber("INV", "cs_test_a1b2c3"))
	assert.Equal(t, "RCP-ABC", DocumentNumber("RCP", "abc"))
	assert.Equal(t, "", DocumentNumber("INV", ""))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatMoney(1234567))
	assert.Equal(t, "1,234.56", FormatMoney(1234.56))
	assert.Equal(t, "0", FormatMoney(0))
	assert.Equal(t, "-2,500", FormatMoney(-2500))
}

func TestDerive(t *testing.T) {
	end := "2024-03-01"
	sub := records.SubscriptionRecord{
		ID:            "sub_1",
		CustomerEmail: "a@example.com",
		Plan:          "Pro",
		Status:        "active",
		Amount:        100,
		Currency:      "USD",
		StartDate:     "2024-01-01",
		EndDate:       &end,
		CreatedAt:     "2024-01-01",
		SessionID:     "cs_test_a1b2c3",
	}

	row := Derive(sub)

	assert.Equal(t, "2024-01-01 - 2024-03-01", row.BillingPeriod)
	assert.Equal(t, "2024-03-02", row.NextBilling)
	assert.Equal(t, "$200", row.TotalPaid)
	assert.Equal(t, DefaultPaymentMethod, row.PaymentMethod)
	assert.Equal(t, "INV-CS_TEST_", row.InvoiceNumber)
	assert.Equal(t, "RCP-CS_TEST_", row.ReceiptNumber)
}

func TestDeriveMissingEndDate(t *testing.T) {
	row := Derive(records.SubscriptionRecord{
		StartDate: "2024-01-01",
		Amount:    50,
	})

	assert.Equal(t, "2024-01-01 - ", row.BillingPeriod)
	assert.Equal(t, "", row.NextBilling)
	assert.Equal(t, "$50", row.TotalPaid)
}
