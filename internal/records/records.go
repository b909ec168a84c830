package records

// PaymentRecord is the stable shape every heterogeneous upstream payment
// row is normalized into. Amount is always finite; parse failures become 0.
type PaymentRecord struct {
	ID            string  `json:"id"`
	CustomerEmail string  `json:"customer_email"`
	CustomerName  string  `json:"customer_name"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Date          string  `json:"date"`
	Plan          string  `json:"plan"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

// SubscriptionRecord is the normalized subscription shape. EndDate and
// NextBillingDate are nil when the source carries no period end.
type SubscriptionRecord struct {
	ID              string  `json:"id"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerName    string  `json:"customer_name"`
	Plan            string  `json:"plan"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date"`
	NextBillingDate *string `json:"next_billing_date"`
	TrialDays       int     `json:"trial_days"`
	CreatedAt       string  `json:"created_at,omitempty"`
	SessionID       string  `json:"session_id,omitempty"`
}

// CustomerRecord is the normalized customer/user shape for the admin view.
type CustomerRecord struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Plan       string  `json:"plan"`
	Status     string  `json:"status"`
	SignupDate string  `json:"signup_date"`
	LastLogin  string  `json:"last_login"`
	TotalSpent float64 `json:"total_spent"`
}
