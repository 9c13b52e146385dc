package demo

// Sample is one before/after demonstration pair used by the dashboard.
type Sample struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Input       string `json:"input"`
	Profile     string `json:"profile"`
}

// samples holds one representative input per rewrite concern. Handlers run
// each input through the live engine, so the transformed side always
// reflects the current catalog.
var samples = map[string]Sample{
	"business-code": {
		Category:    "business-code",
		Description: "Application code carrying business vocabulary and a vendor endpoint",
		Input:       "function getCustomerData(customerId) { return fetch('https://api.stripe.com/v1/customers/' + customerId); }",
		Profile:     "paranoid",
	},
	"secrets": {
		Category:    "secrets",
		Description: "Configuration constants with credentials and endpoints",
		Input:       "STRIPE_SECRET_KEY=sk_live_abc123\nPAYMENTS_DATABASE_URL=postgres://prod-db:5432/payments",
		Profile:     "balanced",
	},
	"contact": {
		Category:    "contact",
		Description: "Support script with contact details",
		Input:       "Reach billing at billing@acme-corp.com or call 415-555-0134 about invoice 88.",
		Profile:     "balanced",
	},
	"sql": {
		Category:    "sql",
		Description: "Query against named business tables",
		Input:       "SELECT * FROM customer_orders JOIN tbl_invoices ON id = invoice_id",
		Profile:     "balanced",
	},
	"comments": {
		Category:    "comments",
		Description: "Source comments flagged as proprietary",
		Input:       "// proprietary risk model, do not share\ncalculateRiskScore(input)",
		Profile:     "balanced",
	},
}

// Lookup returns the sample for a category, or false when none exists.
func Lookup(category string) (Sample, bool) {
	s, ok := samples[category]
	return s, ok
}

// Categories lists the available sample categories.
func Categories() []string {
	out := make([]string, 0, len(samples))
	for _, s := range []string{"business-code", "secrets", "contact", "sql", "comments"} {
		if _, ok := samples[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
