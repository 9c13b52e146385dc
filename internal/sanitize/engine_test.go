package sanitize

import (
	"strings"
	"testing"

	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(config.SanitizerConfig{
		Enabled:        true,
		DefaultProfile: "balanced",
		Categories:     []string{"all"},
	}, logger.NewNop())
}

func TestSanitizeBusinessCode(t *testing.T) {
	e := newTestEngine(t)

	input := "function getCustomerData(customerId) { return fetch('https://api.stripe.com/v1/customers/' + customerId); }"
	result, err := e.Sanitize(input, "paranoid")
	if err != nil {
		t.Fatal(err)
	}

	out := result.TransformedText
	for _, leaked := range []string{"customer", "Customer", "stripe"} {
		if strings.Contains(out, leaked) {
			t.Errorf("output still contains %q: %s", leaked, out)
		}
	}
	if !strings.Contains(out, "getEntityData") {
		t.Errorf("method name not generalized: %s", out)
	}
	if !strings.Contains(out, "entityIdentifier") {
		t.Errorf("parameter not generalized: %s", out)
	}
	if !strings.Contains(out, "https://api.example.com/endpoint") {
		t.Errorf("URL not replaced: %s", out)
	}
}

func TestSanitizeContactDetails(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Sanitize("Reach billing at billing@acme-corp.com or call 415-555-0134.", "balanced")
	if err != nil {
		t.Fatal(err)
	}
	out := result.TransformedText
	if strings.Contains(out, "acme-corp.com") {
		t.Errorf("email survived: %s", out)
	}
	if !strings.Contains(out, "user@example.com") {
		t.Errorf("email placeholder missing: %s", out)
	}
	if !strings.Contains(out, "+1-555-000-0000") {
		t.Errorf("phone placeholder missing: %s", out)
	}
}

func TestSanitizeSecretsAndComments(t *testing.T) {
	e := newTestEngine(t)

	input := "// proprietary risk model, do not share\nSTRIPE_SECRET_KEY=sk_live_abc\nPAYMENTS_DATABASE_URL=postgres://db/payments"
	result, err := e.Sanitize(input, "balanced")
	if err != nil {
		t.Fatal(err)
	}
	out := result.TransformedText
	if !strings.Contains(out, "// general implementation note") {
		t.Errorf("comment not redacted: %s", out)
	}
	if !strings.Contains(out, "SERVICE_API_KEY") || strings.Contains(out, "STRIPE_SECRET_KEY") {
		t.Errorf("secret constant not generalized: %s", out)
	}
	if !strings.Contains(out, "SERVICE_DATABASE_URL") {
		t.Errorf("database constant not generalized: %s", out)
	}
}

func TestSanitizeTrailingComment(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Sanitize("x = 1;// proprietary scoring logic", "balanced")
	if err != nil {
		t.Fatal(err)
	}
	out := result.TransformedText
	if !strings.Contains(out, "// general implementation note") {
		t.Errorf("trailing comment not redacted: %s", out)
	}
	if !strings.HasPrefix(out, "x = 1;") {
		t.Errorf("code before the comment was altered: %s", out)
	}
}

func TestSanitizeURLIsNotTreatedAsComment(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Sanitize("see https://internal-tools.acme.com/docs for details", "balanced")
	if err != nil {
		t.Fatal(err)
	}
	out := result.TransformedText
	if strings.Contains(out, "general implementation note") {
		t.Errorf("URL was redacted as a comment: %s", out)
	}
	if !strings.Contains(out, "https://api.example.com/endpoint") {
		t.Errorf("URL not replaced with the endpoint placeholder: %s", out)
	}
}

func TestSanitizeQueryTargets(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Sanitize("SELECT * FROM customer_orders JOIN tbl_invoices ON id = invoice_id", "balanced")
	if err != nil {
		t.Fatal(err)
	}
	out := result.TransformedText
	if !strings.Contains(out, "FROM records") || !strings.Contains(out, "JOIN records") {
		t.Errorf("table names survived: %s", out)
	}
	if !strings.Contains(out, "entity_identifier") {
		t.Errorf("column parameter survived: %s", out)
	}
}

func TestSanitizeIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	input := "approveRefund for customer at https://pay.acme.com/api/v2/refunds, card 4111-1111-1111-1111"

	first, err := e.Sanitize(input, "paranoid")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Sanitize(input, "paranoid")
	if err != nil {
		t.Fatal(err)
	}
	if first.TransformedText != second.TransformedText {
		t.Errorf("same input produced different outputs:\n%s\n%s",
			first.TransformedText, second.TransformedText)
	}
}

func TestSanitizedOutputIsFixedPoint(t *testing.T) {
	e := newTestEngine(t)

	inputs := []string{
		"function getCustomerData(customerId) { return fetch('https://api.stripe.com/v1/customers/' + customerId); }",
		"email alice@acme.io, phone 415-555-0134, ssn 123-45-6789, card 4111-1111-1111-1111",
		"STRIPE_SECRET_KEY and PAYMENTS_DATABASE_URL with /api/v3/invoices",
		"// proprietary pricing logic\ncalculateTotalPrice(priceList)",
		"the patient enrolled for a hipaa compliance review",
	}
	for _, profile := range []string{"performance", "balanced", "paranoid"} {
		for _, input := range inputs {
			once, err := e.Sanitize(input, profile)
			if err != nil {
				t.Fatal(err)
			}
			twice, err := e.Sanitize(once.TransformedText, profile)
			if err != nil {
				t.Fatal(err)
			}
			if once.TransformedText != twice.TransformedText {
				t.Errorf("profile %s: output is not a fixed point:\n first: %s\nsecond: %s",
					profile, once.TransformedText, twice.TransformedText)
			}
		}
	}
}

func TestProfileThresholds(t *testing.T) {
	e := newTestEngine(t)

	// Workflow verbs activate above 0.6, domain vocabulary above 0.8.
	input := "refund under hipaa review"

	perf, _ := e.Sanitize(input, "performance")
	if !strings.Contains(perf.TransformedText, "refund") {
		t.Errorf("performance profile rewrote workflow verb: %s", perf.TransformedText)
	}

	bal, _ := e.Sanitize(input, "balanced")
	if strings.Contains(bal.TransformedText, "refund") {
		t.Errorf("balanced profile kept workflow verb: %s", bal.TransformedText)
	}
	if !strings.Contains(bal.TransformedText, "hipaa") {
		t.Errorf("balanced profile rewrote domain vocabulary: %s", bal.TransformedText)
	}

	par, _ := e.Sanitize(input, "paranoid")
	if strings.Contains(par.TransformedText, "hipaa") {
		t.Errorf("paranoid profile kept domain vocabulary: %s", par.TransformedText)
	}
}

func TestUnknownProfileFallsBackToBalanced(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Sanitize("customer", "aggressive")
	if err != nil {
		t.Fatal(err)
	}
	if result.Profile != ProfileBalanced {
		t.Errorf("profile = %s, want balanced", result.Profile)
	}
	if result.Intensity != 0.7 {
		t.Errorf("intensity = %v, want 0.7", result.Intensity)
	}
}

func TestEmptyInput(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Sanitize("", "balanced")
	if err != nil {
		t.Fatal(err)
	}
	if result.TransformedText != "" {
		t.Errorf("empty input produced %q", result.TransformedText)
	}
	if result.Degraded() {
		t.Error("empty input reported degraded")
	}
}

func TestInvalidUTF8Rejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Sanitize(string([]byte{0xff, 0xfe, 0xfd}), "balanced")
	if err != ErrInvalidInput {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDisabledEnginePassesThrough(t *testing.T) {
	e := New(config.SanitizerConfig{Enabled: false, DefaultProfile: "balanced"}, logger.NewNop())

	result, err := e.Sanitize("customer data", "paranoid")
	if err != nil {
		t.Fatal(err)
	}
	if result.TransformedText != "customer data" {
		t.Errorf("disabled engine rewrote text: %q", result.TransformedText)
	}
	if len(result.Report) != 0 {
		t.Errorf("disabled engine produced a report: %v", result.Report)
	}
}

func TestCategorySelection(t *testing.T) {
	e := New(config.SanitizerConfig{
		Enabled:        true,
		DefaultProfile: "balanced",
		Categories:     []string{"contact"},
	}, logger.NewNop())

	result, err := e.Sanitize("customer alice@acme.io", "balanced")
	if err != nil {
		t.Fatal(err)
	}
	out := result.TransformedText
	if !strings.Contains(out, "user@example.com") {
		t.Errorf("contact category inactive: %s", out)
	}
	if !strings.Contains(out, "customer") {
		t.Errorf("disabled category still applied: %s", out)
	}
}
