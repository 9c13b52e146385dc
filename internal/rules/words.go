package rules

import (
	"strings"
	"unicode"
)

// Canonical replacement targets. None of these words may appear in the
// detector vocabularies below, otherwise a rewritten text would keep
// counting as sensitive and re-applying the catalog would not be a fixed
// point.
const (
	replEntity    = "entity"
	replOperation = "operation"
	replResource  = "resource"
	replRecord    = "record"
	replValue     = "value"
	replProcess   = "process"
	replTable     = "records"

	placeholderURL      = "https://api.example.com/endpoint"
	placeholderPath     = "/api/v1/endpoint"
	placeholderEmail    = "user@example.com"
	placeholderPhone    = "+1-555-000-0000"
	placeholderSSN      = "000-00-0000"
	placeholderCard     = "0000-0000-0000-0000"
	placeholderComment  = "general implementation note"
	placeholderLiteral  = "generic text"
	placeholderConstant = "SERVICE_API_KEY"
)

// Noun vocabularies, one per semantic concern.
var (
	entityNouns = []string{
		"customer", "client", "patient", "vendor", "supplier", "tenant",
		"subscriber", "policyholder", "cardholder", "borrower", "applicant",
		"shopper", "merchant",
	}
	operationNouns = []string{
		"order", "invoice", "transaction", "payment", "booking", "claim",
		"purchase", "quote",
	}
	resourceNouns = []string{
		"product", "sku", "inventory", "catalog", "listing", "asset",
	}
	recordNouns = []string{
		"account", "profile", "document", "contract", "ledger", "statement",
	}
	monetaryTerms = []string{
		"price", "rate", "amount", "cost", "total", "balance", "salary",
		"revenue", "profit", "discount", "tax", "commission",
	}
	workflowVerbs = []string{
		"approve", "reject", "refund", "cancel", "schedule", "subscribe",
		"unsubscribe", "enroll", "escalate", "dispatch", "fulfill",
		"reconcile",
	}
	methodVerbs = []string{
		"get", "set", "fetch", "load", "save", "find", "create", "update",
		"delete", "remove", "calculate", "compute", "process", "validate",
		"verify", "build", "handle", "send", "submit", "parse", "export",
		"import", "sync",
	}
	typeSuffixes = []string{
		"Service", "Controller", "Repository", "Manager", "Handler",
		"Processor", "Validator", "Factory", "Builder",
	}

	// Jargon clusters generalized to coarse domain tags at high intensity.
	domainClusters = []struct {
		words []string
		tag   string
	}{
		{[]string{"compliance", "regulatory", "hipaa", "gdpr", "sox", "kyc", "aml"}, "regulation"},
		{[]string{"loan", "mortgage", "lending", "portfolio", "dividend", "brokerage", "underwriting"}, "finance"},
		{[]string{"diagnosis", "prescription", "clinical", "pharmacy", "treatment", "medical"}, "healthcare"},
		{[]string{"tuition", "curriculum", "semester", "coursework", "grading", "transcript"}, "education"},
		{[]string{"campaign", "funnel", "conversion", "segmentation", "retargeting"}, "outreach"},
		{[]string{"warehouse", "logistics", "shipment", "procurement", "freight"}, "operations"},
	}

	// Keywords that mark a comment or string literal as sensitive.
	sensitivityKeywords = []string{
		"business", "proprietary", "confidential", "internal", "secret",
		"company", "competitive", "strategic", "trade secret", "copyright",
		"trademark",
	}
)

var (
	sensitiveNounSet = wordSet(entityNouns, operationNouns, resourceNouns, recordNouns)
	monetaryTermSet  = wordSet(monetaryTerms)
)

func wordSet(lists ...[]string) map[string]bool {
	s := make(map[string]bool)
	for _, list := range lists {
		for _, w := range list {
			s[w] = true
		}
	}
	return s
}

func isSensitiveNoun(w string) bool { return sensitiveNounSet[w] }
func isMonetaryTerm(w string) bool  { return monetaryTermSet[w] }

// domainWords returns every cluster word across all domain clusters.
func domainWords() []string {
	var out []string
	for _, c := range domainClusters {
		out = append(out, c.words...)
	}
	return out
}

// containsSensitivityKeyword reports whether s mentions any keyword from
// the sensitivity list, case-insensitively.
func containsSensitivityKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range sensitivityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// matchCase copies the capitalization style of src onto repl: all-caps
// stays all-caps, a leading capital stays a leading capital.
func matchCase(src, repl string) string {
	if src == "" || repl == "" {
		return repl
	}
	if src == strings.ToUpper(src) && src != strings.ToLower(src) {
		return strings.ToUpper(repl)
	}
	first := []rune(src)[0]
	if unicode.IsUpper(first) {
		return strings.ToUpper(repl[:1]) + repl[1:]
	}
	return repl
}

// splitCamel splits a camel-case identifier segment into its words.
// Acronym letters become single-letter words, which is enough for the
// noun classification done here.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// rewriteCompound maps the sensitive words of a camel-case compound to
// their neutral replacements: monetary terms become Value, business nouns
// become Entity. Consecutive identical replacements collapse so compounds
// like CustomerAccount yield Entity rather than EntityEntity. The second
// return reports whether anything was rewritten.
func rewriteCompound(words []string) (string, bool) {
	out := make([]string, 0, len(words))
	changed := false
	for _, w := range words {
		repl := ""
		switch lw := strings.ToLower(w); {
		case isMonetaryTerm(lw):
			repl = "Value"
		case isSensitiveNoun(lw):
			repl = "Entity"
		}
		if repl == "" {
			out = append(out, w)
			continue
		}
		changed = true
		if len(out) > 0 && out[len(out)-1] == repl {
			continue
		}
		out = append(out, repl)
	}
	return strings.Join(out, ""), changed
}

// canonicalConstant classifies an ALL_CAPS constant name by concern and
// returns its canonical replacement, or "" when the name carries no
// sensitive suffix or vendor prefix. Database suffixes are checked before
// endpoint suffixes (DATABASE_URL also ends in URL), and auth suffixes
// before credential suffixes (AUTH_TOKEN also ends in TOKEN).
func canonicalConstant(name string) string {
	hasAny := func(suffixes ...string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	}
	switch {
	case hasAny("DATABASE_URL", "DB_URL", "DSN", "CONNECTION_STRING", "DATABASE"):
		return "SERVICE_DATABASE_URL"
	case hasAny("AUTH_TOKEN", "ACCESS_TOKEN", "REFRESH_TOKEN", "AUTH_KEY"):
		return "SERVICE_AUTH_TOKEN"
	case hasAny("API_KEY", "APIKEY", "SECRET_KEY", "SECRET", "TOKEN", "PASSWORD", "CREDENTIALS", "PRIVATE_KEY"):
		return placeholderConstant
	case hasAny("URL", "URI", "ENDPOINT", "HOST", "BASE_URL"):
		return "SERVICE_URL"
	}
	for _, vendor := range []string{"STRIPE_", "AWS_", "GCP_", "AZURE_", "TWILIO_", "SENDGRID_", "GITHUB_", "SLACK_", "OPENAI_", "DATADOG_"} {
		if strings.HasPrefix(name, vendor) {
			return placeholderConstant
		}
	}
	return ""
}
