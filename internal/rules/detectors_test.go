package rules

import "testing"

func detectorFor(t *testing.T, family Family) Detector {
	t.Helper()
	for _, d := range Detectors() {
		if d.Family == family {
			return d
		}
	}
	t.Fatalf("no detector for family %s", family)
	return Detector{}
}

func TestVocabularyCountsIdentifierSubstrings(t *testing.T) {
	d := detectorFor(t, FamilyBusinessVocabulary)

	text := "function getCustomerData(customerId) { return customers[0]; }"
	if got := d.Count(text); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if got := d.Count("function getEntityData(entityIdentifier) {}"); got != 0 {
		t.Errorf("Count of rewritten text = %d, want 0", got)
	}
}

func TestURLDetectorIgnoresPlaceholder(t *testing.T) {
	d := detectorFor(t, FamilyURLs)

	if got := d.Count("see https://api.stripe.com/v1/charges and http://internal.acme.net"); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if got := d.Count("see https://api.example.com/endpoint"); got != 0 {
		t.Errorf("placeholder counted: %d", got)
	}
}

func TestEndpointDetectorIgnoresPlaceholder(t *testing.T) {
	d := detectorFor(t, FamilyAPIEndpoints)

	if got := d.Count("GET /api/v2/customers/{id}"); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
	if got := d.Count("GET /api/v1/endpoint"); got != 0 {
		t.Errorf("placeholder counted: %d", got)
	}
}

func TestSecretsContactDetector(t *testing.T) {
	d := detectorFor(t, FamilySecretsContact)

	text := "alice@acme.io called 415-555-0134, key STRIPE_SECRET_KEY, ssn 123-45-6789"
	if got := d.Count(text); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}

	rewritten := "user@example.com called +1-555-000-0000, key SERVICE_API_KEY, ssn 000-00-0000"
	if got := d.Count(rewritten); got != 0 {
		t.Errorf("Count of rewritten text = %d, want 0", got)
	}
}

func TestMethodAndTypeDetectors(t *testing.T) {
	methods := detectorFor(t, FamilyMethodNames)
	types := detectorFor(t, FamilyTypeNames)

	if got := methods.Count("getCustomerData() and calculateRiskScore()"); got != 1 {
		t.Errorf("method count = %d, want 1", got)
	}
	if got := types.Count("new CustomerService(); new RetryHandler()"); got != 1 {
		t.Errorf("type count = %d, want 1", got)
	}
	if got := methods.Count("getEntityData()"); got != 0 {
		t.Errorf("rewritten method counted: %d", got)
	}
	if got := types.Count("new EntityService()"); got != 0 {
		t.Errorf("rewritten type counted: %d", got)
	}
}
