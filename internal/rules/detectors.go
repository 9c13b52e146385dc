package rules

import (
	"regexp"
	"strings"
)

// Detector counts occurrences of one sensitive-pattern family. The same
// matchers that drive the rewrite catalog back the detectors, so a
// before/after pair measures exactly what the catalog targets. Canonical
// placeholders are excluded from every count: rewritten text must not keep
// registering as sensitive.
type Detector struct {
	Family Family
	count  func(text string) int
}

// Count returns the number of family occurrences in text.
func (d Detector) Count(text string) int {
	return d.count(text)
}

func vocabularyWords() []string {
	var out []string
	out = append(out, entityNouns...)
	out = append(out, operationNouns...)
	out = append(out, resourceNouns...)
	out = append(out, recordNouns...)
	out = append(out, workflowVerbs...)
	out = append(out, domainWords()...)
	return out
}

var (
	// Vocabulary matching is substring based, not word based: business terms
	// buried in identifiers (getCustomerData) still count as exposure.
	detectVocab    = regexp.MustCompile(`(?i)(?:` + strings.Join(vocabularyWords(), "|") + `)`)
	detectURL      = regexp.MustCompile(`https?://[A-Za-z0-9.\-]+(?::\d+)?(?:/[^\s"'<>\)\]]*)?`)
	detectPath     = regexp.MustCompile(`/api/[A-Za-z0-9/_{}.\-]+`)
	detectEmail    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	detectCard     = regexp.MustCompile(`\b(?:\d{4}[- ]){3}\d{4}\b`)
	detectSSN      = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	detectPhone    = regexp.MustCompile(`\+?\d{1,2}[-. ]\(?\d{3}\)?[-. ]\d{3}[-. ]?\d{4}\b|\b\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}\b`)
	detectConstant = regexp.MustCompile(`\b[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+\b`)
	detectMethod   = regexp.MustCompile(`\b(?:` + strings.Join(methodVerbs, "|") + `)((?:[A-Z][a-z0-9]*)+)\b`)
	detectType     = regexp.MustCompile(`\b((?:[A-Z][a-z0-9]*)+)(?:` + strings.Join(typeSuffixes, "|") + `)\b`)
)

// Detectors returns one detector per tracked family, in FamilyOrder.
func Detectors() []Detector {
	return []Detector{
		{FamilyBusinessVocabulary, countVocabulary},
		{FamilyURLs, countURLs},
		{FamilyAPIEndpoints, countEndpoints},
		{FamilySecretsContact, countSecretsContact},
		{FamilyMethodNames, countMethodNames},
		{FamilyTypeNames, countTypeNames},
	}
}

func countVocabulary(text string) int {
	return len(detectVocab.FindAllString(text, -1))
}

func countURLs(text string) int {
	n := 0
	for _, m := range detectURL.FindAllString(text, -1) {
		if strings.Contains(m, "example.com") {
			continue
		}
		n++
	}
	return n
}

func countEndpoints(text string) int {
	n := 0
	for _, m := range detectPath.FindAllString(text, -1) {
		if m == placeholderPath {
			continue
		}
		n++
	}
	return n
}

func countSecretsContact(text string) int {
	n := 0
	for _, m := range detectEmail.FindAllString(text, -1) {
		if strings.HasSuffix(m, "@example.com") {
			continue
		}
		n++
	}
	for _, m := range detectCard.FindAllString(text, -1) {
		if m != placeholderCard {
			n++
		}
	}
	for _, m := range detectSSN.FindAllString(text, -1) {
		if m != placeholderSSN {
			n++
		}
	}
	for _, m := range detectPhone.FindAllString(text, -1) {
		if m != placeholderPhone {
			n++
		}
	}
	for _, m := range detectConstant.FindAllString(text, -1) {
		if strings.HasPrefix(m, "SERVICE_") {
			continue
		}
		if canonicalConstant(m) != "" {
			n++
		}
	}
	return n
}

func countMethodNames(text string) int {
	n := 0
	for _, m := range detectMethod.FindAllStringSubmatch(text, -1) {
		if _, changed := rewriteCompound(splitCamel(m[1])); changed {
			n++
		}
	}
	return n
}

func countTypeNames(text string) int {
	n := 0
	for _, m := range detectType.FindAllStringSubmatch(text, -1) {
		if _, changed := rewriteCompound(splitCamel(m[1])); changed {
			n++
		}
	}
	return n
}
