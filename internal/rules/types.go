package rules

import "regexp"

// Category identifies one semantic concern in the rewrite catalog.
type Category string

// Catalog categories, in application order. Broader contextual categories
// (contact info, secrets, comments, string literals) run before narrower
// structural categories so a sensitive literal is fully redacted before a
// narrower rule could rewrite one of its substrings and let the remainder
// escape full-literal detection. Entity-noun rules run before type-name
// rules so compound type names are not left half-rewritten.
const (
	CategoryContact          Category = "contact"
	CategorySecrets          Category = "secrets"
	CategoryComments         Category = "comments"
	CategoryStringLiterals   Category = "string-literals"
	CategoryEndpoints        Category = "endpoints"
	CategoryDatastore        Category = "datastore"
	CategoryEntityNouns      Category = "entity-nouns"
	CategoryOperationNouns   Category = "operation-nouns"
	CategoryResourceNouns    Category = "resource-nouns"
	CategoryRecordNouns      Category = "record-nouns"
	CategoryMethodNames      Category = "method-names"
	CategoryVariableNames    Category = "variable-names"
	CategoryTypeNames        Category = "type-names"
	CategoryParameters       Category = "parameters"
	CategoryWorkflowVerbs    Category = "workflow-verbs"
	CategoryDomainVocabulary Category = "domain-vocabulary"
)

// CategoryOrder is the canonical application order of the catalog.
var CategoryOrder = []Category{
	CategoryContact,
	CategorySecrets,
	CategoryComments,
	CategoryStringLiterals,
	CategoryEndpoints,
	CategoryDatastore,
	CategoryEntityNouns,
	CategoryOperationNouns,
	CategoryResourceNouns,
	CategoryRecordNouns,
	CategoryMethodNames,
	CategoryVariableNames,
	CategoryTypeNames,
	CategoryParameters,
	CategoryWorkflowVerbs,
	CategoryDomainVocabulary,
}

// categoryThresholds maps each category to the minimum intensity above
// which it becomes active. Base categories activate at any intensity.
var categoryThresholds = map[Category]float64{
	CategoryWorkflowVerbs:    0.6,
	CategoryDomainVocabulary: 0.8,
}

// Threshold returns the minimum intensity above which a category is active.
func Threshold(c Category) float64 {
	return categoryThresholds[c]
}

// Rule rewrites one sensitive pattern. Replacement is used for constant
// substitutions; Replace is used for templated substitutions that preserve
// surrounding structure (identifier suffixes, comment delimiters, quoting).
type Rule struct {
	Category     Category
	Name         string
	MinIntensity float64

	pattern     *regexp.Regexp
	replacement string
	replace     func(match string) string
}

// Apply rewrites all occurrences of the rule's pattern in text and returns
// the rewritten text with the number of matches.
func (r Rule) Apply(text string) (string, int) {
	matched := len(r.pattern.FindAllStringIndex(text, -1))
	if matched == 0 {
		return text, 0
	}
	if r.replace != nil {
		return r.pattern.ReplaceAllStringFunc(text, r.replace), matched
	}
	return r.pattern.ReplaceAllString(text, r.replacement), matched
}

// Family identifies a tracked sensitive-pattern family used by the metrics
// calculator. Families are counted with the same detectors that back the
// rewrite catalog so before/after counts match what was targeted.
type Family string

const (
	FamilyBusinessVocabulary Family = "business_vocabulary"
	FamilyURLs               Family = "urls"
	FamilyAPIEndpoints       Family = "api_endpoints"
	FamilySecretsContact     Family = "secrets_contact"
	FamilyMethodNames        Family = "method_names"
	FamilyTypeNames          Family = "type_names"
)

// FamilyOrder is the canonical ordering of tracked families.
var FamilyOrder = []Family{
	FamilyBusinessVocabulary,
	FamilyURLs,
	FamilyAPIEndpoints,
	FamilySecretsContact,
	FamilyMethodNames,
	FamilyTypeNames,
}
