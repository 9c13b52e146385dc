package rules

import (
	"regexp"
	"strings"
)

// ruleSpec is the source form of a catalog rule before compilation.
// Exactly one of replacement or replace is set: replacement is a constant
// substitution, replace builds a templated substitution from the compiled
// matcher.
type ruleSpec struct {
	category    Category
	name        string
	pattern     string
	replacement string
	replace     func(re *regexp.Regexp) func(string) string
}

// Compile builds the ordered rule catalog. Rules whose matcher fails to
// compile are skipped rather than aborting the catalog; their names are
// returned so callers can log the degradation.
func Compile() ([]Rule, []string) {
	var (
		compiled []Rule
		skipped  []string
	)
	for _, spec := range catalogSpecs() {
		re, err := regexp.Compile(spec.pattern)
		if err != nil {
			skipped = append(skipped, spec.name)
			continue
		}
		rule := Rule{
			Category:     spec.category,
			Name:         spec.name,
			MinIntensity: Threshold(spec.category),
			pattern:      re,
			replacement:  spec.replacement,
		}
		if spec.replace != nil {
			rule.replace = spec.replace(re)
		}
		compiled = append(compiled, rule)
	}
	return compiled, skipped
}

// wordAlt builds a case-insensitive whole-word alternation for a noun list.
func wordAlt(words []string) string {
	return `(?i)\b(?:` + strings.Join(words, "|") + `)\b`
}

// caseReplace returns a templated substitution that replaces each match
// with repl while preserving the match's capitalization style.
func caseReplace(repl string) func(*regexp.Regexp) func(string) string {
	return func(*regexp.Regexp) func(string) string {
		return func(match string) string { return matchCase(match, repl) }
	}
}

// keywordGate returns a templated substitution that rewrites the match to
// repl only when it contains a sensitivity keyword.
func keywordGate(repl string) func(*regexp.Regexp) func(string) string {
	return func(*regexp.Regexp) func(string) string {
		return func(match string) string {
			if containsSensitivityKeyword(match) {
				return repl
			}
			return match
		}
	}
}

// catalogSpecs returns the single ordered table the whole catalog is
// loaded from. Order within the table is application order.
func catalogSpecs() []ruleSpec {
	nounAlt := strings.Join(entityNouns, "|") + "|" +
		strings.Join(operationNouns, "|") + "|" +
		strings.Join(resourceNouns, "|") + "|" +
		strings.Join(recordNouns, "|")

	specs := []ruleSpec{
		// Contact / PII literals. Replacements keep the same shape and
		// length class so downstream parsers still see a plausible value.
		{
			category:    CategoryContact,
			name:        "contact.email",
			pattern:     `[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
			replacement: placeholderEmail,
		},
		{
			category:    CategoryContact,
			name:        "contact.payment-card",
			pattern:     `\b(?:\d{4}[- ]){3}\d{4}\b`,
			replacement: placeholderCard,
		},
		{
			category:    CategoryContact,
			name:        "contact.national-id",
			pattern:     `\b\d{3}-\d{2}-\d{4}\b`,
			replacement: placeholderSSN,
		},
		{
			category:    CategoryContact,
			name:        "contact.phone",
			pattern:     `\+?\d{1,2}[-. ]\(?\d{3}\)?[-. ]\d{3}[-. ]?\d{4}\b|\b\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}\b`,
			replacement: placeholderPhone,
		},

		// Secrets and config constants, grouped by concern (credential,
		// endpoint, database, auth). Constants with no sensitive suffix
		// pass through unchanged.
		{
			category: CategorySecrets,
			name:     "secrets.config-constant",
			pattern:  `\b[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+\b`,
			replace: func(*regexp.Regexp) func(string) string {
				return func(match string) string {
					if canonical := canonicalConstant(match); canonical != "" {
						return canonical
					}
					return match
				}
			},
		},

		// Comments carrying a sensitivity keyword, delimiter preserved.
		// The line pattern requires start-of-line or a non-colon character
		// before the slashes so the // inside https:// never reads as a
		// comment, while end-of-statement comments still do.
		{
			category: CategoryComments,
			name:     "comments.line",
			pattern:  `(?m)(?:^|[^:])//[^\n]*`,
			replace: func(*regexp.Regexp) func(string) string {
				return func(match string) string {
					if !containsSensitivityKeyword(match) {
						return match
					}
					idx := strings.Index(match, "//")
					return match[:idx] + "// " + placeholderComment
				}
			},
		},
		{
			category: CategoryComments,
			name:     "comments.hash",
			pattern:  `(?m)^[ \t]*#[^\n]*`,
			replace: func(*regexp.Regexp) func(string) string {
				return func(match string) string {
					if !containsSensitivityKeyword(match) {
						return match
					}
					indent := match[:len(match)-len(strings.TrimLeft(match, " \t"))]
					return indent + "# " + placeholderComment
				}
			},
		},
		{
			category: CategoryComments,
			name:     "comments.block",
			pattern:  `(?s)/\*.*?\*/`,
			replace:  keywordGate("/* " + placeholderComment + " */"),
		},

		// String literals carrying a sensitivity keyword, quoting preserved.
		{
			category: CategoryStringLiterals,
			name:     "strings.double-quoted",
			pattern:  `"(?:[^"\\\n]|\\.)*"`,
			replace:  keywordGate(`"` + placeholderLiteral + `"`),
		},
		{
			category: CategoryStringLiterals,
			name:     "strings.single-quoted",
			pattern:  `'(?:[^'\\\n]|\\.)*'`,
			replace:  keywordGate(`'` + placeholderLiteral + `'`),
		},

		// Endpoints. The match covers only the URL or path itself, so
		// surrounding non-URL text is never touched.
		{
			category:    CategoryEndpoints,
			name:        "endpoints.url",
			pattern:     `https?://[A-Za-z0-9.\-]+(?::\d+)?(?:/[^\s"'<>\)\]]*)?`,
			replacement: placeholderURL,
		},
		{
			category:    CategoryEndpoints,
			name:        "endpoints.api-path",
			pattern:     `/api/[A-Za-z0-9/_{}.\-]+`,
			replacement: placeholderPath,
		},

		// Datastore identifiers and query fragments collapse to a single
		// canonical table name.
		{
			category: CategoryDatastore,
			name:     "datastore.query-target",
			pattern:  `(?i)\b(from|into|join)\s+([A-Za-z_][\w.]*)`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					return m[1] + " " + replTable
				}
			},
		},
		{
			category: CategoryDatastore,
			name:     "datastore.update-target",
			pattern:  `(?i)\b(update)\s+([A-Za-z_][\w.]*)(\s+set)\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					return m[1] + " " + replTable + m[3]
				}
			},
		},
		{
			category:    CategoryDatastore,
			name:        "datastore.table-identifier",
			pattern:     `(?i)\b(?:tbl|tb)_[a-z0-9_]+\b`,
			replacement: replTable,
		},

		// Business nouns, one neutral noun per concern.
		{
			category: CategoryEntityNouns,
			name:     "nouns.entity",
			pattern:  wordAlt(entityNouns),
			replace:  caseReplace(replEntity),
		},
		{
			category: CategoryOperationNouns,
			name:     "nouns.operation",
			pattern:  wordAlt(operationNouns),
			replace:  caseReplace(replOperation),
		},
		{
			category: CategoryResourceNouns,
			name:     "nouns.resource",
			pattern:  wordAlt(resourceNouns),
			replace:  caseReplace(replResource),
		},
		{
			category: CategoryRecordNouns,
			name:     "nouns.record",
			pattern:  wordAlt(recordNouns),
			replace:  caseReplace(replRecord),
		},

		// Method-name compounds, matched by verb prefix plus camel-case
		// suffix decomposition so novel combinations are still caught.
		{
			category: CategoryMethodNames,
			name:     "methods.verb-compound",
			pattern:  `\b(` + strings.Join(methodVerbs, "|") + `)((?:[A-Z][a-z0-9]*)+)\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					body, changed := rewriteCompound(splitCamel(m[2]))
					if !changed {
						return match
					}
					return m[1] + body
				}
			},
		},

		// Monetary and metric identifiers become canonical value holders.
		{
			category: CategoryVariableNames,
			name:     "variables.monetary-compound",
			pattern:  `\b(` + strings.Join(monetaryTerms, "|") + `)((?:[A-Z][a-z0-9]*)+)\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					body, _ := rewriteCompound(splitCamel(m[2]))
					body = strings.TrimPrefix(body, "Value")
					return replValue + body
				}
			},
		},
		{
			category: CategoryVariableNames,
			name:     "variables.monetary-word",
			pattern:  wordAlt(monetaryTerms),
			replace:  caseReplace(replValue),
		},

		// Type names keep their role suffix so structural shape survives.
		{
			category: CategoryTypeNames,
			name:     "types.role-suffix",
			pattern:  `\b((?:[A-Z][a-z0-9]*)+)(` + strings.Join(typeSuffixes, "|") + `)\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					prefix, changed := rewriteCompound(splitCamel(m[1]))
					if !changed {
						return match
					}
					return prefix + m[2]
				}
			},
		},

		// Parameter compounds split into identifier-kind and data-blob-kind.
		{
			category: CategoryParameters,
			name:     "params.camel-compound",
			pattern:  `\b([a-z][a-z0-9]*)(Ids|IDs|Id|ID|Keys|Key|Data|Info|Records|Record|List|Details|Payload)\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					if !isSensitiveNoun(m[1]) && !isMonetaryTerm(m[1]) {
						return match
					}
					switch m[2] {
					case "Ids", "IDs", "Id", "ID", "Keys", "Key":
						return "entityIdentifier"
					default:
						return "entityData"
					}
				}
			},
		},
		{
			category: CategoryParameters,
			name:     "params.snake-compound",
			pattern:  `(?i)\b(` + nounAlt + `)_(id|key|data|info|record|list|details|payload)s?\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					switch strings.ToLower(m[2]) {
					case "id", "key":
						return "entity_identifier"
					default:
						return "entity_data"
					}
				}
			},
		},

		// Workflow verbs, active above intensity 0.6.
		{
			category: CategoryWorkflowVerbs,
			name:     "workflow.verb-compound",
			pattern:  `\b(` + strings.Join(workflowVerbs, "|") + `)((?:[A-Z][a-z0-9]*)+)\b`,
			replace: func(re *regexp.Regexp) func(string) string {
				return func(match string) string {
					m := re.FindStringSubmatch(match)
					body, changed := rewriteCompound(splitCamel(m[2]))
					if !changed {
						return match
					}
					return replProcess + body
				}
			},
		},
		{
			category: CategoryWorkflowVerbs,
			name:     "workflow.verb-word",
			pattern:  wordAlt(workflowVerbs),
			replace:  caseReplace(replProcess),
		},
	}

	// Domain jargon clusters, active above intensity 0.8, one coarse tag
	// per cluster.
	for _, cluster := range domainClusters {
		specs = append(specs, ruleSpec{
			category: CategoryDomainVocabulary,
			name:     "domain." + cluster.tag,
			pattern:  wordAlt(cluster.words),
			replace:  caseReplace(cluster.tag),
		})
	}

	return specs
}
