package sanitize

import (
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
	"github.com/codeveil/codeveil/internal/rules"
)

// ErrInvalidInput is returned when the input text is not valid UTF-8.
var ErrInvalidInput = errors.New("input text is not valid UTF-8")

// CategoryReport summarizes one category's contribution to a rewrite.
type CategoryReport struct {
	Category rules.Category `json:"category"`
	Applied  int            `json:"applied"`
	Matched  int            `json:"matched"`
	Skipped  int            `json:"skipped"`
}

// Result is the outcome of one rewrite pass. The original text is kept
// for scoring but never serialized.
type Result struct {
	OriginalText    string           `json:"-"`
	TransformedText string           `json:"transformed_text"`
	Profile         Profile          `json:"profile"`
	Intensity       float64          `json:"intensity"`
	Report          []CategoryReport `json:"report"`
}

// Degraded reports whether any rule was skipped during the rewrite.
func (r *Result) Degraded() bool {
	for _, c := range r.Report {
		if c.Skipped > 0 {
			return true
		}
	}
	return false
}

// Engine applies the ordered rewrite catalog to input text.
type Engine struct {
	enabled  bool
	rules    []rules.Rule
	disabled map[rules.Category]bool
	log      *logger.Logger
}

// New compiles the rewrite catalog and builds an engine honoring the
// configured category selection. Rules whose matcher fails to compile are
// logged and excluded; the engine keeps working with the rest.
func New(cfg config.SanitizerConfig, log *logger.Logger) *Engine {
	compiled, skipped := rules.Compile()
	for _, name := range skipped {
		log.Warn("rewrite rule disabled, matcher failed to compile",
			zap.String("rule", name))
	}

	disabled := make(map[rules.Category]bool)
	if len(cfg.Categories) > 0 && cfg.Categories[0] != "all" {
		enabled := make(map[rules.Category]bool, len(cfg.Categories))
		for _, c := range cfg.Categories {
			enabled[rules.Category(c)] = true
		}
		for _, c := range rules.CategoryOrder {
			if !enabled[c] {
				disabled[c] = true
			}
		}
	}

	log.Info("rewrite engine ready",
		zap.Int("rules", len(compiled)),
		zap.Int("skipped", len(skipped)),
		zap.Int("disabled_categories", len(disabled)))

	return &Engine{enabled: cfg.Enabled, rules: compiled, disabled: disabled, log: log}
}

// RuleCount returns the number of compiled rules in the catalog.
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

// Sanitize rewrites text under the named profile. The same text and
// profile always produce the same output, and rewritten output is a fixed
// point: running it through the engine again changes nothing.
func (e *Engine) Sanitize(text, profileName string) (*Result, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidInput
	}

	profile := Normalize(profileName)
	intensity := profile.Intensity()

	result := &Result{
		OriginalText: text,
		Profile:      profile,
		Intensity:    intensity,
	}

	if !e.enabled {
		result.TransformedText = text
		return result, nil
	}

	reports := make(map[rules.Category]*CategoryReport)
	current := text
	for _, rule := range e.rules {
		if e.disabled[rule.Category] || intensity <= rule.MinIntensity {
			continue
		}
		report := reports[rule.Category]
		if report == nil {
			report = &CategoryReport{Category: rule.Category}
			reports[rule.Category] = report
		}

		rewritten, matched, err := applyRule(rule, current)
		if err != nil {
			report.Skipped++
			e.log.Warn("rewrite rule skipped",
				zap.String("rule", rule.Name),
				zap.Error(err))
			continue
		}
		report.Applied++
		report.Matched += matched
		current = rewritten
	}

	for _, c := range rules.CategoryOrder {
		if report, ok := reports[c]; ok {
			result.Report = append(result.Report, *report)
		}
	}
	result.TransformedText = current
	return result, nil
}

// applyRule isolates a single rule application so a panicking substitution
// callback degrades to a skipped rule instead of failing the request.
func applyRule(rule rules.Rule, text string) (out string, matched int, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, matched = text, 0
			err = errors.New("rule panicked during substitution")
		}
	}()
	out, matched = rule.Apply(text)
	return out, matched, nil
}
