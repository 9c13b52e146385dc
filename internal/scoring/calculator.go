package scoring

import (
	"math"

	"go.uber.org/zap"

	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
	"github.com/codeveil/codeveil/internal/rules"
)

// Calculator measures how much sensitive-pattern density a rewrite removed
// and turns the result into bounded percentage scores. Scoring is purely
// lexical: it counts pattern occurrences before and after, it does not
// judge semantics.
type Calculator struct {
	cfg       config.ScoringConfig
	detectors []rules.Detector
	log       *logger.Logger
}

// New builds a calculator with the given tuning.
func New(cfg config.ScoringConfig, log *logger.Logger) *Calculator {
	return &Calculator{
		cfg:       cfg,
		detectors: rules.Detectors(),
		log:       log,
	}
}

// Score compares original and transformed text and produces the composite
// assessment. The same input pair always yields the same metrics.
func (c *Calculator) Score(original, transformed string) *SecurityMetrics {
	details := TransformationDetails{}
	var composite float64
	var vocabBefore, vocabAfter int

	for _, d := range c.detectors {
		before := d.Count(original)
		after := d.Count(transformed)

		// A family absent from the original is treated as already at a
		// baseline safety level, neither a perfect nor a zero reduction.
		rate := familyValue(c.cfg.Fallbacks, d.Family)
		if before > 0 {
			rate = 1 - float64(after)/float64(before)
			if rate < 0 {
				rate = 0
			}
		}
		composite += familyValue(c.cfg.Weights, d.Family) * rate

		reduced := before - after
		if reduced < 0 {
			reduced = 0
		}
		switch d.Family {
		case rules.FamilyBusinessVocabulary:
			details.BusinessTermsReduced = reduced
			vocabBefore, vocabAfter = before, after
		case rules.FamilyURLs:
			details.URLsReduced = reduced
		case rules.FamilyAPIEndpoints:
			details.EndpointsReduced = reduced
		case rules.FamilySecretsContact:
			details.SecretsReduced = reduced
		case rules.FamilyMethodNames:
			details.MethodNamesReduced = reduced
		case rules.FamilyTypeNames:
			details.TypeNamesReduced = reduced
		}
	}
	details.ReductionRate = int(math.Round(composite * 100))

	metrics := &SecurityMetrics{
		PrivacyScore:          band(c.cfg.Privacy, composite),
		LeakageRisk:           bandInverse(c.cfg.Leakage, composite),
		CompetitiveRisk:       bandInverse(c.cfg.Competitive, composite),
		AIParityEstimate:      bandInverse(c.cfg.Parity, structuralDelta(original, transformed)),
		ComplianceReady:       composite > c.cfg.ReductionThreshold || float64(vocabAfter) < float64(vocabBefore)*c.cfg.VocabularyRatio,
		TransformationDetails: details,
	}

	c.log.Debug("scored rewrite",
		zap.Float64("reduction_rate", composite),
		zap.Float64("privacy_score", metrics.PrivacyScore),
		zap.Bool("compliance_ready", metrics.ComplianceReady))

	return metrics
}

// structuralDelta measures how much the rewrite changed the text's size,
// as a fraction of the original length. More rewriting means less fidelity
// for downstream consumers, so the parity estimate falls with this delta.
func structuralDelta(original, transformed string) float64 {
	if len(original) == 0 {
		return 0
	}
	delta := float64(len(original) - len(transformed))
	if delta < 0 {
		delta = -delta
	}
	frac := delta / float64(len(original))
	if frac > 1 {
		frac = 1
	}
	return frac
}

// band maps a rate in [0,1] onto base+rate*span, clamped to [floor,cap].
func band(b config.ScoreBand, rate float64) float64 {
	return clamp(b.Base+rate*b.Span, b.Floor, b.Cap)
}

// bandInverse maps a rate in [0,1] onto base-rate*span, clamped.
func bandInverse(b config.ScoreBand, rate float64) float64 {
	return clamp(b.Base-rate*b.Span, b.Floor, b.Cap)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func familyValue(v config.FamilyValues, f rules.Family) float64 {
	switch f {
	case rules.FamilyBusinessVocabulary:
		return v.BusinessVocabulary
	case rules.FamilyURLs:
		return v.URLs
	case rules.FamilyAPIEndpoints:
		return v.APIEndpoints
	case rules.FamilySecretsContact:
		return v.SecretsContact
	case rules.FamilyMethodNames:
		return v.MethodNames
	case rules.FamilyTypeNames:
		return v.TypeNames
	}
	return 0
}
