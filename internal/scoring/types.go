package scoring

// TransformationDetails reports the absolute per-family occurrence drops
// behind a composite score, plus the weighted reduction rate rounded to a
// whole percentage.
type TransformationDetails struct {
	BusinessTermsReduced int `json:"business_terms_reduced"`
	URLsReduced          int `json:"urls_reduced"`
	EndpointsReduced     int `json:"endpoints_reduced"`
	SecretsReduced       int `json:"secrets_reduced"`
	MethodNamesReduced   int `json:"method_names_reduced"`
	TypeNamesReduced     int `json:"type_names_reduced"`
	ReductionRate        int `json:"reduction_rate"`
}

// SecurityMetrics is the composite privacy assessment for one rewrite.
// Score fields are percentages in [0,100], bounded by the configured
// floor/cap bands.
type SecurityMetrics struct {
	PrivacyScore     float64 `json:"privacy_score"`
	LeakageRisk      float64 `json:"leakage_risk"`
	CompetitiveRisk  float64 `json:"competitive_risk"`
	AIParityEstimate float64 `json:"ai_parity_estimate"`
	ComplianceReady  bool    `json:"compliance_ready"`

	TransformationDetails TransformationDetails `json:"transformation_details"`
}
