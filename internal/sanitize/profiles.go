package sanitize

// Profile names a rewrite aggressiveness preset. The profile resolves to
// a numeric intensity; rule categories activate when the intensity exceeds
// their threshold, so a stronger profile applies a superset of a weaker
// profile's categories.
type Profile string

const (
	ProfileParanoid    Profile = "paranoid"
	ProfileBalanced    Profile = "balanced"
	ProfilePerformance Profile = "performance"
)

var profileIntensities = map[Profile]float64{
	ProfileParanoid:    0.9,
	ProfileBalanced:    0.7,
	ProfilePerformance: 0.4,
}

// Normalize maps a profile name to a known profile. Unknown or empty
// names fall back to balanced rather than failing the request.
func Normalize(name string) Profile {
	p := Profile(name)
	if _, ok := profileIntensities[p]; ok {
		return p
	}
	return ProfileBalanced
}

// Intensity returns the rewrite intensity for the profile.
func (p Profile) Intensity() float64 {
	return profileIntensities[p]
}
