package prompts

import "strconv"

const resumeFile = "resume.json"

// Tier is the seniority classification that drives prompt detail level
type Tier string

const (
	TierJunior Tier = "junior"
	TierMid    Tier = "mid"
	TierSenior Tier = "senior"
)

// SeniorityTier maps years of experience to a tier.
func SeniorityTier(years int) Tier {
	switch {
	case years <= 4:
		return TierJunior
	case years <= 10:
		return TierMid
	default:
		return TierSenior
	}
}

// Build returns the system and user prompt for one resume.
func Build(industry, role string, seniority int) (system, user string) {
	tier := SeniorityTier(seniority)

	system = MustGet(resumeFile, "system")
	user = Format(MustGet(resumeFile, "user-"+string(tier)), map[string]string{
		"Role":      role,
		"Industry":  industry,
		"Seniority": strconv.Itoa(seniority),
		"Schema":    MustGet(resumeFile, "resume-schema"),
	})
	return system, user
}
