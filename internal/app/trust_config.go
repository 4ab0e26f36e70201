package app

import "github.com/collabmatch/collabmatch/internal/services"

// Awards converts TrustConfig to the services package representation,
// falling back to the standard amounts when a value is unset.
func (c TrustConfig) Awards() services.TrustAwards {
	awards := services.DefaultTrustAwards()
	if c.TeamAward > 0 {
		awards.TeamAcceptance = c.TeamAward
	}
	if c.ProjectAward > 0 {
		awards.ProjectAcceptance = c.ProjectAward
	}
	if c.CompletionAward > 0 {
		awards.Completion = c.CompletionAward
	}
	return awards
}
