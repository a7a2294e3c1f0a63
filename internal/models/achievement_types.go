package models

import "fmt"

// AchievementType enumerates the achievements a player can earn in a match.
type AchievementType string

const (
	AchievementKeepItMoving     AchievementType = "KEEP_IT_MOVING"
	AchievementAirborneAddict   AchievementType = "AIRBORNE_ADDICT"
	AchievementShadowSurvivor   AchievementType = "SHADOW_SURVIVOR"
	AchievementFirstBloodWinner AchievementType = "FIRST_BLOOD_WINNER"
	AchievementTripleTakedown   AchievementType = "TRIPLE_TAKEDOWN"
	AchievementPerpetualMotion  AchievementType = "PERPETUAL_MOTION"
	AchievementRoundDominator   AchievementType = "ROUND_DOMINATOR"
	AchievementFlawlessVictory  AchievementType = "FLAWLESS_VICTORY"
)

var achievementTypes = map[AchievementType]struct{}{
	AchievementKeepItMoving:     {},
	AchievementAirborneAddict:   {},
	AchievementShadowSurvivor:   {},
	AchievementFirstBloodWinner: {},
	AchievementTripleTakedown:   {},
	AchievementPerpetualMotion:  {},
	AchievementRoundDominator:   {},
	AchievementFlawlessVictory:  {},
}

// ParseAchievementType validates a symbolic achievement name.
func ParseAchievementType(s string) (AchievementType, error) {
	t := AchievementType(s)
	if _, ok := achievementTypes[t]; !ok {
		return "", fmt.Errorf("unknown achievement type %q", s)
	}
	return t, nil
}

// Describe synthesizes the stored description for an achievement type.
func (t AchievementType) Describe() string {
	return fmt.Sprintf("Achievement: %s", string(t))
}
