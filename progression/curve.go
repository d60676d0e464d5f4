// Package progression holds the reward arithmetic shared by every endpoint
// that grants XP or renders a user's standing. Nothing here touches storage.
package progression

import (
	"fmt"
	"math"
)

var levelTitles = []string{
	"Beginner",
	"Novice",
	"Apprentice",
	"Explorer",
	"Coder",
	"Developer",
	"Skilled Developer",
	"Advanced Developer",
	"Expert",
	"Senior Expert",
	"Specialist",
	"Architect",
	"Master",
	"Senior Master",
	"Grand Master",
}

// Standing is a user's position on the level curve.
type Standing struct {
	Level              int    `json:"level"`
	LevelTitle         string `json:"level_title"`
	NextLevelTitle     string `json:"next_level_title"`
	XPForCurrentLevel  int    `json:"xp_for_current_level"`
	XPForNextLevel     int    `json:"xp_for_next_level"`
	XPToNextLevel      int    `json:"xp_to_next_level"`
	ProgressPercentage int    `json:"progress_percentage"`
}

// XPForLevel is the cumulative XP needed to reach level: 50(L-1)(L+2).
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * (level - 1) * (level + 2)
}

// LevelForXP returns the largest level L >= 1 with XPForLevel(L) <= xp.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Floor((-1 + math.Sqrt(9+0.08*float64(xp))) / 2))
	if level < 1 {
		level = 1
	}
	// float error at tier boundaries
	for level > 1 && XPForLevel(level) > xp {
		level--
	}
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// TitleForLevel labels a level; past the table it is "Level n".
func TitleForLevel(level int) string {
	if level >= 1 && level <= len(levelTitles) {
		return levelTitles[level-1]
	}
	return fmt.Sprintf("Level %d", level)
}

// StandingFor computes the full standing for a cumulative XP total.
func StandingFor(xp int) Standing {
	if xp < 0 {
		xp = 0
	}
	level := LevelForXP(xp)
	current := XPForLevel(level)
	next := XPForLevel(level + 1)

	percentage := 0
	if span := next - current; span > 0 {
		percentage = (xp - current) * 100 / span
	}

	return Standing{
		Level:              level,
		LevelTitle:         TitleForLevel(level),
		NextLevelTitle:     TitleForLevel(level + 1),
		XPForCurrentLevel:  current,
		XPForNextLevel:     next,
		XPToNextLevel:      next - xp,
		ProgressPercentage: percentage,
	}
}
