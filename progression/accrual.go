package progression

import (
	"errors"
	"math"
	"time"
)

var ErrNonPositiveClaim = errors.New("xp_earned must be a positive integer")

const (
	// MinGameNominalXP floors a game's nominal reward before the cap multiplier.
	MinGameNominalXP  = 50
	GameCapMultiplier = 10

	DailyTaskXP = 50
)

// Reward is an XP and coin delta.
type Reward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// CoinsFor converts XP to coins at 2:1, rounding down.
func CoinsFor(xp int) int {
	if xp <= 0 {
		return 0
	}
	return xp / 2
}

// LessonXP tiers the lesson reward by lives left and whether the lesson was
// completed before.
func LessonXP(livesRemaining int, firstTime bool) int {
	var xp int
	switch {
	case livesRemaining >= 3:
		xp = 200
	case livesRemaining == 2:
		xp = 150
	default:
		xp = 100
	}
	if !firstTime {
		xp /= 2
	}
	return xp
}

func LessonReward(livesRemaining int, firstTime bool) Reward {
	xp := LessonXP(livesRemaining, firstTime)
	return Reward{XP: xp, Coins: CoinsFor(xp)}
}

// GameRewardCap is the most XP one completion of a game may award.
func GameRewardCap(nominal int) int {
	if nominal < MinGameNominalXP {
		nominal = MinGameNominalXP
	}
	return nominal * GameCapMultiplier
}

// GameReward clamps a client-claimed XP value to the game's cap.
func GameReward(claimed, nominal int) (Reward, error) {
	if claimed <= 0 {
		return Reward{}, ErrNonPositiveClaim
	}
	xp := claimed
	if limit := GameRewardCap(nominal); xp > limit {
		xp = limit
	}
	return Reward{XP: xp, Coins: CoinsFor(xp)}, nil
}

// DailyTaskReward is granted per correct daily challenge task.
func DailyTaskReward() Reward {
	return Reward{XP: DailyTaskXP, Coins: CoinsFor(DailyTaskXP)}
}

// StreakAfter advances a daily streak given the previous activity time. Same
// day keeps it, the next day extends it, any gap restarts at 1.
func StreakAfter(current int, last *time.Time, now time.Time) int {
	if last == nil || current <= 0 {
		return 1
	}
	lastDay := truncateDay(last.In(now.Location()))
	today := truncateDay(now)
	days := int(math.Round(today.Sub(lastDay).Hours() / 24))

	switch {
	case days <= 0:
		return current
	case days == 1:
		return current + 1
	default:
		return 1
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
