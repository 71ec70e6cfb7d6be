package wallet

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/vytor/learnearn/internal/models"
)

const (
	XPPerLevel = 1000
	// USDPerToken is the display-only exchange estimate shown on the wallet.
	USDPerToken = 0.65
)

func Level(xp int) int {
	return xp / XPPerLevel
}

// LevelProgress is the percentage of the current level already earned.
func LevelProgress(xp int) float64 {
	return float64(xp%XPPerLevel) / 10
}

func USDEstimate(balance float64) float64 {
	return balance * USDPerToken
}

// Achievement is a badge shown on the leaderboard screen.
type Achievement struct {
	Icon        string
	Title       string
	Description string
	Unlocked    bool
}

// Goal is a progress bar towards a milestone.
type Goal struct {
	Icon    string
	Title   string
	Current int
	Target  int
}

// Percent of the goal reached, capped at 100.
func (g Goal) Percent() float64 {
	if g.Target <= 0 || g.Current >= g.Target {
		return 100
	}
	return float64(g.Current) / float64(g.Target) * 100
}

// Achievements lists every badge with its unlock state.
func Achievements(acc models.Account) []Achievement {
	return []Achievement{
		{Icon: "🎓", Title: "First Lesson", Description: "Completed your first lesson", Unlocked: acc.LessonsCompleted >= 1},
		{Icon: "⚡", Title: "Fast Learner", Description: "Completed 5 lessons", Unlocked: acc.LessonsCompleted >= 5},
		{Icon: "🔥", Title: "On Fire", Description: fmt.Sprintf("%d day streak", acc.Streak), Unlocked: acc.Streak >= 3},
		{Icon: "💰", Title: "Crypto Earner", Description: fmt.Sprintf("Earned %.2f CELO", acc.TotalRewards), Unlocked: acc.TotalRewards >= 1},
	}
}

func UnlockedAchievements(acc models.Account) []Achievement {
	return lo.Filter(Achievements(acc), func(a Achievement, _ int) bool {
		return a.Unlocked
	})
}

// NextGoals returns the milestones not reached yet.
func NextGoals(acc models.Account) []Goal {
	goals := []Goal{
		{Icon: "🎯", Title: "Complete 10 lessons", Current: acc.LessonsCompleted, Target: 10},
		{Icon: "🔥", Title: "Build a 7-day streak", Current: acc.Streak, Target: 7},
	}
	return lo.Filter(goals, func(g Goal, _ int) bool {
		return g.Current < g.Target
	})
}
