package store

import (
	"sort"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

const (
	xpPerLevel = 100

	codeWarriorModules = 5
	streakDays         = 7
)

const (
	AchievementFirstSteps     = "first-steps"
	AchievementCodeWarrior    = "code-warrior"
	AchievementLearningStreak = "learning-streak"
)

// BuildProgress derives the learner summary from their completions.
func BuildProgress(userID string, completions []types.ModuleCompletion) *types.Progress {
	sorted := append([]types.ModuleCompletion{}, completions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	xp := 0
	for _, c := range sorted {
		xp += c.XPReward
	}

	return &types.Progress{
		UserID:           userID,
		XP:               xp,
		Level:            xp/xpPerLevel + 1,
		LevelProgress:    xp % xpPerLevel,
		CompletedModules: sorted,
		Achievements: []types.Achievement{
			{
				ID:          AchievementFirstSteps,
				Title:       "First Steps",
				Description: "Complete your first module",
				Unlocked:    len(sorted) >= 1,
			},
			{
				ID:          AchievementCodeWarrior,
				Title:       "Code Warrior",
				Description: "Complete 5 modules",
				Unlocked:    len(sorted) >= codeWarriorModules,
			},
			{
				ID:          AchievementLearningStreak,
				Title:       "Learning Streak",
				Description: "Learn for 7 days in a row",
				Unlocked:    longestStreak(sorted) >= streakDays,
			},
		},
	}
}

// longestStreak counts consecutive UTC calendar days with at least one completion.
// completions must be sorted by time.
func longestStreak(completions []types.ModuleCompletion) int {
	longest, current := 0, 0
	var last time.Time
	for _, c := range completions {
		day := c.CompletedAt.UTC().Truncate(24 * time.Hour)
		switch {
		case current > 0 && day.Equal(last):
			continue
		case current > 0 && day.Equal(last.AddDate(0, 0, 1)):
			current++
		default:
			current = 1
		}
		last = day
		if current > longest {
			longest = current
		}
	}
	return longest
}
