package model

// DefaultGoalCalories is the daily target when none is configured.
const DefaultGoalCalories = 2000

// GoalProgress summarizes a day's intake against the calorie goal.
type GoalProgress struct {
	Total   int     `json:"total"`
	Goal    int     `json:"goal"`
	Percent float64 `json:"percent"`
	Over    int     `json:"over"`
}

// IsOverGoal returns true if the total exceeds the goal.
func (p GoalProgress) IsOverGoal() bool {
	return p.Over > 0
}

// Progress computes the progress of total against goal. Percent is capped at
// 100 and Over is how far past the goal the total is.
func Progress(total, goal int) GoalProgress {
	p := GoalProgress{Total: total, Goal: goal}
	if goal <= 0 {
		return p
	}
	p.Percent = float64(total) / float64(goal) * 100
	if p.Percent > 100 {
		p.Percent = 100
	}
	if total > goal {
		p.Over = total - goal
	}
	return p
}
