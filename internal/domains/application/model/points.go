package model

// PointsForDifficulty returns the points a project is worth once approved.
func PointsForDifficulty(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyNormal:
		return 20
	case DifficultyHard:
		return 30
	default:
		return 0
	}
}

// TargetPoints returns the approved-points total an application needs
// to unlock its project certificate. Durations beyond 6 months do not
// raise the bar further.
func TargetPoints(duration int) int {
	if duration < 1 {
		return 0
	}
	if duration > 6 {
		duration = 6
	}
	return duration * 10
}
