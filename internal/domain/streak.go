package domain

import "sort"

// CalculateStreak counts consecutive learning days walking back from today.
//
// The first date is always accepted, even when it is not today or yesterday:
// a single learning day three days ago still yields a streak of 1. Every
// following date must be exactly one calendar day before the previously
// accepted one; the walk stops at the first gap.
func CalculateStreak(dates []Day, today Day) int {
	sorted := uniqueDays(dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[j].Before(sorted[i])
	})

	streak := 0
	prev := today
	for _, d := range sorted {
		if d.DaysUntil(prev) == 1 || streak == 0 {
			streak++
			prev = d
			continue
		}
		break
	}
	return streak
}

func uniqueDays(dates []Day) []Day {
	seen := make(map[Day]struct{}, len(dates))
	out := make([]Day, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
