package main

import (
	"errors"
	"math"
)

// Aggregator error taxonomy. errMealNotFound is only signalled by updates;
// removes are idempotent no-ops.
var (
	errInvalidMeal  = errors.New("meal calories and macros must be finite non-negative numbers")
	errMealNotFound = errors.New("meal not found")
)

// validMealTypes is the set of allowed meal entry types. Reject unknown values
// with 400 rather than letting garbage into the stored meal list.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// emptyLog returns the zero-valued transient log for a date with no stored
// aggregate. It is never persisted as-is; only a mutation writes a row.
func emptyLog(userID int, date string) dailyLog {
	return dailyLog{UserID: userID, Date: date, Meals: []mealEntry{}}
}

// isBlank reports whether the log carries no recorded activity — no meals, no
// water, nothing burned. A blank log is indistinguishable from the transient
// and must not be written to storage or counted as a logging event.
func isBlank(lg dailyLog) bool {
	return len(lg.Meals) == 0 && lg.Consumed == 0 && lg.Burned == 0 &&
		lg.Water == 0 && lg.ProteinG == 0 && lg.CarbsG == 0 && lg.FatsG == 0
}

// recomputeTotals rederives Consumed and the macro totals from the meal list.
// Every mutation goes through here — totals are never incremented in place,
// which is what keeps them from drifting after a missed or doubled update.
func recomputeTotals(lg dailyLog) dailyLog {
	var consumed, protein, carbs, fats float64
	for _, m := range lg.Meals {
		consumed += m.Calories
		protein += m.Macros.Protein
		carbs += m.Macros.Carbs
		fats += m.Macros.Fats
	}
	lg.Consumed = consumed
	lg.ProteinG = protein
	lg.CarbsG = carbs
	lg.FatsG = fats
	return lg
}

// finiteNonNegative reports whether v is usable as a calorie or gram value.
func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// validMealEntry checks calories and each macro before the entry is allowed
// into the meal list. A single negative or non-finite value would poison the
// recomputed totals, so everything is screened up front.
func validMealEntry(entry mealEntry) bool {
	return finiteNonNegative(entry.Calories) &&
		finiteNonNegative(entry.Macros.Protein) &&
		finiteNonNegative(entry.Macros.Carbs) &&
		finiteNonNegative(entry.Macros.Fats)
}

// addMeal appends entry to the log's meal list and recomputes totals.
func addMeal(lg dailyLog, entry mealEntry) (dailyLog, error) {
	if !validMealEntry(entry) {
		return lg, errInvalidMeal
	}
	meals := make([]mealEntry, 0, len(lg.Meals)+1)
	meals = append(meals, lg.Meals...)
	meals = append(meals, entry)
	lg.Meals = meals
	return recomputeTotals(lg), nil
}

// updateMeal replaces the meal with entry's ID in place (same position) and
// recomputes totals. Returns errMealNotFound if no meal has that ID.
func updateMeal(lg dailyLog, entry mealEntry) (dailyLog, error) {
	if !validMealEntry(entry) {
		return lg, errInvalidMeal
	}
	meals := make([]mealEntry, len(lg.Meals))
	copy(meals, lg.Meals)
	found := false
	for i, m := range meals {
		if m.ID == entry.ID {
			meals[i] = entry
			found = true
			break
		}
	}
	if !found {
		return lg, errMealNotFound
	}
	lg.Meals = meals
	return recomputeTotals(lg), nil
}

// removeMeal filters out the meal with the given ID and recomputes totals.
// Removing an absent ID is a no-op, not an error — deletes are idempotent.
func removeMeal(lg dailyLog, id string) dailyLog {
	meals := make([]mealEntry, 0, len(lg.Meals))
	for _, m := range lg.Meals {
		if m.ID != id {
			meals = append(meals, m)
		}
	}
	lg.Meals = meals
	return recomputeTotals(lg)
}

// setWater sets the day's water intake, clamped to >= 0. Calorie and macro
// totals are untouched.
func setWater(lg dailyLog, amountML int) dailyLog {
	if amountML < 0 {
		amountML = 0
	}
	lg.Water = amountML
	return lg
}
