package main

import "math"

// nutritionTargets is the daily calorie/macro/water target set computed from a
// profile. Macros are grams, water is ml.
type nutritionTargets struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
	Water    int `json:"water"`
}

// defaultTargets is returned for incomplete profiles (missing or non-positive
// weight, height, or age) so the UI always has displayable numbers. Never
// surfaced as an error.
var defaultTargets = nutritionTargets{
	Calories: 2000,
	Protein:  150,
	Carbs:    200,
	Fats:     65,
	Water:    2500,
}

// activityMultipliers maps activity level strings to their standard TDEE
// multiplier. This is the single source of truth for valid activity levels —
// used for input validation in patchProfile. The calorie calculation itself
// uses the fixed light-activity multiplier below; see computeTargets.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// tdeeMultiplier is the fixed multiplier applied to BMR. The mobile app has
// always used the light-activity value regardless of the profile's declared
// activity level, and stored targets depend on it, so switching to the
// per-level table would silently move every user's calorie goal.
const tdeeMultiplier = 1.375

// Goal adjustments applied to TDEE, in kcal/day.
const (
	weightLossAdjustment = -500
	muscleGainAdjustment = 300
)

// computeTargets derives the daily calorie, macro, and water targets from a
// profile. Pure; no failure modes — an incomplete profile falls back to
// defaultTargets.
//
// BMR via Mifflin-St Jeor, TDEE = BMR x 1.375, then the goal adjustment.
// Macro split of the adjusted target: 30% protein / 40% carbs / 30% fat at
// 4/4/9 kcal per gram. customMacros, when set, overrides the split entirely.
// Water target is 35 ml per kg of body weight.
func computeTargets(p userProfile) nutritionTargets {
	if p.WeightKG <= 0 || p.HeightCM <= 0 || p.Age <= 0 {
		return defaultTargets
	}

	// Mifflin-St Jeor. "other" takes the female offset — matches the shipped
	// app; the formula itself only defines male/female constants.
	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	calories := bmr * tdeeMultiplier
	switch p.Goal {
	case "weight_loss":
		calories += weightLossAdjustment
	case "muscle_gain":
		calories += muscleGainAdjustment
	}

	t := nutritionTargets{
		Calories: int(math.Round(calories)),
		Protein:  int(math.Round(calories * 0.30 / 4)),
		Carbs:    int(math.Round(calories * 0.40 / 4)),
		Fats:     int(math.Round(calories * 0.30 / 9)),
		Water:    int(math.Round(p.WeightKG * 35)),
	}

	if p.CustomMacros != nil {
		t.Protein = int(math.Round(p.CustomMacros.Protein))
		t.Carbs = int(math.Round(p.CustomMacros.Carbs))
		t.Fats = int(math.Round(p.CustomMacros.Fats))
	}

	return t
}

// populateComputedFields fills the computed-only profile fields (streak view,
// nutrition targets) before the profile is returned to a client.
func populateComputedFields(p *userProfile) {
	s := p.streak()
	t := computeTargets(*p)
	p.Streak = &s
	p.Targets = &t
}
